package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"scene-manager/internal/domain"
	"scene-manager/internal/engine/handlers"
	"scene-manager/internal/engine/handlers/actions"
	"scene-manager/internal/modules"
	"scene-manager/internal/network"
	"scene-manager/pkg/api"
	"scene-manager/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrUnknownAction is returned by ProcessCommand for action names it cannot route.
var ErrUnknownAction = errors.New("unknown action")

type query struct {
	fn   func(*Panel)
	done chan struct{}
}

// PanelService owns one Panel and runs it on a single goroutine. Sessions and
// debug handlers reach the panel only through channels.
type PanelService struct {
	cfg   Config
	panel *Panel

	CommandChan chan domain.InternalCommand
	queries     chan query
	Hub         *network.Broadcaster

	handlers map[domain.ActionType]handlers.HandlerFunc
}

func NewService(cfg Config, host domain.Host) *PanelService {
	s := &PanelService{
		cfg:         cfg,
		panel:       NewPanel(host, cfg),
		CommandChan: make(chan domain.InternalCommand, 100),
		queries:     make(chan query),
		Hub:         network.NewBroadcaster(),
		handlers:    make(map[domain.ActionType]handlers.HandlerFunc),
	}
	s.registerHandlers()
	return s
}

func (s *PanelService) registerHandlers() {
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers[domain.ActionRefresh] = handlers.WithEmptyPayload(actions.HandleRefresh)
	s.handlers[domain.ActionToggleSelect] = handlers.WithPayload(actions.HandleToggleSelect)
	s.handlers[domain.ActionClearSelection] = handlers.WithEmptyPayload(actions.HandleClearSelection)
	s.handlers[domain.ActionToggleActive] = handlers.WithPayload(actions.HandleToggleActive)
	s.handlers[domain.ActionSetFilter] = handlers.WithPayload(actions.HandleSetFilter)
	s.handlers[domain.ActionEditField] = handlers.WithPayload(actions.HandleEditField)
	s.handlers[domain.ActionSetTransform] = handlers.WithPayload(actions.HandleSetTransform)
	s.handlers[domain.ActionEndEdit] = handlers.WithEmptyPayload(actions.HandleEndEdit)
	s.handlers[domain.ActionAttach] = handlers.WithPayload(actions.HandleAttach)
	s.handlers[domain.ActionDetach] = handlers.WithPayload(actions.HandleDetach)
	s.handlers[domain.ActionUndo] = handlers.WithEmptyPayload(actions.HandleUndo)
	s.handlers[domain.ActionRedo] = handlers.WithEmptyPayload(actions.HandleRedo)
}

// ProcessCommand queues an intent from a session. It blocks while the queue is
// full, so a flooding session slows only its own read pump.
func (s *PanelService) ProcessCommand(session string, cmd api.ClientCommand) error {
	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown {
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	s.CommandChan <- domain.InternalCommand{
		Action:  action,
		Session: session,
		Payload: cmd.Payload,
	}
	return nil
}

// Query runs fn on the loop goroutine and waits for it.
func (s *PanelService) Query(ctx context.Context, fn func(*Panel)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q := query{fn: fn, done: make(chan struct{})}
	select {
	case s.queries <- q:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Panel gives direct access to the panel. Only safe while Run is not running.
func (s *PanelService) Panel() *Panel {
	return s.panel
}

// Run is the panel loop. It returns when ctx is done.
func (s *PanelService) Run(ctx context.Context) {
	log := logger.Component("loop")
	log.WithField("interval", s.cfg.TickInterval).Info("panel loop started")

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("panel loop stopped")
			return

		case <-ticker.C:
			if s.panel.Tick() {
				s.publish(api.ServerResponse{Type: api.TypeState})
			}

		case cmd := <-s.CommandChan:
			s.executeCommand(cmd)

		case q := <-s.queries:
			q.fn(s.panel)
			close(q.done)
		}
	}
}

// executeCommand runs the handler and answers. Handler errors go back to the
// sending session only and never stop the loop.
func (s *PanelService) executeCommand(cmd domain.InternalCommand) {
	handler, ok := s.handlers[cmd.Action]
	if !ok {
		return
	}

	ctx := handlers.Context{
		Panel:   s.panel,
		Session: cmd.Session,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "loop",
			"session":   cmd.Session,
			"action":    cmd.Action.String(),
		}).WithError(err).Warn("command rejected")

		s.Hub.SendTo(cmd.Session, api.ServerResponse{
			Type:  api.TypeError,
			Tick:  s.panel.TickCount(),
			Error: fmt.Sprintf("%s: %v", cmd.Action, err),
		})
		return
	}

	msg := api.ServerResponse{Type: api.TypeState}
	if result.Msg != "" {
		msgType := result.MsgType
		if msgType == "" {
			msgType = "INFO"
		}
		msg.Logs = []api.LogEntry{newLogEntry(result.Msg, msgType)}
	}
	if result.Batch != nil {
		msg.Batch = batchView(*result.Batch)
	}

	if result.Unchanged {
		msg.Session = cmd.Session
		s.sendTo(cmd.Session, msg)
		return
	}
	s.publish(msg)
}

// publish fills in the state and sends it to every session.
func (s *PanelService) publish(msg api.ServerResponse) {
	state := s.panel.State()
	msg.State = &state
	msg.Tick = s.panel.TickCount()
	s.Hub.Broadcast(msg)
}

func (s *PanelService) sendTo(session string, msg api.ServerResponse) {
	state := s.panel.State()
	msg.State = &state
	msg.Tick = s.panel.TickCount()
	s.Hub.SendTo(session, msg)
}

func newLogEntry(text, logType string) api.LogEntry {
	now := time.Now()
	return api.LogEntry{
		ID:        strconv.FormatInt(now.UnixNano(), 10),
		Text:      text,
		Type:      logType,
		Timestamp: now.UnixMilli(),
	}
}

func batchView(res modules.BatchResult) *api.BatchView {
	view := &api.BatchView{
		TypeID:  res.TypeID,
		Changed: make([]string, 0, len(res.Changed)),
		Skipped: make([]string, 0, len(res.Skipped)),
	}
	for _, h := range res.Changed {
		view.Changed = append(view.Changed, h.Key())
	}
	for _, h := range res.Skipped {
		view.Skipped = append(view.Skipped, h.Key())
	}
	for _, f := range res.Failed {
		view.Failed = append(view.Failed, api.FailureView{Handle: f.Entity.Key(), Error: f.Error})
	}
	return view
}
