package server

import (
	"net/http"
	"time"

	"scene-manager/internal/engine"
	"scene-manager/pkg/api"
	"scene-manager/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client bridges one websocket connection and the panel service.
type Client struct {
	Panel   *engine.PanelService
	Conn    *websocket.Conn
	Send    chan api.ServerResponse
	Session string
}

func NewClient(panel *engine.PanelService, conn *websocket.Conn) *Client {
	return &Client{
		Panel:   panel,
		Conn:    conn,
		Send:    make(chan api.ServerResponse, 256),
		Session: uuid.NewString(),
	}
}

// readPump registers the session, asks for the first state and then forwards
// every intent to the panel loop.
func (c *Client) readPump() {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "ws",
		"session":   c.Session,
	})

	updates := c.Panel.Hub.Register(c.Session)
	go forward(updates, c.Send, log)

	defer func() {
		c.Panel.Hub.Unregister(c.Session)
		if err := c.Conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection")
		}
		log.Info("session closed")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	log.Info("session opened")
	if err := c.Panel.ProcessCommand(c.Session, api.ClientCommand{Action: "INIT"}); err != nil {
		log.WithError(err).Error("initial state request failed")
		return
	}

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Error("websocket read failed")
			}
			break
		}

		if err := c.Panel.ProcessCommand(c.Session, cmd); err != nil {
			log.WithError(err).Debug("command refused")
			c.Panel.Hub.SendTo(c.Session, api.ServerResponse{
				Type:  api.TypeError,
				Error: err.Error(),
			})
		}
	}
}

// forward copies hub updates into send until the hub closes the subscription,
// then closes send. A full send buffer drops the update, so a dead writePump
// cannot block it.
func forward(updates <-chan api.ServerResponse, send chan<- api.ServerResponse, log *logrus.Entry) {
	defer close(send)
	for msg := range updates {
		select {
		case send <- msg:
		default:
			log.WithField("type", msg.Type).Debug("send buffer full, update dropped")
		}
	}
}

// writePump sends queued responses and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
