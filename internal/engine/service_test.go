package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"scene-manager/internal/scene"
	"scene-manager/pkg/api"
)

func startService(t *testing.T, specs ...scene.Spec) (*PanelService, *scene.World) {
	t.Helper()
	w := scene.New()
	for _, s := range specs {
		w.Spawn(s)
	}
	cfg := NewConfig()
	cfg.TickInterval = 5 * time.Millisecond
	svc := NewService(cfg, w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return svc, w
}

func recv(t *testing.T, ch <-chan api.ServerResponse) api.ServerResponse {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a response")
	}
	return api.ServerResponse{}
}

func send(t *testing.T, svc *PanelService, session, action string, payload any) {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		raw = b
	}
	if err := svc.ProcessCommand(session, api.ClientCommand{Action: action, Payload: raw}); err != nil {
		t.Fatalf("ProcessCommand(%s) error = %v", action, err)
	}
}

func TestService_InitAnswersSenderOnly(t *testing.T) {
	svc, _ := startService(t, scene.Spec{Name: "A"}, scene.Spec{Name: "B"})
	me := svc.Hub.Register("me")
	other := svc.Hub.Register("other")

	send(t, svc, "me", "INIT", nil)

	msg := recv(t, me)
	if msg.Type != api.TypeState || msg.Session != "me" {
		t.Fatalf("got %+v", msg)
	}
	if msg.State == nil || len(msg.State.Visible) != 2 {
		t.Fatalf("state = %+v", msg.State)
	}
	if len(msg.Logs) != 1 {
		t.Errorf("logs = %+v", msg.Logs)
	}
	select {
	case m := <-other:
		t.Errorf("other session received %+v", m)
	default:
	}
}

func TestService_ToggleSelectBroadcasts(t *testing.T) {
	svc, _ := startService(t, scene.Spec{Name: "A"})
	a := svc.Hub.Register("a")
	b := svc.Hub.Register("b")

	send(t, svc, "a", "INIT", nil)
	first := recv(t, a)
	handle := first.State.Visible[0].Handle

	send(t, svc, "a", "toggle_select", api.EntityPayload{Handle: handle})

	for _, ch := range []<-chan api.ServerResponse{a, b} {
		msg := recv(t, ch)
		if msg.State == nil || len(msg.State.Selection) != 1 || msg.State.Selection[0] != handle {
			t.Errorf("state = %+v", msg.State)
		}
		if msg.State.Transform == nil {
			t.Error("transform fields missing for a non-empty selection")
		}
	}
}

func TestService_BadPayloadReturnsError(t *testing.T) {
	svc, _ := startService(t, scene.Spec{Name: "A"})
	me := svc.Hub.Register("me")

	send(t, svc, "me", "EDIT_FIELD", api.EditFieldPayload{Attribute: "color", Axis: "x"})

	msg := recv(t, me)
	if msg.Type != api.TypeError || msg.Error == "" {
		t.Errorf("got %+v, want ERROR", msg)
	}

	// The loop keeps serving after a rejected command.
	send(t, svc, "me", "INIT", nil)
	if msg := recv(t, me); msg.Type != api.TypeState {
		t.Errorf("got %+v after error", msg)
	}
}

func TestService_UnknownAction(t *testing.T) {
	svc, _ := startService(t)
	err := svc.ProcessCommand("me", api.ClientCommand{Action: "JUMP"})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("err = %v, want ErrUnknownAction", err)
	}
}

func TestService_TickPublishesSpawn(t *testing.T) {
	svc, w := startService(t, scene.Spec{Name: "A"})
	ch := svc.Hub.Register("s")

	if err := svc.Query(context.Background(), func(*Panel) {
		w.Spawn(scene.Spec{Name: "B"})
	}); err != nil {
		t.Fatal(err)
	}

	msg := recv(t, ch)
	if msg.State == nil || msg.State.Population != 2 {
		t.Errorf("state = %+v", msg.State)
	}
}

func TestService_Query(t *testing.T) {
	svc, _ := startService(t, scene.Spec{Name: "A"}, scene.Spec{Name: "Hidden", Hidden: true})

	var n int
	if err := svc.Query(context.Background(), func(p *Panel) {
		n = len(p.AllEntities())
	}); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("AllEntities() = %d entities, want 2", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Query(ctx, func(*Panel) {}); !errors.Is(err, context.Canceled) {
		t.Errorf("Query with cancelled ctx = %v", err)
	}
}
