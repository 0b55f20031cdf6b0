package actions

import (
	"testing"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/internal/engine/handlers"
	"scene-manager/internal/modules"
	"scene-manager/pkg/api"
)

type stubPanel struct {
	toggled  []types.EntityHandle
	filter   domain.FilterCriteria
	edits    []string
	edited   int
	batch    modules.BatchResult
	canUndo  bool
	endEdits int
}

func (p *stubPanel) Refresh() bool { return true }
func (p *stubPanel) ToggleSelect(h types.EntityHandle) { p.toggled = append(p.toggled, h) }
func (p *stubPanel) ClearSelection() {}
func (p *stubPanel) ToggleActive(types.EntityHandle) error { return nil }
func (p *stubPanel) SetFilter(c domain.FilterCriteria) { p.filter = c }
func (p *stubPanel) EndEdit() { p.endEdits++ }
func (p *stubPanel) Attach(typeID string) modules.BatchResult { return p.batch }
func (p *stubPanel) Detach(typeID string) modules.BatchResult { return p.batch }
func (p *stubPanel) Undo() bool { return p.canUndo }
func (p *stubPanel) Redo() bool { return false }

func (p *stubPanel) EditField(attr domain.Attribute, axis domain.Axis, value float64) (int, error) {
	p.edits = append(p.edits, attr.String()+"."+axis.String())
	return p.edited, nil
}

func (p *stubPanel) ApplyTransform(domain.Transform) (int, error) {
	return p.edited, nil
}

func TestHandleToggleSelect(t *testing.T) {
	p := &stubPanel{}
	ctx := handlers.Context{Panel: p}
	want := types.PackEntityHandle(2, 9)

	if _, err := HandleToggleSelect(ctx, api.EntityPayload{Handle: want.Key()}); err != nil {
		t.Fatal(err)
	}
	if len(p.toggled) != 1 || p.toggled[0] != want {
		t.Errorf("toggled = %v", p.toggled)
	}
	if _, err := HandleToggleSelect(ctx, api.EntityPayload{Handle: "not-a-handle"}); err == nil {
		t.Error("expected parse error")
	}
}

func TestHandleSetFilter(t *testing.T) {
	p := &stubPanel{}
	res, err := HandleSetFilter(handlers.Context{Panel: p}, api.FilterPayload{
		Capabilities: []string{"rigidbody", "box_collider"},
		Search:       "crate",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !p.filter.RequiredCapabilities.HasAll(domain.NewCapabilitySet("rigidbody", "box_collider")) || p.filter.Search != "crate" {
		t.Errorf("filter = %+v", p.filter)
	}
	if !res.Unchanged {
		t.Error("SET_FILTER answers only the sender")
	}
}

func TestHandleEditField(t *testing.T) {
	p := &stubPanel{edited: 2}
	res, err := HandleEditField(handlers.Context{Panel: p}, api.EditFieldPayload{Attribute: "Rotation", Axis: "Y", Value: 90})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.edits) != 1 || p.edits[0] != "ROTATION.Y" {
		t.Errorf("edits = %v", p.edits)
	}
	if res.Unchanged {
		t.Error("an applied edit must broadcast")
	}

	p.edited = 0
	res, _ = HandleEditField(handlers.Context{Panel: p}, api.EditFieldPayload{Attribute: "scale", Axis: "x", Value: 1})
	if !res.Unchanged {
		t.Error("a no-op edit should not broadcast")
	}
}

func TestBatchResultMessage(t *testing.T) {
	crate := types.PackEntityHandle(1, 0)
	floor := types.PackEntityHandle(1, 1)
	p := &stubPanel{batch: modules.BatchResult{
		TypeID:  "rigidbody",
		Changed: []types.EntityHandle{crate},
		Failed:  []modules.Failure{{Entity: floor, Error: "capability not allowed on entity"}},
	}}

	res, err := HandleAttach(handlers.Context{Panel: p}, api.CapabilityPayload{TypeID: "rigidbody"})
	if err != nil {
		t.Fatal(err)
	}
	if res.MsgType != "WARN" || res.Batch == nil || res.Unchanged {
		t.Errorf("result = %+v", res)
	}
	if res.Msg != "Added Rigidbody on 1 entities, 1 refused." {
		t.Errorf("Msg = %q", res.Msg)
	}
}

func TestHandleUndo_Empty(t *testing.T) {
	res, _ := HandleUndo(handlers.Context{Panel: &stubPanel{}})
	if !res.Unchanged || res.Msg == "" {
		t.Errorf("result = %+v", res)
	}
}
