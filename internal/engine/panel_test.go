package engine

import (
	"testing"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/internal/scene"

	"github.com/google/go-cmp/cmp"
)

func newTestPanel(t *testing.T, specs ...scene.Spec) (*Panel, *scene.World, []types.EntityHandle) {
	t.Helper()
	w := scene.New()
	handles := make([]types.EntityHandle, 0, len(specs))
	for _, s := range specs {
		handles = append(handles, w.Spawn(s))
	}
	return NewPanel(w, NewConfig()), w, handles
}

func pos(x, y, z float64) domain.Transform {
	return domain.Transform{Position: domain.Vec3{X: x, Y: y, Z: z}, Scale: domain.Vec3{X: 1, Y: 1, Z: 1}}
}

func positionOf(t *testing.T, w *scene.World, h types.EntityHandle) domain.Vec3 {
	t.Helper()
	snap, ok := w.Snapshot(h)
	if !ok {
		t.Fatalf("entity %v is gone", h)
	}
	return snap.Transform.Position
}

func TestPanel_EditFieldKeepsOffsets(t *testing.T) {
	p, w, hs := newTestPanel(t,
		scene.Spec{Name: "E1", Transform: pos(0, 0, 0)},
		scene.Spec{Name: "E2", Transform: pos(1, 0, 0)},
	)
	p.ToggleSelect(hs[0])
	p.ToggleSelect(hs[1])

	rec, ok := p.Reconcile()
	if !ok || !rec.PositionMixed[domain.AxisX] || rec.PositionMixed[domain.AxisY] {
		t.Fatalf("Reconcile() = %+v, %v", rec, ok)
	}

	n, err := p.EditField(domain.AttributePosition, domain.AxisX, 5)
	if err != nil || n != 2 {
		t.Fatalf("EditField = %d, %v", n, err)
	}
	if got := positionOf(t, w, hs[0]); got != (domain.Vec3{X: 5}) {
		t.Errorf("E1 = %+v", got)
	}
	if got := positionOf(t, w, hs[1]); got != (domain.Vec3{X: 6}) {
		t.Errorf("E2 = %+v", got)
	}
}

func TestPanel_GestureLastsUntilEndEdit(t *testing.T) {
	p, w, hs := newTestPanel(t,
		scene.Spec{Name: "E1", Transform: pos(0, 0, 0)},
		scene.Spec{Name: "E2", Transform: pos(1, 0, 0)},
	)
	p.ToggleSelect(hs[0])
	p.ToggleSelect(hs[1])

	// Typing "5" then "50" into the X field.
	p.EditField(domain.AttributePosition, domain.AxisX, 5)
	p.EditField(domain.AttributePosition, domain.AxisX, 50)
	if !p.Editing() {
		t.Fatal("gesture closed early")
	}
	p.EndEdit()

	if got := positionOf(t, w, hs[1]).X; got != 51 {
		t.Errorf("E2.x = %v, want 51", got)
	}

	// A new gesture starts from the fresh baseline.
	p.EditField(domain.AttributePosition, domain.AxisX, 60)
	if got := positionOf(t, w, hs[0]).X; got != 60 {
		t.Errorf("E1.x = %v, want 60", got)
	}
}

func TestPanel_SelectionPrunesDestroyed(t *testing.T) {
	p, w, hs := newTestPanel(t,
		scene.Spec{Name: "A"},
		scene.Spec{Name: "B"},
		scene.Spec{Name: "C"},
	)
	for _, h := range hs {
		p.ToggleSelect(h)
	}

	w.Destroy(hs[1])
	if diff := cmp.Diff([]types.EntityHandle{hs[0], hs[2]}, p.Selection()); diff != "" {
		t.Errorf("Selection() mismatch (-want +got):\n%s", diff)
	}

	// Toggling a stale handle is accepted and pruned on the next read.
	p.ToggleSelect(hs[1])
	if len(p.Selection()) != 2 {
		t.Errorf("stale toggle survived: %v", p.Selection())
	}
}

func TestPanel_TickRefreshesOnCountChange(t *testing.T) {
	p, w, _ := newTestPanel(t, scene.Spec{Name: "A"})

	if p.Tick() {
		t.Error("Tick() reported a change on an idle host")
	}
	w.Spawn(scene.Spec{Name: "B"})
	if !p.Tick() {
		t.Error("Tick() missed a spawn")
	}
	if got := len(p.Visible()); got != 2 {
		t.Errorf("len(Visible()) = %d, want 2", got)
	}
	if p.TickCount() != 2 {
		t.Errorf("TickCount() = %d", p.TickCount())
	}
}

func TestPanel_FilterAndState(t *testing.T) {
	p, _, hs := newTestPanel(t,
		scene.Spec{Name: "Crate", Capabilities: []string{"box_collider", "rigidbody"}},
		scene.Spec{Name: "Wall", Capabilities: []string{"box_collider"}},
		scene.Spec{Name: "crate lid", Capabilities: []string{"box_collider", "rigidbody"}},
		scene.Spec{Name: "Gizmo", Hidden: true, Capabilities: []string{"box_collider", "rigidbody"}},
	)
	p.SetFilter(domain.FilterCriteria{
		RequiredCapabilities: domain.NewCapabilitySet("box_collider", "rigidbody"),
		Search:               "CRATE",
	})
	p.ToggleSelect(hs[2])

	if got := p.Filter(); got.Search != "CRATE" || !got.RequiredCapabilities.Has("rigidbody") {
		t.Errorf("Filter() = %+v", got)
	}

	st := p.State()
	var names []string
	for _, v := range st.Visible {
		names = append(names, v.Name)
	}
	if diff := cmp.Diff([]string{"Crate", "crate lid"}, names); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}
	if !st.Visible[1].Selected || st.Visible[0].Selected {
		t.Error("Selected flags wrong")
	}
	if st.Population != 3 {
		t.Errorf("Population = %d, want 3", st.Population)
	}
	if st.Transform == nil || st.Transform.Representative != hs[2].Key() {
		t.Errorf("Transform = %+v", st.Transform)
	}
	if st.Filter.Search != "CRATE" {
		t.Errorf("state filter search = %q", st.Filter.Search)
	}
	if len(st.Catalog) == 0 || st.ApplyMode != "whole" {
		t.Errorf("catalog/mode = %d/%s", len(st.Catalog), st.ApplyMode)
	}
}

func TestPanel_EmptySelectionState(t *testing.T) {
	p, _, _ := newTestPanel(t, scene.Spec{Name: "A"})

	st := p.State()
	if st.Transform != nil {
		t.Errorf("Transform = %+v, want nil", st.Transform)
	}
	if st.Selection == nil || len(st.Selection) != 0 {
		t.Errorf("Selection = %#v, want empty slice", st.Selection)
	}
	if n, err := p.EditField(domain.AttributePosition, domain.AxisX, 1); n != 0 || err != nil {
		t.Errorf("EditField on empty selection = %d, %v", n, err)
	}
}

func TestPanel_ToggleActiveUndoRedo(t *testing.T) {
	p, w, hs := newTestPanel(t, scene.Spec{Name: "Lamp", Active: true})

	if err := p.ToggleActive(hs[0]); err != nil {
		t.Fatal(err)
	}
	if snap, _ := w.Snapshot(hs[0]); snap.Active {
		t.Fatal("entity still active")
	}
	if !p.Undo() {
		t.Fatal("Undo() = false")
	}
	if snap, _ := w.Snapshot(hs[0]); !snap.Active {
		t.Error("undo did not restore active")
	}
	if !p.Redo() {
		t.Fatal("Redo() = false")
	}
	if snap, _ := w.Snapshot(hs[0]); snap.Active {
		t.Error("redo did not deactivate")
	}
	if p.Redo() {
		t.Error("Redo() on empty redo stack = true")
	}

	w.Destroy(hs[0])
	if err := p.ToggleActive(hs[0]); err != nil {
		t.Errorf("stale ToggleActive error = %v", err)
	}
}

func TestPanel_AttachPartialFailureAndUndo(t *testing.T) {
	p, w, hs := newTestPanel(t,
		scene.Spec{Name: "Crate"},
		scene.Spec{Name: "Floor", Static: true},
	)
	p.ToggleSelect(hs[0])
	p.ToggleSelect(hs[1])

	res := p.Attach("rigidbody")
	if len(res.Changed) != 1 || len(res.Failed) != 1 {
		t.Fatalf("Attach result = %+v", res)
	}
	if _, ok := w.Capability(hs[0], "rigidbody"); !ok {
		t.Fatal("rigidbody missing on Crate")
	}

	p.Undo()
	if _, ok := w.Capability(hs[0], "rigidbody"); ok {
		t.Error("undo left rigidbody attached")
	}

	if res := p.Detach("rigidbody"); len(res.Changed) != 0 {
		t.Errorf("Detach of absent capability changed %v", res.Changed)
	}
}

func TestPanel_UndoClosesGesture(t *testing.T) {
	p, w, hs := newTestPanel(t, scene.Spec{Name: "A", Transform: pos(0, 0, 0)})
	p.ToggleSelect(hs[0])

	p.EditField(domain.AttributePosition, domain.AxisY, 3)
	p.Undo()
	if p.Editing() {
		t.Fatal("gesture still open after undo")
	}
	p.EditField(domain.AttributePosition, domain.AxisY, 1)
	if got := positionOf(t, w, hs[0]).Y; got != 1 {
		t.Errorf("A.y = %v, want 1", got)
	}
}
