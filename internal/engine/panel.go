package engine

import (
	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/internal/history"
	"scene-manager/internal/modules"
	"scene-manager/internal/systems"
	"scene-manager/pkg/api"
	"scene-manager/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Panel is one editor panel bound to a host scene. It is not safe for concurrent
// use; Service confines it to the loop goroutine.
type Panel struct {
	host       domain.Host
	registry   *EntityRegistry
	selection  *SelectionSet
	filter     domain.FilterCriteria
	reconciler *systems.TransformReconciler
	modules    *modules.Registry
	journal    *history.Journal

	// gesture is the open field edit, nil between edits.
	gesture *systems.Gesture
	tick    int64
}

func NewPanel(host domain.Host, cfg Config) *Panel {
	journal := history.NewJournal(cfg.HistoryDepth)
	p := &Panel{
		host:       host,
		registry:   NewEntityRegistry(host),
		selection:  NewSelectionSet(),
		reconciler: systems.NewTransformReconciler(host, journal, cfg.Epsilon, cfg.Mode()),
		modules:    modules.NewRegistry(host, journal),
		journal:    journal,
	}
	p.registry.Refresh()
	return p
}

// Tick is one host update: it polls the registry and prunes the selection when
// the population changed.
func (p *Panel) Tick() bool {
	p.tick++
	if !p.registry.RefreshIfChanged() {
		return false
	}
	p.pruneSelection()
	return true
}

// Refresh rebuilds the population regardless of the count.
func (p *Panel) Refresh() bool {
	p.registry.Refresh()
	p.pruneSelection()
	return true
}

// TickCount is the number of ticks run so far.
func (p *Panel) TickCount() int64 {
	return p.tick
}

// Visible is the filtered population.
func (p *Panel) Visible() []domain.EntitySnapshot {
	return systems.FilterHandles(p.host, p.registry.CurrentPopulation(), p.filter)
}

// Selection returns the live members in click order. Stale members and members
// that left the last-known population are pruned here.
func (p *Panel) Selection() []types.EntityHandle {
	p.pruneSelection()
	return p.selection.Members()
}

func (p *Panel) pruneSelection() {
	dropped := p.selection.PruneFunc(func(h types.EntityHandle) bool {
		return p.registry.contains(h) && p.host.Alive(h)
	})
	if dropped > 0 {
		logger.Log.WithFields(logrus.Fields{
			"component": "panel",
			"dropped":   dropped,
		}).Debug("pruned stale selection")
		p.EndEdit()
	}
}

func (p *Panel) ToggleSelect(h types.EntityHandle) {
	p.EndEdit()
	p.selection.Toggle(h)
}

func (p *Panel) ClearSelection() {
	p.EndEdit()
	p.selection.Clear()
}

// ToggleActive flips one entity's active flag through the journal.
func (p *Panel) ToggleActive(h types.EntityHandle) error {
	snap, ok := p.host.Snapshot(h)
	if !ok {
		return nil
	}
	next := !snap.Active
	err := p.journal.RecordAndApply(h, domain.Mutation{
		Label:  "Toggle Active",
		Entity: h,
		Apply:  func() error { return p.host.SetActive(h, next) },
		Revert: func() error { return p.host.SetActive(h, snap.Active) },
	})
	if err != nil && !p.host.Alive(h) {
		return nil
	}
	return err
}

func (p *Panel) SetFilter(criteria domain.FilterCriteria) {
	p.filter = criteria
}

func (p *Panel) Filter() domain.FilterCriteria {
	return p.filter
}

// Reconcile is the transform read model of the current selection.
func (p *Panel) Reconcile() (systems.Reconciliation, bool) {
	return p.reconciler.Recompute(p.Selection())
}

// EditField sets one axis of one attribute across the selection. The first edit
// opens a gesture whose baseline holds until EndEdit.
func (p *Panel) EditField(attr domain.Attribute, axis domain.Axis, value float64) (int, error) {
	g, ok := p.openGesture()
	if !ok {
		return 0, nil
	}
	return g.Edit(attr, axis, value)
}

// ApplyTransform submits all three edited vectors within the current gesture.
func (p *Panel) ApplyTransform(edited domain.Transform) (int, error) {
	g, ok := p.openGesture()
	if !ok {
		return 0, nil
	}
	return g.Set(edited)
}

func (p *Panel) openGesture() (*systems.Gesture, bool) {
	sel := p.Selection()
	if p.gesture != nil {
		return p.gesture, true
	}
	g, ok := p.reconciler.BeginGesture(sel)
	if !ok {
		return nil, false
	}
	p.gesture = g
	return g, true
}

// EndEdit closes the open gesture. The next edit captures a fresh baseline.
func (p *Panel) EndEdit() {
	p.gesture = nil
}

// Editing reports whether a gesture is open.
func (p *Panel) Editing() bool {
	return p.gesture != nil
}

func (p *Panel) Attach(typeID string) modules.BatchResult {
	return p.modules.AttachToSelection(p.Selection(), typeID)
}

func (p *Panel) Detach(typeID string) modules.BatchResult {
	return p.modules.DetachFromSelection(p.Selection(), typeID)
}

// Undo reverts the latest mutation. It reports false when the journal is empty.
func (p *Panel) Undo() bool {
	p.EndEdit()
	rec, ok, err := p.journal.Undo()
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "panel",
			"entity":    rec.Entity,
		}).WithError(err).Debug("undo skipped")
	}
	return ok
}

func (p *Panel) Redo() bool {
	p.EndEdit()
	rec, ok, err := p.journal.Redo()
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "panel",
			"entity":    rec.Entity,
		}).WithError(err).Debug("redo skipped")
	}
	return ok
}

// History is the undo stack, oldest first.
func (p *Panel) History() []history.Record {
	return p.journal.Records()
}

// AllEntities snapshots every live host entity, hidden ones included.
func (p *Panel) AllEntities() []domain.EntitySnapshot {
	all := p.host.EnumerateAll()
	out := make([]domain.EntitySnapshot, 0, len(all))
	for _, h := range all {
		if snap, ok := p.host.Snapshot(h); ok {
			out = append(out, snap)
		}
	}
	return out
}

// State builds the shell read model.
func (p *Panel) State() api.PanelState {
	sel := p.Selection()
	selected := make(map[types.EntityHandle]bool, len(sel))
	selView := make([]string, 0, len(sel))
	for _, h := range sel {
		selected[h] = true
		selView = append(selView, h.Key())
	}

	visible := p.Visible()
	views := make([]api.EntityView, 0, len(visible))
	for _, snap := range visible {
		views = append(views, api.EntityView{
			Handle:       snap.Handle.Key(),
			Name:         snap.Name,
			Active:       snap.Active,
			Static:       snap.Static,
			Selected:     selected[snap.Handle],
			Capabilities: snap.Capabilities.Sorted(),
		})
	}

	catalog := p.modules.Catalog()
	catView := make([]api.CapabilityView, 0, len(catalog))
	for _, ct := range catalog {
		catView = append(catView, api.CapabilityView{ID: ct.ID, DisplayName: ct.DisplayName})
	}

	filter := p.Filter()
	state := api.PanelState{
		Population: p.registry.Count(),
		Visible:    views,
		Selection:  selView,
		Catalog:    catView,
		Filter: api.FilterView{
			Capabilities: filter.RequiredCapabilities.Sorted(),
			Search:       filter.Search,
		},
		ApplyMode: p.reconciler.Mode().String(),
		CanUndo:   p.journal.CanUndo(),
		CanRedo:   p.journal.CanRedo(),
	}

	if rec, ok := p.reconciler.Recompute(sel); ok {
		state.Transform = &api.TransformView{
			Representative: rec.Representative.Key(),
			Count:          rec.Count,
			Position:       vecView(rec.Baseline.Position),
			Rotation:       vecView(rec.Baseline.Rotation),
			Scale:          vecView(rec.Baseline.Scale),
			PositionMixed:  rec.Mixed(domain.AttributePosition),
			RotationMixed:  rec.Mixed(domain.AttributeRotation),
			ScaleMixed:     rec.Mixed(domain.AttributeScale),
			Editing:        p.Editing(),
		}
	}
	return state
}

func vecView(v domain.Vec3) api.Vec3View {
	return api.Vec3View{X: v.X, Y: v.Y, Z: v.Z}
}
