package modules

import (
	"errors"
	"fmt"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrCapabilityDisallowed is returned when a kind's Allowed predicate refuses an entity.
var ErrCapabilityDisallowed = errors.New("capability not allowed on entity")

// Registry attaches and detaches catalog capabilities on host entities.
// Every change goes through the recorder so it can be undone.
type Registry struct {
	host     domain.Host
	recorder domain.Recorder
}

func NewRegistry(host domain.Host, recorder domain.Recorder) *Registry {
	if recorder == nil {
		recorder = domain.ApplyDirectly
	}
	return &Registry{host: host, recorder: recorder}
}

// Catalog is the process-wide catalog.
func (r *Registry) Catalog() []domain.CapabilityType {
	return Catalog()
}

// Attach adds typeID to the entity unless it is already there.
// changed is false for every no-op: unknown type, stale entity, already attached.
func (r *Registry) Attach(h types.EntityHandle, typeID string) (changed bool, err error) {
	kind, ok := kindByID(typeID)
	if !ok {
		return false, nil
	}
	snap, ok := r.host.Snapshot(h)
	if !ok {
		return false, nil
	}
	if snap.Capabilities.Has(typeID) {
		return false, nil
	}
	if kind.Allowed != nil && !kind.Allowed(snap) {
		return false, fmt.Errorf("attach %s to %q: %w", typeID, snap.Name, ErrCapabilityDisallowed)
	}

	inst, err := safeInstance(kind)
	if err != nil {
		return false, fmt.Errorf("attach %s to %q: %w", typeID, snap.Name, err)
	}

	err = r.recorder.RecordAndApply(h, domain.Mutation{
		Label:  "Add " + kind.DisplayName,
		Entity: h,
		Apply:  func() error { return r.host.AddCapability(h, typeID, inst) },
		Revert: func() error { return r.host.RemoveCapability(h, typeID) },
	})
	if err != nil {
		if !r.host.Alive(h) {
			return false, nil
		}
		return false, fmt.Errorf("attach %s to %q: %w", typeID, snap.Name, err)
	}
	return true, nil
}

// Detach removes typeID from the entity if present. The removed instance is kept
// by the mutation so undo restores it as it was.
func (r *Registry) Detach(h types.EntityHandle, typeID string) (changed bool, err error) {
	kind, ok := kindByID(typeID)
	if !ok {
		return false, nil
	}
	inst, ok := r.host.Capability(h, typeID)
	if !ok {
		return false, nil
	}

	err = r.recorder.RecordAndApply(h, domain.Mutation{
		Label:  "Remove " + kind.DisplayName,
		Entity: h,
		Apply:  func() error { return r.host.RemoveCapability(h, typeID) },
		Revert: func() error { return r.host.AddCapability(h, typeID, inst) },
	})
	if err != nil {
		if !r.host.Alive(h) {
			return false, nil
		}
		return false, fmt.Errorf("detach %s: %w", typeID, err)
	}
	return true, nil
}

// Failure is one entity a batch operation could not change.
type Failure struct {
	Entity types.EntityHandle `json:"entity"`
	Error  string             `json:"error"`
}

// BatchResult reports a selection-wide attach or detach.
type BatchResult struct {
	TypeID  string               `json:"typeId"`
	Changed []types.EntityHandle `json:"changed"`
	Skipped []types.EntityHandle `json:"skipped"`
	Failed  []Failure            `json:"failed,omitempty"`
}

// AttachToSelection attaches to every entity independently; one refusal does not
// stop the others.
func (r *Registry) AttachToSelection(selection []types.EntityHandle, typeID string) BatchResult {
	return r.batch(selection, typeID, "attach", r.Attach)
}

// DetachFromSelection is the batch form of Detach.
func (r *Registry) DetachFromSelection(selection []types.EntityHandle, typeID string) BatchResult {
	return r.batch(selection, typeID, "detach", r.Detach)
}

func (r *Registry) batch(selection []types.EntityHandle, typeID, op string, fn func(types.EntityHandle, string) (bool, error)) BatchResult {
	res := BatchResult{
		TypeID:  typeID,
		Changed: []types.EntityHandle{},
		Skipped: []types.EntityHandle{},
	}
	for _, h := range selection {
		changed, err := fn(h, typeID)
		switch {
		case err != nil:
			logger.Log.WithFields(logrus.Fields{
				"component":  "modules",
				"op":         op,
				"entity":     h,
				"capability": typeID,
			}).WithError(err).Warn("batch member failed")
			res.Failed = append(res.Failed, Failure{Entity: h, Error: err.Error()})
		case changed:
			res.Changed = append(res.Changed, h)
		default:
			res.Skipped = append(res.Skipped, h)
		}
	}
	return res
}
