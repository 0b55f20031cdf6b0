package domain

import "scene-manager/internal/core/types"

// EntitySource is the minimal host contract: the core polls it, never pushes into it.
type EntitySource interface {
	EnumerateAll() []types.EntityHandle
	// IsHidden reports the editor-internal marker. Dead handles report true.
	IsHidden(h types.EntityHandle) bool
}

// Host is the full collaborator the panel needs: liveness, snapshots and the
// mutation primitives the recorder replays on undo/redo.
type Host interface {
	EntitySource

	Alive(h types.EntityHandle) bool
	Snapshot(h types.EntityHandle) (EntitySnapshot, bool)

	SetActive(h types.EntityHandle, active bool) error
	SetTransform(h types.EntityHandle, t Transform) error

	// Capability returns the attached instance for id, if any.
	Capability(h types.EntityHandle, id string) (any, bool)
	AddCapability(h types.EntityHandle, id string, instance any) error
	RemoveCapability(h types.EntityHandle, id string) error
}

// Mutation is one atomic, individually reversible change to one entity.
type Mutation struct {
	Label  string
	Entity types.EntityHandle
	Apply  func() error
	Revert func() error
}

// Recorder routes every entity mutation so an undo collaborator can reverse it.
type Recorder interface {
	RecordAndApply(h types.EntityHandle, m Mutation) error
}

// RecorderFunc adapts a plain function to Recorder.
type RecorderFunc func(h types.EntityHandle, m Mutation) error

func (f RecorderFunc) RecordAndApply(h types.EntityHandle, m Mutation) error {
	return f(h, m)
}

// ApplyDirectly is a Recorder that keeps no history.
var ApplyDirectly Recorder = RecorderFunc(func(_ types.EntityHandle, m Mutation) error {
	return m.Apply()
})
