// Package scene is an in-memory host scene. It owns entity lifetime and hands
// out generational handles; the panel core only ever holds those handles.
package scene

import (
	"errors"
	"fmt"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
)

var (
	// ErrStaleHandle is returned for handles whose entity has been destroyed.
	ErrStaleHandle = errors.New("stale entity handle")
	// ErrRequiredCapability guards capabilities every entity must keep.
	ErrRequiredCapability = errors.New("capability cannot be removed")
	// ErrDuplicateCapability is returned when adding a capability the entity already has.
	ErrDuplicateCapability = errors.New("capability already attached")
)

// Spec describes an entity to spawn.
type Spec struct {
	Name         string
	Active       bool
	Hidden       bool
	Static       bool
	Transform    domain.Transform
	Capabilities []string
}

type entity struct {
	name      string
	active    bool
	hidden    bool
	static    bool
	transform domain.Transform
	caps      map[string]any
}

type slot struct {
	gen    uint16
	alive  bool
	entity *entity
}

// InstanceFactory builds the instance stored for a capability attached at spawn time.
type InstanceFactory func(id string) any

// World implements domain.Host. It is not safe for concurrent use; callers
// confine it to one goroutine.
type World struct {
	slots       []slot
	free        []uint32
	alive       int
	newInstance InstanceFactory
}

// Option configures a World.
type Option func(*World)

// WithInstanceFactory sets the factory used for capabilities listed in a Spec.
func WithInstanceFactory(f InstanceFactory) Option {
	return func(w *World) { w.newInstance = f }
}

func New(opts ...Option) *World {
	w := &World{
		newInstance: func(string) any { return struct{}{} },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Spawn creates an entity and returns its handle. Recycled slots get a fresh generation.
func (w *World) Spawn(spec Spec) types.EntityHandle {
	e := &entity{
		name:      spec.Name,
		active:    spec.Active,
		hidden:    spec.Hidden,
		static:    spec.Static,
		transform: spec.Transform,
		caps:      map[string]any{domain.CapabilityTransform: struct{}{}},
	}
	for _, id := range spec.Capabilities {
		if id == "" || id == domain.CapabilityTransform {
			continue
		}
		if _, ok := e.caps[id]; !ok {
			e.caps[id] = w.newInstance(id)
		}
	}

	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{})
	}

	s := &w.slots[idx]
	s.gen = nextGen(s.gen)
	s.alive = true
	s.entity = e
	w.alive++

	return types.PackEntityHandle(s.gen, idx)
}

// Destroy removes the entity. Returns false for handles that are already stale.
func (w *World) Destroy(h types.EntityHandle) bool {
	s := w.resolveSlot(h)
	if s == nil {
		return false
	}
	s.alive = false
	s.entity = nil
	w.free = append(w.free, h.Index())
	w.alive--
	return true
}

// Len is the number of live entities, hidden ones included.
func (w *World) Len() int {
	return w.alive
}

// EnumerateAll returns every live handle in slot order.
func (w *World) EnumerateAll() []types.EntityHandle {
	out := make([]types.EntityHandle, 0, w.alive)
	for i := range w.slots {
		s := &w.slots[i]
		if s.alive {
			out = append(out, types.PackEntityHandle(s.gen, uint32(i)))
		}
	}
	return out
}

func (w *World) IsHidden(h types.EntityHandle) bool {
	e := w.resolve(h)
	if e == nil {
		return true
	}
	return e.hidden
}

// SetHidden toggles the editor-internal marker.
func (w *World) SetHidden(h types.EntityHandle, hidden bool) error {
	e := w.resolve(h)
	if e == nil {
		return fmt.Errorf("set hidden %v: %w", h, ErrStaleHandle)
	}
	e.hidden = hidden
	return nil
}

func (w *World) Alive(h types.EntityHandle) bool {
	return w.resolve(h) != nil
}

func (w *World) Snapshot(h types.EntityHandle) (domain.EntitySnapshot, bool) {
	e := w.resolve(h)
	if e == nil {
		return domain.EntitySnapshot{}, false
	}

	caps := make(domain.CapabilitySet, len(e.caps))
	for id := range e.caps {
		caps[id] = struct{}{}
	}

	return domain.EntitySnapshot{
		Handle:       h,
		Name:         e.name,
		Active:       e.active,
		Hidden:       e.hidden,
		Static:       e.static,
		Transform:    e.transform,
		Capabilities: caps,
	}, true
}

func (w *World) SetActive(h types.EntityHandle, active bool) error {
	e := w.resolve(h)
	if e == nil {
		return fmt.Errorf("set active %v: %w", h, ErrStaleHandle)
	}
	e.active = active
	return nil
}

func (w *World) SetTransform(h types.EntityHandle, t domain.Transform) error {
	e := w.resolve(h)
	if e == nil {
		return fmt.Errorf("set transform %v: %w", h, ErrStaleHandle)
	}
	e.transform = t
	return nil
}

func (w *World) Capability(h types.EntityHandle, id string) (any, bool) {
	e := w.resolve(h)
	if e == nil {
		return nil, false
	}
	inst, ok := e.caps[id]
	return inst, ok
}

func (w *World) AddCapability(h types.EntityHandle, id string, instance any) error {
	e := w.resolve(h)
	if e == nil {
		return fmt.Errorf("add %s to %v: %w", id, h, ErrStaleHandle)
	}
	if _, ok := e.caps[id]; ok {
		return fmt.Errorf("add %s to %v: %w", id, h, ErrDuplicateCapability)
	}
	e.caps[id] = instance
	return nil
}

func (w *World) RemoveCapability(h types.EntityHandle, id string) error {
	e := w.resolve(h)
	if e == nil {
		return fmt.Errorf("remove %s from %v: %w", id, h, ErrStaleHandle)
	}
	if id == domain.CapabilityTransform {
		return fmt.Errorf("remove %s from %v: %w", id, h, ErrRequiredCapability)
	}
	delete(e.caps, id)
	return nil
}

func (w *World) resolveSlot(h types.EntityHandle) *slot {
	if h.IsNil() {
		return nil
	}
	idx := h.Index()
	if int(idx) >= len(w.slots) {
		return nil
	}
	s := &w.slots[idx]
	if !s.alive || s.gen != h.Generation() {
		return nil
	}
	return s
}

func (w *World) resolve(h types.EntityHandle) *entity {
	if s := w.resolveSlot(h); s != nil {
		return s.entity
	}
	return nil
}

// nextGen skips zero so slot 0 never packs into the nil handle.
func nextGen(g uint16) uint16 {
	g++
	if g == 0 {
		g = 1
	}
	return g
}
