package engine

import (
	"slices"

	"scene-manager/internal/core/types"
)

// SelectionSet is an ordered, duplicate-free set of handles in click order.
// Every operation is total: stale handles are kept until PruneInvalid drops them.
type SelectionSet struct {
	members []types.EntityHandle
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{}
}

// Toggle appends an absent handle or removes a present one.
func (s *SelectionSet) Toggle(h types.EntityHandle) {
	if i := slices.Index(s.members, h); i >= 0 {
		s.members = slices.Delete(s.members, i, i+1)
		return
	}
	s.members = append(s.members, h)
}

// Add appends h unless it is already selected.
func (s *SelectionSet) Add(h types.EntityHandle) {
	if !s.Contains(h) {
		s.members = append(s.members, h)
	}
}

func (s *SelectionSet) Remove(h types.EntityHandle) {
	if i := slices.Index(s.members, h); i >= 0 {
		s.members = slices.Delete(s.members, i, i+1)
	}
}

func (s *SelectionSet) Contains(h types.EntityHandle) bool {
	return slices.Contains(s.members, h)
}

// Members returns a copy in selection order, never nil.
func (s *SelectionSet) Members() []types.EntityHandle {
	out := make([]types.EntityHandle, len(s.members))
	copy(out, s.members)
	return out
}

func (s *SelectionSet) Len() int {
	return len(s.members)
}

func (s *SelectionSet) Clear() {
	s.members = s.members[:0]
}

// PruneInvalid keeps only members present in live, preserving order.
// It returns the number of members dropped.
func (s *SelectionSet) PruneInvalid(live []types.EntityHandle) int {
	return s.PruneFunc(func(h types.EntityHandle) bool {
		return slices.Contains(live, h)
	})
}

// PruneFunc keeps only members for which keep returns true.
func (s *SelectionSet) PruneFunc(keep func(types.EntityHandle) bool) int {
	before := len(s.members)
	s.members = slices.DeleteFunc(s.members, func(h types.EntityHandle) bool {
		return !keep(h)
	})
	return before - len(s.members)
}
