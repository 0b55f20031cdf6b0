package domain

import (
	"sort"

	"scene-manager/internal/core/types"
)

// CapabilityTransform is carried by every host entity and cannot be detached.
const CapabilityTransform = "transform"

// EntitySnapshot is a read-only view of one live entity.
// Hosts build it fresh on every call; do not keep it past one refresh.
type EntitySnapshot struct {
	Handle       types.EntityHandle `json:"handle"`
	Name         string             `json:"name"`
	Active       bool               `json:"active"`
	Hidden       bool               `json:"hidden"`
	Static       bool               `json:"static"`
	Transform    Transform          `json:"transform"`
	Capabilities CapabilitySet      `json:"capabilities"`
}

// CapabilitySet is a set of capability ids.
type CapabilitySet map[string]struct{}

// NewCapabilitySet builds a set from ids, ignoring empty ones.
func NewCapabilitySet(ids ...string) CapabilitySet {
	s := make(CapabilitySet, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s CapabilitySet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// HasAll is the conjunctive check used by filters: every id in required must be present.
func (s CapabilitySet) HasAll(required CapabilitySet) bool {
	for id := range required {
		if _, ok := s[id]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the ids in lexical order (stable wire output).
func (s CapabilitySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CapabilityType describes an attachable module kind.
type CapabilityType struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}
