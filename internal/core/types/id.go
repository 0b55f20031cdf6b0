package types

import (
	"fmt"
	"strconv"
)

// EntityHandle is a non-owning reference to an entity living in the host scene.
//
// The handle is a value type: cheap to copy, compare and use as a map key.
//
// Bit layout (high to low):
//
//	[ Reserved (16) | Generation (16) | Index (32) ]
//
// Index addresses the host slot. Generation is bumped by the host every time the
// slot is recycled, so a handle that outlived its entity never resolves to the
// slot's new occupant.
type EntityHandle uint64

// NilEntityHandle is the zero handle. Hosts never issue it.
const NilEntityHandle EntityHandle = 0

const (
	bitsIndex = 32
	bitsGen   = 16

	shiftGen = bitsIndex

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
)

// PackEntityHandle builds a handle from a slot index and its generation.
// No range checks: callers own the slot table.
func PackEntityHandle(gen uint16, index uint32) EntityHandle {
	return EntityHandle((uint64(gen) << shiftGen) | uint64(index))
}

// Index returns the host slot index.
func (h EntityHandle) Index() uint32 {
	return uint32(h & maskIndex)
}

// Generation returns the slot generation the handle was issued for.
func (h EntityHandle) Generation() uint16 {
	return uint16((h >> shiftGen) & maskGen)
}

// IsNil reports whether the handle is the zero handle.
func (h EntityHandle) IsNil() bool {
	return h == NilEntityHandle
}

// String is meant for logs.
func (h EntityHandle) String() string {
	if h.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[gen=%d idx=%d]", h.Generation(), h.Index())
}

// Key is the decimal wire form, the inverse of ParseEntityHandle.
func (h EntityHandle) Key() string {
	return strconv.FormatUint(uint64(h), 10)
}

// ParseEntityHandle parses the decimal form produced by Key.
func ParseEntityHandle(s string) (EntityHandle, error) {
	if s == "" {
		return NilEntityHandle, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilEntityHandle, fmt.Errorf("parse entity handle %q: %w", s, err)
	}
	return EntityHandle(v), nil
}

// MarshalJSON encodes the handle as a decimal string; JS clients lose precision on uint64.
func (h EntityHandle) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.Key() + `"`), nil
}

// UnmarshalJSON accepts both the string and the bare number form.
func (h *EntityHandle) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	v, err := ParseEntityHandle(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}
