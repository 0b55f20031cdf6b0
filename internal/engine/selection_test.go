package engine

import (
	"testing"

	"scene-manager/internal/core/types"

	"github.com/google/go-cmp/cmp"
)

func h(i uint32) types.EntityHandle { return types.PackEntityHandle(1, i) }

func TestSelectionSet_ToggleTwiceRestores(t *testing.T) {
	tests := []struct {
		name    string
		initial []types.EntityHandle
		toggle  types.EntityHandle
	}{
		{"absent handle", []types.EntityHandle{h(1), h(2)}, h(3)},
		{"present handle in the middle", []types.EntityHandle{h(1), h(2), h(3)}, h(2)},
		{"empty set", nil, h(7)},
		{"nil handle", []types.EntityHandle{h(1)}, types.NilEntityHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelectionSet()
			for _, m := range tt.initial {
				s.Add(m)
			}
			before := s.Members()

			s.Toggle(tt.toggle)
			s.Toggle(tt.toggle)

			if diff := cmp.Diff(before, s.Members()); diff != "" {
				t.Errorf("membership changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestSelectionSet_ClickOrder(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle(h(3))
	s.Toggle(h(1))
	s.Toggle(h(2))
	s.Toggle(h(1))
	s.Add(h(3))

	want := []types.EntityHandle{h(3), h(2)}
	if diff := cmp.Diff(want, s.Members()); diff != "" {
		t.Errorf("Members() mismatch (-want +got):\n%s", diff)
	}
	if !s.Contains(h(2)) || s.Contains(h(1)) {
		t.Error("Contains disagrees with Members")
	}
}

func TestSelectionSet_PruneInvalid(t *testing.T) {
	s := NewSelectionSet()
	for _, m := range []types.EntityHandle{h(1), h(2), h(3), h(4)} {
		s.Add(m)
	}

	dropped := s.PruneInvalid([]types.EntityHandle{h(4), h(2), h(9)})

	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if diff := cmp.Diff([]types.EntityHandle{h(2), h(4)}, s.Members()); diff != "" {
		t.Errorf("order not preserved (-want +got):\n%s", diff)
	}
}

func TestSelectionSet_RemoveAndClear(t *testing.T) {
	s := NewSelectionSet()
	s.Add(h(1))
	s.Add(h(2))
	s.Remove(h(1))
	s.Remove(h(5))
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	s.Clear()
	if s.Len() != 0 || len(s.Members()) != 0 {
		t.Error("Clear left members behind")
	}
}
