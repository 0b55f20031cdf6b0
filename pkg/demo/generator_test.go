package demo

import (
	"strings"
	"testing"

	"scene-manager/internal/modules"

	"github.com/google/go-cmp/cmp"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(42)
	b := Generate(42)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different scenes (-a +b):\n%s", diff)
	}
}

func TestGenerate_Contents(t *testing.T) {
	specs := Generate(7)

	floors, hidden := 0, 0
	for _, s := range specs {
		if strings.HasSuffix(s.Name, "Floor") {
			floors++
			if !s.Static {
				t.Errorf("%s is not static", s.Name)
			}
		}
		if s.Hidden {
			hidden++
		}
		for _, id := range s.Capabilities {
			if _, ok := modules.Lookup(id); !ok {
				t.Errorf("%s uses capability %q missing from the catalog", s.Name, id)
			}
		}
	}

	if floors == 0 {
		t.Error("no rooms generated")
	}
	if hidden != 1 {
		t.Errorf("hidden entities = %d, want 1", hidden)
	}
}

func TestRect_Intersects(t *testing.T) {
	a := Rect{X: 0, Z: 0, W: 4, D: 4}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", Rect{X: 2, Z: 2, W: 4, D: 4}, true},
		{"touching edge", Rect{X: 4, Z: 0, W: 2, D: 2}, true},
		{"apart", Rect{X: 10, Z: 10, W: 2, D: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}
