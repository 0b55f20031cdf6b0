package systems

import (
	"strings"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"

	"golang.org/x/text/cases"
)

// ApplyFilter returns the snapshots that carry every required capability and
// whose name contains the search text, ignoring case. Input order is kept.
func ApplyFilter(population []domain.EntitySnapshot, criteria domain.FilterCriteria) []domain.EntitySnapshot {
	if criteria.IsEmpty() {
		out := make([]domain.EntitySnapshot, len(population))
		copy(out, population)
		return out
	}

	// Caser is stateful, one per call.
	fold := cases.Fold()
	needle := fold.String(criteria.Search)

	out := make([]domain.EntitySnapshot, 0, len(population))
	for _, snap := range population {
		if !snap.Capabilities.HasAll(criteria.RequiredCapabilities) {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(snap.Name), needle) {
			continue
		}
		out = append(out, snap)
	}
	return out
}

// FilterHandles resolves handles through the host and filters them.
// Handles that no longer resolve are dropped.
func FilterHandles(host domain.Host, population []types.EntityHandle, criteria domain.FilterCriteria) []domain.EntitySnapshot {
	snaps := make([]domain.EntitySnapshot, 0, len(population))
	for _, h := range population {
		if snap, ok := host.Snapshot(h); ok {
			snaps = append(snaps, snap)
		}
	}
	return ApplyFilter(snaps, criteria)
}
