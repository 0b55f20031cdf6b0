package engine

import (
	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/pkg/logger"

	"github.com/sirupsen/logrus"
)

// EntityRegistry caches the eligible (non-hidden) population of the host.
//
// Change detection only compares the eligible count with the last-known count.
// Removing one entity and adding another in the same tick leaves the cache stale
// until the count changes again.
type EntityRegistry struct {
	source     domain.EntitySource
	population []types.EntityHandle
	count      int
}

func NewEntityRegistry(source domain.EntitySource) *EntityRegistry {
	return &EntityRegistry{source: source, count: -1}
}

// RefreshIfChanged rebuilds the population when the eligible count moved.
func (r *EntityRegistry) RefreshIfChanged() bool {
	all := r.source.EnumerateAll()
	n := 0
	for _, h := range all {
		if !r.source.IsHidden(h) {
			n++
		}
	}
	if n == r.count {
		return false
	}
	r.rebuild(all, n)
	return true
}

// Refresh rebuilds unconditionally.
func (r *EntityRegistry) Refresh() {
	all := r.source.EnumerateAll()
	r.rebuild(all, -1)
}

func (r *EntityRegistry) rebuild(all []types.EntityHandle, hint int) {
	if hint < 0 {
		hint = len(all)
	}
	pop := make([]types.EntityHandle, 0, hint)
	for _, h := range all {
		if r.source.IsHidden(h) {
			continue
		}
		pop = append(pop, h)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "registry",
		"previous":  r.count,
		"count":     len(pop),
	}).Debug("population rebuilt")

	r.population = pop
	r.count = len(pop)
}

// CurrentPopulation returns a copy of the cached population in host order.
func (r *EntityRegistry) CurrentPopulation() []types.EntityHandle {
	out := make([]types.EntityHandle, len(r.population))
	copy(out, r.population)
	return out
}

// Count is the last-known eligible count, or -1 before the first refresh.
func (r *EntityRegistry) Count() int {
	return r.count
}

// contains reports membership in the cached population.
func (r *EntityRegistry) contains(h types.EntityHandle) bool {
	for _, p := range r.population {
		if p == h {
			return true
		}
	}
	return false
}
