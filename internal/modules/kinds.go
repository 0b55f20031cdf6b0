// Package modules owns the process-wide catalog of attachable capability kinds
// and the attach/detach operations on top of it.
package modules

import (
	"fmt"
	"sort"
	"sync"

	"scene-manager/internal/domain"
	"scene-manager/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Kind is one statically registered capability kind.
type Kind struct {
	ID          string
	DisplayName string

	// Abstract kinds describe a family (e.g. "Behaviour") and are never instantiated.
	Abstract bool
	// Internal kinds exist on entities but are not offered in menus.
	Internal bool

	// Factory builds a fresh instance for attach. Nil means an empty marker instance.
	Factory func() (any, error)
	// Allowed vetoes attaching to a specific entity. Nil allows everything.
	Allowed func(domain.EntitySnapshot) bool
}

func (k Kind) newInstance() (any, error) {
	if k.Factory == nil {
		return struct{}{}, nil
	}
	return k.Factory()
}

var (
	kindsMu sync.Mutex
	kinds   []Kind

	catalogOnce sync.Once
	catalog     []domain.CapabilityType
	catalogByID map[string]Kind
)

// Register adds a kind to the table. Call it from init; kinds registered after
// the catalog has been built are not picked up.
func Register(k Kind) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds = append(kinds, k)
}

// Catalog returns the attachable capability types, sorted by display name.
// It is built on first use and never changes afterwards.
func Catalog() []domain.CapabilityType {
	catalogOnce.Do(buildCatalog)
	out := make([]domain.CapabilityType, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a catalog entry by id.
func Lookup(id string) (domain.CapabilityType, bool) {
	catalogOnce.Do(buildCatalog)
	k, ok := catalogByID[id]
	if !ok {
		return domain.CapabilityType{}, false
	}
	return domain.CapabilityType{ID: k.ID, DisplayName: k.DisplayName}, true
}

func kindByID(id string) (Kind, bool) {
	catalogOnce.Do(buildCatalog)
	k, ok := catalogByID[id]
	return k, ok
}

func buildCatalog() {
	kindsMu.Lock()
	table := make([]Kind, len(kinds))
	copy(table, kinds)
	kindsMu.Unlock()

	log := logger.Component("modules")
	byID := make(map[string]Kind, len(table))

	for _, k := range table {
		if k.ID == "" || k.Abstract || k.Internal {
			continue
		}
		if _, dup := byID[k.ID]; dup {
			continue
		}
		if err := probe(k); err != nil {
			log.WithFields(logrus.Fields{"capability": k.ID}).WithError(err).Warn("skipping capability kind")
			continue
		}
		if k.DisplayName == "" {
			k.DisplayName = k.ID
		}
		byID[k.ID] = k
	}

	out := make([]domain.CapabilityType, 0, len(byID))
	for _, k := range byID {
		out = append(out, domain.CapabilityType{ID: k.ID, DisplayName: k.DisplayName})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID < out[j].ID
	})

	catalog = out
	catalogByID = byID
	log.WithField("count", len(out)).Debug("capability catalog built")
}

// probe instantiates a kind once so a broken factory is caught at catalog build
// instead of in the middle of a batch attach.
func probe(k Kind) error {
	_, err := safeInstance(k)
	return err
}

func safeInstance(k Kind) (inst any, err error) {
	defer func() {
		if r := recover(); r != nil {
			inst, err = nil, fmt.Errorf("factory for %s panicked: %v", k.ID, r)
		}
	}()
	return k.newInstance()
}

// NewInstance builds an instance for id, used by hosts seeding entities.
// Unknown ids get an empty marker.
func NewInstance(id string) any {
	kindsMu.Lock()
	var (
		found Kind
		ok    bool
	)
	for _, k := range kinds {
		if k.ID == id && !k.Abstract {
			found, ok = k, true
			break
		}
	}
	kindsMu.Unlock()

	if ok {
		if inst, err := safeInstance(found); err == nil {
			return inst
		}
	}
	return struct{}{}
}
