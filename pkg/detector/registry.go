package detector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
)

// Registry manages the detectors of one session.
type Registry struct {
	detectors map[string]Detector
	mu        sync.RWMutex
}

// NewRegistry creates a new empty detector registry.
func NewRegistry() *Registry {
	return &Registry{
		detectors: make(map[string]Detector),
	}
}

// Register adds a detector to the registry.
// Returns an error if a detector with the same ID already exists.
func (r *Registry) Register(d Detector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.detectors[d.ID()]; exists {
		return fmt.Errorf("detector %s already registered", d.ID())
	}

	r.detectors[d.ID()] = d
	return nil
}

// Get returns a detector by ID, or nil.
func (r *Registry) Get(id string) Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.detectors[id]
}

// GetByKind returns all enabled detectors that handle an event kind,
// ordered by ID so evaluation is deterministic.
func (r *Registry) GetByKind(kind signal.Kind) []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matching []Detector
	for _, d := range r.detectors {
		if !d.Config().Enabled {
			continue
		}

		kinds := d.Kinds()
		if len(kinds) == 0 {
			matching = append(matching, d)
			continue
		}

		for _, k := range kinds {
			if k == kind {
				matching = append(matching, d)
				break
			}
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].ID() < matching[j].ID()
	})
	return matching
}

// GetAll returns all registered detectors.
func (r *Registry) GetAll() []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	detectors := make([]Detector, 0, len(r.detectors))
	for _, d := range r.detectors {
		detectors = append(detectors, d)
	}

	return detectors
}

// Count returns the number of registered detectors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.detectors)
}
