package engine

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateEngine is returned when two engines share an identifier.
var ErrDuplicateEngine = errors.New("duplicate engine id")

// Registry yields every engine available to this invocation. The result is
// unordered; callers sort when they need a stable order.
type Registry interface {
	LoadAll() ([]TestEngine, error)
}

// StaticRegistry is a registration table for engines linked into the binary.
type StaticRegistry struct {
	engines []TestEngine
}

// NewStaticRegistry returns a registry holding the given engines.
func NewStaticRegistry(engines ...TestEngine) *StaticRegistry {
	return &StaticRegistry{engines: engines}
}

func (r *StaticRegistry) LoadAll() ([]TestEngine, error) {
	out := make([]TestEngine, len(r.engines))
	copy(out, r.engines)
	return out, nil
}

// CompositeRegistry merges several registries. Identifiers must stay unique
// across all of them.
type CompositeRegistry []Registry

func (c CompositeRegistry) LoadAll() ([]TestEngine, error) {
	var all []TestEngine
	seen := make(map[string]bool)
	for _, r := range c {
		engines, err := r.LoadAll()
		if err != nil {
			return nil, err
		}
		for _, e := range engines {
			id := e.Descriptor().ID
			if seen[id] {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateEngine, id)
			}
			seen[id] = true
			all = append(all, e)
		}
	}
	return all, nil
}

// Close closes every member registry that holds resources.
func (c CompositeRegistry) Close() error {
	var errs []error
	for _, r := range c {
		if closer, ok := r.(interface{ Close() error }); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}

// SortByID orders engines by identifier ascending. The sort is stable, so
// the same input set always yields the same order.
func SortByID(engines []TestEngine) {
	sort.SliceStable(engines, func(i, j int) bool {
		return engines[i].Descriptor().ID < engines[j].Descriptor().ID
	})
}
