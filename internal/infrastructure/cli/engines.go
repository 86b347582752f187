package cli

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
)

// EngineReporter lists the engines a registry provides.
type EngineReporter struct {
	registry engine.Registry
}

func NewEngineReporter(registry engine.Registry) *EngineReporter {
	return &EngineReporter{registry: registry}
}

// Report writes one line per engine, ordered by id. Registry errors are
// returned untouched.
func (r *EngineReporter) Report(w io.Writer) error {
	engines, err := r.registry.LoadAll()
	if err != nil {
		return err
	}
	engine.SortByID(engines)
	for _, e := range engines {
		fmt.Fprintln(w, e.Descriptor().String())
	}
	return nil
}
