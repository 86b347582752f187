package plugin

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
)

// Registry loads the engine plugins declared in the launcher configuration.
type Registry struct {
	configs *engine.Configs
	loader  *Loader
	logger  *slog.Logger
}

// NewRegistry creates a registry over configs. The registry owns the loader
// and kills its processes on Close.
func NewRegistry(configs *engine.Configs, loader *Loader, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{configs: configs, loader: loader, logger: logger}
}

// LoadAll starts every declared plugin. The first failure aborts the load,
// including two plugins describing the same engine ID.
func (r *Registry) LoadAll() ([]engine.TestEngine, error) {
	names := r.configs.Names()
	engines := make([]engine.TestEngine, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		cfg := r.configs.Get(name)
		if cfg.Binary == "" {
			return nil, fmt.Errorf("engine %q: no binary configured", name)
		}
		e, err := r.loader.Load(cfg.Binary, cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("engine %q: %w", name, err)
		}
		id := e.Descriptor().ID
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("engine %q: %w: %s (also declared by %q)", name, engine.ErrDuplicateEngine, id, prev)
		}
		seen[id] = name
		r.logger.Debug("engine registered", "name", name, "engine", id)
		engines = append(engines, e)
	}
	return engines, nil
}

// Close kills all plugin processes.
func (r *Registry) Close() error {
	r.loader.Cleanup()
	return nil
}
