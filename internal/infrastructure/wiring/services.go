package wiring

import (
	"io"
	"log/slog"

	"github.com/felixgeelhaar/testlaunch/pkg/application"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/launch"
	"github.com/felixgeelhaar/testlaunch/pkg/plugin"
)

// Environment is what one parsed invocation hands to the wiring.
type Environment struct {
	Options *launch.Options
	Out     io.Writer
	ErrOut  io.Writer
	Theme   application.Theme
	Logger  *slog.Logger
	Level   slog.Level
}

// Collaborators are the services the launcher delegates to.
type Collaborators struct {
	Registry engine.Registry
	Runner   launch.TestRunner
}

// Close releases plugin processes held by the registry.
func (c *Collaborators) Close() error {
	if closer, ok := c.Registry.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// BuildCollaborators wires the plugin registry declared in the options to
// the aggregating test executor.
func BuildCollaborators(env Environment) *Collaborators {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}

	configs := env.Options.Engines
	if configs == nil {
		configs = engine.NewConfigs()
	}
	loader := plugin.NewLoader(NewPluginLogger(env.ErrOut, env.Level))
	registry := engine.CompositeRegistry{plugin.NewRegistry(configs, loader, logger)}

	return &Collaborators{
		Registry: registry,
		Runner:   application.NewTestExecutor(registry, env.Out, env.Theme, logger),
	}
}
