package storage

import (
	"path/filepath"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
)

// LauncherConfig is the on-disk launcher configuration.
type LauncherConfig struct {
	Engines  map[string]engine.PluginConfig `yaml:"engines,omitempty" json:"engines,omitempty"`
	Defaults Defaults                       `yaml:"defaults,omitempty" json:"defaults"`
}

// Defaults are option values applied unless the matching flag is given.
type Defaults struct {
	FailIfNoTests     bool   `yaml:"fail_if_no_tests,omitempty" json:"fail_if_no_tests,omitempty"`
	DisableBanner     bool   `yaml:"disable_banner,omitempty" json:"disable_banner,omitempty"`
	DisableANSIColors bool   `yaml:"disable_ansi_colors,omitempty" json:"disable_ansi_colors,omitempty"`
	Details           string `yaml:"details,omitempty" json:"details,omitempty"`
	LogLevel          string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// EngineConfigs returns the declared engines as an engine.Configs.
func (c *LauncherConfig) EngineConfigs() *engine.Configs {
	configs := engine.NewConfigs()
	if c == nil {
		return configs
	}
	for name, cfg := range c.Engines {
		configs.Set(name, cfg)
	}
	return configs
}

func (c *LauncherConfig) resolveBinaries(baseDir string) {
	for name, cfg := range c.Engines {
		if cfg.Binary != "" && !filepath.IsAbs(cfg.Binary) {
			cfg.Binary = filepath.Join(baseDir, cfg.Binary)
			c.Engines[name] = cfg
		}
	}
}
