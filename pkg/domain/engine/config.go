package engine

import "sort"

// PluginConfig declares one engine plugin binary.
type PluginConfig struct {
	// Binary is the path to the engine plugin binary
	Binary string `yaml:"binary" json:"binary"`
	// Config holds the engine-specific configuration key-value pairs
	Config map[string]string `yaml:"config,omitempty" json:"config,omitempty"`
}

// Configs holds all declared engine plugins by name
type Configs struct {
	Plugins map[string]PluginConfig `yaml:"engines" json:"engines"`
}

// NewConfigs creates an empty engine configuration
func NewConfigs() *Configs {
	return &Configs{
		Plugins: make(map[string]PluginConfig),
	}
}

// Get returns the plugin configuration for the given name, or nil if not found
func (c *Configs) Get(name string) *PluginConfig {
	if c == nil || c.Plugins == nil {
		return nil
	}
	cfg, ok := c.Plugins[name]
	if !ok {
		return nil
	}
	return &cfg
}

// Set adds or updates a plugin configuration
func (c *Configs) Set(name string, cfg PluginConfig) {
	if c.Plugins == nil {
		c.Plugins = make(map[string]PluginConfig)
	}
	c.Plugins[name] = cfg
}

// Names returns all declared plugin names in sorted order
func (c *Configs) Names() []string {
	if c == nil || c.Plugins == nil {
		return nil
	}
	names := make([]string, 0, len(c.Plugins))
	for name := range c.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
