// Package config provides host configuration for the dataflow engine:
// a YAML-backed section/key store plus the {mode, value} resolution
// contract used for node and resource configuration fragments.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ddbase3/MissionBay-sub002/errors"
)

// Config holds host configuration organized as named sections of keys.
// It backs the "config" resolution mode of configuration fragments.
type Config struct {
	sections map[string]map[string]any
	mu       sync.RWMutex
}

// New creates an empty configuration.
func New() *Config {
	return &Config{sections: make(map[string]map[string]any)}
}

// Load parses YAML configuration data into sections.
func Load(data []byte) (*Config, error) {
	sections := make(map[string]map[string]any)
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Load", "yaml unmarshal")
	}
	if sections == nil {
		sections = make(map[string]map[string]any)
	}
	return &Config{sections: sections}, nil
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapTransient(err, "Config", "LoadFile", "read file")
	}
	return Load(data)
}

// Lookup returns the value stored under section/key.
// A missing section or key returns errors.ErrConfigNotFound.
func (c *Config) Lookup(section, key string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sec, ok := c.sections[section]
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: section '%s'", errors.ErrConfigNotFound, section),
			"Config", "Lookup", "section lookup")
	}
	value, ok := sec[key]
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: key '%s.%s'", errors.ErrConfigNotFound, section, key),
			"Config", "Lookup", "key lookup")
	}
	return value, nil
}

// Section returns a copy of the named section, or nil if absent.
func (c *Config) Section(name string) map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sec, ok := c.sections[name]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(sec))
	for k, v := range sec {
		out[k] = v
	}
	return out
}

// Set stores a value under section/key, creating the section if needed.
func (c *Config) Set(section, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sec, ok := c.sections[section]
	if !ok {
		sec = make(map[string]any)
		c.sections[section] = sec
	}
	sec[key] = value
}
