// Package config loads declarative framework setup from YAML: which
// services to build (by kind, with free-form settings) and the priority
// assigned to named handlers. Settings maps decode into typed option
// structs via mapstructure.
package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/latticekit/lattice/pkg/plugin"
)

// ServiceConfig declares one service to register.
type ServiceConfig struct {
	Name     string         `yaml:"name"`
	Kind     string         `yaml:"kind"`
	Settings map[string]any `yaml:"settings"`
}

// HandlerConfig assigns a dispatch priority to a named handler.
type HandlerConfig struct {
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`
}

// Config is the root document.
type Config struct {
	Services []ServiceConfig `yaml:"services"`
	Handlers []HandlerConfig `yaml:"handlers"`
}

// Load parses a config document and rejects structurally invalid ones.
func Load(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	seen := make(map[string]bool)
	for i, svc := range cfg.Services {
		if svc.Name == "" {
			return nil, fmt.Errorf("services[%d]: name is required", i)
		}
		if svc.Kind == "" {
			return nil, fmt.Errorf("services[%d] (%s): kind is required", i, svc.Name)
		}
		if seen[svc.Name] {
			return nil, fmt.Errorf("services[%d]: duplicate name %q", i, svc.Name)
		}
		seen[svc.Name] = true
	}
	for i, h := range cfg.Handlers {
		if h.Name == "" {
			return nil, fmt.Errorf("handlers[%d]: name is required", i)
		}
	}
	return &cfg, nil
}

// LoadFile is Load over a file path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// PriorityFor reports the configured priority for a handler name.
func (c *Config) PriorityFor(name string) (int, bool) {
	for _, h := range c.Handlers {
		if h.Name == name {
			return h.Priority, true
		}
	}
	return 0, false
}

// Factory builds a service from its declared name and decoded settings.
type Factory func(name string, settings map[string]any) (plugin.Service, error)

// DecodeSettings maps a free-form settings map onto a typed options
// struct. Unknown keys are an error so typos surface at load time.
func DecodeSettings(settings map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(settings); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	return nil
}

// Apply builds every declared service through its kind's factory and
// registers it. It fails fast on the first unknown kind, factory error,
// or registration error.
func Apply(ctx context.Context, cfg *Config, reg *plugin.Registry, factories map[string]Factory) error {
	for _, sc := range cfg.Services {
		factory, ok := factories[sc.Kind]
		if !ok {
			return fmt.Errorf("service %s: unknown kind %q", sc.Name, sc.Kind)
		}
		svc, err := factory(sc.Name, sc.Settings)
		if err != nil {
			return fmt.Errorf("service %s: %w", sc.Name, err)
		}
		if err := reg.Add(ctx, sc.Name, svc); err != nil {
			return fmt.Errorf("service %s: %w", sc.Name, err)
		}
	}
	return nil
}
