// Package config loads and validates the runtime configuration: the
// simulated day, the fleet, dataset paths, scripted world events and the
// observability sinks. Files are YAML or JSON; PS_-prefixed environment
// variables override single keys.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Day       DayConfig       `json:"day"`
	Fleet     FleetConfig     `json:"fleet"`
	Data      DataConfig      `json:"data"`
	Events    EventsConfig    `json:"events"`
	Logging   LoggingConfig   `json:"logging"`
	Metrics   MetricsConfig   `json:"metrics"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ps_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Day.SetDefaults()
	cfg.Fleet.SetDefaults()
	cfg.Data.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Telemetry.SetDefaults()
	if err := cfg.Day.Validate(); err != nil {
		return nil, fmt.Errorf("day: %w", err)
	}
	if err := cfg.Fleet.Validate(); err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}
	if err := cfg.Data.Validate(); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	if err := cfg.Events.Validate(); err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := cfg.Telemetry.Validate(); err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	return &cfg, nil
}
