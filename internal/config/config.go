// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the orchestrator's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	orcherrors "github.com/hivegrid/orchestrator/pkg/errors"
	"github.com/hivegrid/orchestrator/pkg/swarm"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config represents the complete orchestrator configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Evaporation EvaporationConfig `yaml:"evaporation"`
}

// ServerConfig configures the MCP server surface.
type ServerConfig struct {
	// Name is the advertised MCP server name.
	// Default: "orchestrator"
	Name string `yaml:"name"`

	// CallsPerMinute caps total tool calls per minute.
	// Default: 120
	CallsPerMinute int `yaml:"calls_per_minute"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level sets the minimum log level (debug, info, warn, error).
	// Default: info
	Level string `yaml:"level"`

	// Format sets the output format (json, text).
	// Default: json
	Format string `yaml:"format"`
}

// EvaporationConfig configures pheromone decay sweeps. Sweeps remain
// caller-driven via the evaporate_signals tool; the rates here are the
// defaults applied when the caller passes none.
type EvaporationConfig struct {
	// DefaultRate applies to categories without an explicit rate.
	// Default: 0.05
	DefaultRate float64 `yaml:"default_rate"`

	// Rates maps signal categories to their evaporation rate.
	Rates map[string]float64 `yaml:"rates,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:           "orchestrator",
			CallsPerMinute: 120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Evaporation: EvaporationConfig{
			DefaultRate: swarm.DefaultEvaporationRate,
		},
	}
}

// Load reads a Config from the YAML file at path. A missing file is not
// an error; defaults are returned. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, orcherrors.Wrapf(err, "reading config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, orcherrors.Wrapf(err, "parsing config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.CallsPerMinute <= 0 {
		return fmt.Errorf("%w: server.calls_per_minute must be positive, got %d",
			ErrInvalidConfig, c.Server.CallsPerMinute)
	}
	if c.Evaporation.DefaultRate < 0 || c.Evaporation.DefaultRate >= 1 {
		return fmt.Errorf("%w: evaporation.default_rate must be in [0, 1), got %g",
			ErrInvalidConfig, c.Evaporation.DefaultRate)
	}
	for category, rate := range c.Evaporation.Rates {
		if !swarm.SignalCategory(category).Valid() {
			return fmt.Errorf("%w: evaporation.rates has unknown category %q",
				ErrInvalidConfig, category)
		}
		if rate < 0 || rate >= 1 {
			return fmt.Errorf("%w: evaporation.rates.%s must be in [0, 1), got %g",
				ErrInvalidConfig, category, rate)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be debug, info, warn, or error, got %q",
			ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// EvaporationRates converts the configured rates to the swarm type.
func (c *Config) EvaporationRates() swarm.EvaporationRates {
	rates := swarm.EvaporationRates{Default: c.Evaporation.DefaultRate}
	if len(c.Evaporation.Rates) > 0 {
		rates.ByCategory = make(map[swarm.SignalCategory]float64, len(c.Evaporation.Rates))
		for category, rate := range c.Evaporation.Rates {
			rates.ByCategory[swarm.SignalCategory(category)] = rate
		}
	}
	return rates
}
