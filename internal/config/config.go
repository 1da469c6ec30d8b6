// Package config reads gocontrol settings from GOCONTROL_* environment
// variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const prefix = "gocontrol"

type Config struct {
	// Tolerance is the root-matching tolerance for cancellation and
	// repeated-pole grouping.
	Tolerance float64 `default:"1e-3" split_words:"true"`
	// Timestep is the default sampling interval; 0 means continuous time.
	Timestep float64 `default:"0" split_words:"true"`
	OmegaN   int     `default:"500" split_words:"true"`

	LogLevel string `default:"info" split_words:"true"`
	LogDev   bool   `default:"false" split_words:"true"`

	Host string `default:"127.0.0.1" split_words:"true"`
	Port string `default:"8080" split_words:"true"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !(cfg.Tolerance > 0) {
		return nil, fmt.Errorf("failed to load config: tolerance %v must be positive", cfg.Tolerance)
	}
	if cfg.Timestep < 0 {
		return nil, fmt.Errorf("failed to load config: timestep %v must not be negative", cfg.Timestep)
	}
	return &cfg, nil
}

func Default() *Config {
	return &Config{
		Tolerance: 1e-3,
		OmegaN:    500,
		LogLevel:  "info",
		Host:      "127.0.0.1",
		Port:      "8080",
	}
}

// Addr is the listen address of the tool server.
func (c *Config) Addr() string { return c.Host + ":" + c.Port }
