// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings the gigbook binary reads at startup.
type Config struct {
	DatabasePath string `env:"GIGBOOK_DATABASE_PATH" envDefault:"concerts.db"`
	LogLevel     string `env:"GIGBOOK_LOG_LEVEL"     envDefault:"info"`
	Seed         bool   `env:"GIGBOOK_SEED"          envDefault:"false"`
	// Reset drops every table before recreating the schema.
	Reset bool `env:"GIGBOOK_RESET" envDefault:"false"`
}

// Load parses Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.DatabasePath) == "" {
		return Config{}, fmt.Errorf("GIGBOOK_DATABASE_PATH must not be empty")
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown values fall back to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
