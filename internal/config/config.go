// Package config loads lorebook settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "LOREBOOK_"

// Config is the flat lorebook configuration.
type Config struct {
	DBPath    string        `env:"DB_PATH" envDefault:"~/.lorebook/lorebook.db"`
	HTTPAddr  string        `env:"HTTP_ADDR" envDefault:":8080"`
	OpTimeout time.Duration `env:"OP_TIMEOUT" envDefault:"5s"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"LOG_FORMAT" envDefault:"text"`
	Actor     string        `env:"ACTOR"`    // recorded in the journal log for CLI calls
	Campaign  string        `env:"CAMPAIGN"` // default campaign for CLI commands
}

// Load reads an optional .env file from the working directory, then parses
// LOREBOOK_* variables. Variables already set in the environment win over
// the file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFile is Load with an explicit .env path. A missing file is an error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return FromEnv()
}

// FromEnv parses the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	path, err := ExpandPath(c.DBPath)
	if err != nil {
		return err
	}
	c.DBPath = path

	if c.OpTimeout <= 0 {
		return fmt.Errorf("invalid %sOP_TIMEOUT %s: must be positive", EnvPrefix, c.OpTimeout)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid %sLOG_FORMAT %q: want text or json", EnvPrefix, c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid %sLOG_LEVEL %q: %w", EnvPrefix, c.LogLevel, err)
	}
	return level, nil
}

// ExpandPath resolves a leading ~ and cleans the result. ":memory:" is
// returned as is so db.Open can recognise it.
func ExpandPath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Clean(expanded), nil
}
