// Package config loads ikrig settings from a YAML file, a .env file and the
// environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvDatabase     = "IKRIG_DB"
	EnvStrict       = "IKRIG_STRICT"
	EnvSoftDistance = "IKRIG_SOFT_DISTANCE"
	EnvLogLevel     = "IKRIG_LOG_LEVEL"
)

// DefaultDatabase is the scene database used when nothing else is set.
const DefaultDatabase = "./ikrig.db"

// Config holds tool settings.
type Config struct {
	// Database is the SQLite scene path.
	Database string `yaml:"database"`

	// Strict makes rig builds report non-joint endpoints.
	Strict bool `yaml:"strict"`

	// SoftDistance is applied to rigs whose definition leaves it unset.
	SoftDistance float64 `yaml:"soft_distance"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Database: DefaultDatabase,
		LogLevel: "info",
	}
}

// Load reads settings. An empty path or a missing file leaves the defaults
// in place. envFiles are loaded with godotenv; with none given, a .env in
// the working directory is used if present. Variables already set in the
// environment win over .env values.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	}
	if v := os.Getenv(EnvStrict); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}
		c.Strict = b
	}
	if v := os.Getenv(EnvSoftDistance); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSoftDistance, err)
		}
		c.SoftDistance = f
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.SoftDistance < 0 {
		return fmt.Errorf("soft_distance must be >= 0, got %g", c.SoftDistance)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel onto slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}
