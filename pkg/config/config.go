// Package config loads snark settings from an optional config.yaml with
// SNARK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "config.yaml"

// Config holds all configuration for snark.
// Environment variables always override YAML values.
type Config struct {
	// DB is the SQLite graph database path; ":memory:" is allowed.
	DB string `yaml:"db" env:"SNARK_DB" env-default:"snark.db"`
	// Phrases is a phrase dictionary CSV. When empty the matcher is built
	// from the graph store.
	Phrases string `yaml:"phrases" env:"SNARK_PHRASES" env-default:""`
	// Lang selects which glosses become pattern rows.
	Lang string `yaml:"lang" env:"SNARK_LANG" env-default:"jpn"`

	LogLevel string `yaml:"log_level" env:"SNARK_LOG_LEVEL" env-default:"info"`
	LogDev   bool   `yaml:"log_dev" env:"SNARK_LOG_DEV" env-default:"false"`

	// Ingest settings
	Workers   int `yaml:"workers" env:"SNARK_WORKERS" env-default:"4"`
	BatchSize int `yaml:"batch_size" env:"SNARK_BATCH_SIZE" env-default:"50"`

	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"SNARK_FETCH_TIMEOUT" env-default:"30s"`
	// JMdict is where the jmdict-simplified file is cached.
	JMdict string `yaml:"jmdict" env:"SNARK_JMDICT" env-default:"jmdict-eng-common.json"`
}

// Load reads path (DefaultPath if empty) with environment variable
// overrides. A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges that the tags cannot express.
func (c *Config) Validate() error {
	if c.DB == "" {
		return errors.New("db must be set")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must not be negative, got %s", c.FetchTimeout)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Usage describes the environment variables Config reads.
func Usage() (string, error) {
	return cleanenv.GetDescription(&Config{}, nil)
}
