// Package config loads application configuration from the environment,
// with an optional YAML file for confidence-scoring overrides.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"

	"github.com/evisynth/backend/internal/providers/synthesis/confidence"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Scoring   ScoringConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// ScoringConfig points at an optional YAML file overriding the confidence
// scoring constants. The constants are business heuristics, so deployments
// can tune them without a rebuild.
type ScoringConfig struct {
	File string `envconfig:"SCORING_CONFIG" default:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// LoadScoring resolves the confidence scoring constants: the defaults,
// overridden by the YAML file when one is configured.
func (c *Config) LoadScoring() (confidence.Config, error) {
	scoring := confidence.Default()
	if c.Scoring.File == "" {
		return scoring, nil
	}

	data, err := os.ReadFile(c.Scoring.File)
	if err != nil {
		return scoring, fmt.Errorf("failed to read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(data, &scoring); err != nil {
		return scoring, fmt.Errorf("failed to parse scoring config: %w", err)
	}
	return scoring, nil
}
