// ChurnSight - Telecom Customer Churn Prediction
// Copyright 2026 ChurnSight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/churnsight/churnsight

// Package config loads and validates application configuration via Koanf v2
// with layered sources: built-in defaults, optional YAML config file, then
// environment variables (highest priority).
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Store     StoreConfig     `koanf:"store"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// ArtifactsConfig points at the persisted model artifacts. All three are
// loaded once at startup and never reloaded mid-process.
type ArtifactsConfig struct {
	// FeatureOrderPath is the JSON artifact holding the model's expected
	// feature list (exactly 20 column names, order significant).
	FeatureOrderPath string `koanf:"feature_order_path"`

	// ThresholdPath is the JSON artifact holding the decision threshold.
	ThresholdPath string `koanf:"threshold_path"`

	// ModelPath is the JSON artifact holding the classifier weights.
	ModelPath string `koanf:"model_path"`

	// StrictSchema makes schema reconciliation fail when the encoder output
	// is missing columns the model expects, instead of zero-filling them.
	StrictSchema bool `koanf:"strict_schema"`
}

// StoreConfig holds submission-log settings.
type StoreConfig struct {
	// Enabled controls whether completed submissions are appended to the log.
	Enabled bool `koanf:"enabled"`

	// Path is the CSV file submissions are appended to.
	Path string `koanf:"path"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	MaxBatchSize      int           `koanf:"max_batch_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would prevent startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Artifacts.FeatureOrderPath == "" {
		return fmt.Errorf("artifacts.feature_order_path is required")
	}
	if c.Artifacts.ThresholdPath == "" {
		return fmt.Errorf("artifacts.threshold_path is required")
	}
	if c.Artifacts.ModelPath == "" {
		return fmt.Errorf("artifacts.model_path is required")
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when store.enabled is true")
	}
	if c.API.RateLimitRequests < 1 {
		return fmt.Errorf("api.rate_limit_requests must be at least 1, got %d", c.API.RateLimitRequests)
	}
	if c.API.MaxBatchSize < 1 {
		return fmt.Errorf("api.max_batch_size must be at least 1, got %d", c.API.MaxBatchSize)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
