// Package config loads process settings: defaults, then an optional YAML
// file, then LOOPCAP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/loopcap/internal/eval"
)

// #region config
// Config holds every setting the loopcap binary reads.
type Config struct {
	DBPath   string          `yaml:"db_path"`
	GRPCAddr string          `yaml:"grpc_addr"`
	HTTPAddr string          `yaml:"http_addr"`
	LogLevel string          `yaml:"log_level"`
	LogJSON  bool            `yaml:"log_json"`
	Workers  int             `yaml:"workers"`
	Gate     eval.EvalConfig `yaml:"gate"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:   "loopcap.db",
		GRPCAddr: "localhost:50061",
		HTTPAddr: "localhost:8080",
		LogLevel: "info",
		Workers:  8,
		Gate:     eval.DefaultEvalConfig(),
	}
}

// #endregion config

// #region load
// Load applies the YAML file at path (skipped when path is empty) and the
// environment on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DBPath = envOr("LOOPCAP_DB", cfg.DBPath)
	cfg.GRPCAddr = envOr("LOOPCAP_GRPC_ADDR", cfg.GRPCAddr)
	cfg.HTTPAddr = envOr("LOOPCAP_HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = envOr("LOOPCAP_LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("LOOPCAP_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("LOOPCAP_WORKERS: %w", err)
		}
		cfg.Workers = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.Gate.MinAccuracy < 0 || c.Gate.MinAccuracy > 1 {
		errs = append(errs, fmt.Errorf("gate.min_accuracy must be in [0,1], got %v", c.Gate.MinAccuracy))
	}
	return errors.Join(errs...)
}

// #endregion load

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
