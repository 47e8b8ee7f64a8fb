// Package config loads service configuration from a YAML file with
// environment-variable overrides for containerized deployments.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server and CLI need to start.
type Config struct {
	// Listen is the address the HTTP server binds, host:port.
	Listen string `yaml:"listen"`

	// RulesDir is the directory scanned for rule catalog files.
	RulesDir string `yaml:"rules_dir"`

	// HistoryDB is the SQLite path for the request journal. Empty disables
	// journaling.
	HistoryDB string `yaml:"history_db"`

	// AllowedOriginPattern is the regular expression CORS origins must
	// match. The default admits localhost on any port.
	AllowedOriginPattern string `yaml:"allowed_origin_pattern"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:               ":5000",
		RulesDir:             "rules",
		HistoryDB:            "",
		AllowedOriginPattern: `https?://(localhost|127\.0\.0\.1)(:\d+)?`,
		LogLevel:             "info",
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults untouched. Unknown keys are an error so a typo in a config
// file fails at startup instead of silently using a default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		applyEnv(&cfg)
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv lets deployment environments override file settings without
// editing the file. Only set variables take effect.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MATHRW_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("MATHRW_RULES_DIR"); v != "" {
		cfg.RulesDir = v
	}
	if v := os.Getenv("MATHRW_HISTORY_DB"); v != "" {
		cfg.HistoryDB = v
	}
	if v := os.Getenv("MATHRW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn, or error", c.LogLevel)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	return nil
}
