// Package config loads meshc's runtime configuration from an optional
// project file, environment variables, and CLI flags, in that order of
// increasing precedence (grounded on funvibe-funxy's internal/ext
// project-file loader).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables meshc reads before lowering a
// module or running the STF codec.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level,omitempty"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format,omitempty"`

	// MonomorphizationDepthBound caps generic instantiation recursion
	// during lowering before it is treated as a runaway expansion.
	MonomorphizationDepthBound int `yaml:"monomorphization_depth_bound,omitempty"`

	// OutputFormat names a MIR output form, "pretty" or "stf". `meshc
	// lower` does not read it and always prints the pretty form.
	OutputFormat string `yaml:"output_format,omitempty"`
}

// Defaults returns the configuration used when no project file,
// environment variable, or flag overrides a field.
func Defaults() Config {
	return Config{
		LogLevel:                   "info",
		LogFormat:                  "text",
		MonomorphizationDepthBound: 64,
		OutputFormat:               "pretty",
	}
}

// Load reads path (typically "meshc.yaml") if it exists, layers
// environment variables on top, and returns the merged result. A
// missing file is not an error — Load falls back to Defaults().
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MESHC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MESHC_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("MESHC_MONOMORPHIZATION_DEPTH_BOUND"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MonomorphizationDepthBound = n
		}
	}
	if v := os.Getenv("MESHC_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = v
	}
}
