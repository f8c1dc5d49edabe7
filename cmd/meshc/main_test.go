package main

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigFallsBackToDefaultsWhenMissing(t *testing.T) {
	flagConfig = filepath.Join(t.TempDir(), "missing.yaml")
	flagLogLevel = ""
	flagLogFormat = ""

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadConfigFlagsOverrideDefaults(t *testing.T) {
	flagConfig = filepath.Join(t.TempDir(), "missing.yaml")
	flagLogLevel = "debug"
	flagLogFormat = "json"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected flag-overridden log level debug, got %s", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected flag-overridden log format json, got %s", cfg.LogFormat)
	}
}

func TestNewLoggerFromConfigDoesNotPanic(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	logger := newLoggerFromConfig(cfg)
	if logger == nil {
		t.Fatal("expected a non-nil logger")
	}
}
