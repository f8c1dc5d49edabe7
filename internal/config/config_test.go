package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/malphas-lang/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Defaults()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 64, cfg.MonomorphizationDepthBound)
	assert.Equal(t, "pretty", cfg.OutputFormat)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
monomorphization_depth_bound: 128
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 128, cfg.MonomorphizationDepthBound)
	assert.Equal(t, "text", cfg.LogFormat) // untouched field keeps its default
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meshc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))

	t.Setenv("MESHC_LOG_LEVEL", "error")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}
