package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracky/internal/platform/config"
	apperrors "tracky/internal/platform/errors"
)

func TestLoadDefaultsForDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRACKY_STORE", "")
	t.Setenv("TRACKY_LOG_LEVEL", "")

	cfg, err := config.Load(config.Overrides{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, config.BackendJSON, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "data.json"), cfg.StatePath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Color)
}

func TestLoadLayersFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: yaml\nlog_level: info\ncolor: false\n"), 0o644))
	t.Setenv("TRACKY_DATA_DIR", dir)
	t.Setenv("TRACKY_STORE", "")
	t.Setenv("TRACKY_LOG_LEVEL", "")

	cfg, err := config.Load(config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, config.BackendYAML, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "data.yaml"), cfg.StatePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Color)

	t.Setenv("TRACKY_STORE", "sqlite")
	cfg, err = config.Load(config.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.db"), cfg.StatePath)

	cfg, err = config.Load(config.Overrides{Backend: "JSON", LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, config.BackendJSON, cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("TRACKY_STORE", "")
	_, err := config.Load(config.Overrides{DataDir: t.TempDir(), Backend: "csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownBackend))
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unterminated\n"), 0o644))
	t.Setenv("TRACKY_STORE", "")
	_, err := config.Load(config.Overrides{DataDir: dir})
	require.Error(t, err)
}
