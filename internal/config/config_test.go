package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.ServeUI)
	assert.False(t, cfg.Source.Simulate)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := NewManager(path)
	require.NoError(t, err)

	cfg := Default()
	cfg.Server.Port = 9090
	cfg.Source.Device = "/dev/input/event7"
	cfg.Source.Simulate = true
	cfg.LogLevel = "debug"
	m.Set(cfg)
	require.NoError(t, m.Save())

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())

	got := reloaded.Get()
	assert.Equal(t, 9090, got.Server.Port)
	assert.Equal(t, "/dev/input/event7", got.Source.Device)
	assert.True(t, got.Source.Simulate)
	assert.Equal(t, "debug", got.LogLevel)
}
