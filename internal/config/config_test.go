package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.API.CheckTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 15*time.Minute, cfg.Sync.DuplicateWindow)
	assert.NotEmpty(t, cfg.BaseDir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PATROL_BASE_DIR", "/tmp/patrol-test")
	t.Setenv("PATROL_API_BASE", "https://directory.example.com/api")
	t.Setenv("PATROL_SYNC_INTERVAL_MINUTES", "10")
	t.Setenv("PATROL_DUPLICATE_WINDOW_MINUTES", "30")
	t.Setenv("PATROL_DEVICE_NAME", "gatehouse-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/patrol-test", cfg.BaseDir)
	assert.Equal(t, "https://directory.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 30*time.Minute, cfg.Sync.DuplicateWindow)
	assert.Equal(t, "gatehouse-1", cfg.DeviceName)
}

func TestLoad_IgnoresInvalidMinutes(t *testing.T) {
	t.Setenv("PATROL_SYNC_INTERVAL_MINUTES", "soon")
	t.Setenv("PATROL_DUPLICATE_WINDOW_MINUTES", "-5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t, DefaultDuplicateWindow, cfg.Sync.DuplicateWindow)
}

func TestGetPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDir = "/tmp/patrol-test"

	paths := GetPaths(cfg)
	assert.Equal(t, filepath.Join("/tmp/patrol-test", "patrol.db"), paths.Database)
	assert.Equal(t, filepath.Join("/tmp/patrol-test", "logs"), paths.Logs)
}
