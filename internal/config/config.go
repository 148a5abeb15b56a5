// Package config handles application configuration management.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all patrol data (~/.patrol)
	BaseDir string

	// Remote directory API settings
	API APIConfig

	// Sync and check-in behavior
	Sync SyncConfig

	// Device name attached to submitted check-ins (optional)
	DeviceName string
}

// APIConfig holds remote directory endpoint settings.
type APIConfig struct {
	// BaseURL of the remote directory service
	BaseURL string
	// WriteTimeout bounds lookup/register/submit calls
	WriteTimeout time.Duration
	// CheckTimeout bounds the lightweight connectivity probe
	CheckTimeout time.Duration
	// RequestsPerSecond caps the outbound request rate
	RequestsPerSecond float64
}

// SyncConfig holds reconciliation and scheduler settings.
type SyncConfig struct {
	// Interval between background sync passes
	Interval time.Duration
	// DuplicateWindow is the trailing window for duplicate suppression
	DuplicateWindow time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if base := os.Getenv("PATROL_BASE_DIR"); base != "" {
		cfg.BaseDir = base
	}
	if url := os.Getenv("PATROL_API_BASE"); url != "" {
		cfg.API.BaseURL = url
	}
	if name := os.Getenv("PATROL_DEVICE_NAME"); name != "" {
		cfg.DeviceName = name
	}
	if mins := envMinutes("PATROL_SYNC_INTERVAL_MINUTES"); mins > 0 {
		cfg.Sync.Interval = mins
	}
	if mins := envMinutes("PATROL_DUPLICATE_WINDOW_MINUTES"); mins > 0 {
		cfg.Sync.DuplicateWindow = mins
	}

	return cfg, nil
}

// envMinutes parses an env var as whole minutes; 0 if absent or invalid.
func envMinutes(key string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Minute
}
