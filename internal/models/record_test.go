package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderLabel(t *testing.T) {
	assert.Equal(t, "offline-04A1B2C3", PlaceholderLabel("04A1B2C3D4E5"))
	assert.Equal(t, "offline-04A1", PlaceholderLabel("04A1"))
}

func TestPlaceholderLabel_Deterministic(t *testing.T) {
	// Repeated offline reads of one tag must render identically.
	assert.Equal(t, PlaceholderLabel("FFEE0199AABB"), PlaceholderLabel("FFEE0199AABB"))
}

func TestIsPlaceholderLabel(t *testing.T) {
	assert.True(t, IsPlaceholderLabel(PlaceholderLabel("04A1B2")))
	assert.False(t, IsPlaceholderLabel("Lobby"))
	assert.False(t, IsPlaceholderLabel(NewlyRegisteredLabel("Dock-2")))
}

func TestNewlyRegisteredLabel(t *testing.T) {
	assert.Equal(t, "[new] Dock-2", NewlyRegisteredLabel("Dock-2"))
}

func TestNormalizeTagID(t *testing.T) {
	assert.Equal(t, "04-A1-B2-C3", NormalizeTagID("04:a1:b2:c3"))
	assert.Equal(t, "FFEE01", NormalizeTagID("  ffee01\n"))
	assert.Equal(t, "", NormalizeTagID("   "))
}

func TestSyncBadge(t *testing.T) {
	record := &CheckInRecord{}
	assert.Equal(t, "pending", record.SyncBadge())
	record.IsSynced = true
	assert.Equal(t, "synced", record.SyncBadge())
}
