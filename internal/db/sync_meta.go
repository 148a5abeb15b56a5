package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/google/uuid"

	"github.com/qsswgl/patrol/internal/models"
)

// GetSyncMeta retrieves a sync metadata value.
func (db *DB) GetSyncMeta(key string) (string, error) {
	var meta models.SyncMeta
	err := db.First(&meta, "key = ?", key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetSyncMeta sets a sync metadata value.
func (db *DB) SetSyncMeta(key, value string) error {
	meta := models.SyncMeta{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
}

// GetOrCreateTrackingID returns the persistent anonymous tracking ID,
// creating one on first use. Implements telemetry.TrackingIDProvider.
func (db *DB) GetOrCreateTrackingID() string {
	id, err := db.GetSyncMeta(models.SyncMetaTrackingID)
	if err == nil && id != "" {
		return id
	}
	id = uuid.New().String()
	if err := db.SetSyncMeta(models.SyncMetaTrackingID, id); err != nil {
		// Fall back to a per-session ID
		return uuid.New().String()
	}
	return id
}
