package models

import "time"

// SyncMeta keys used by the application.
const (
	SyncMetaTrackingID   = "tracking_id"
	SyncMetaLastSyncTime = "last_sync_time"
)

// SyncMeta stores key/value metadata about synchronization state.
type SyncMeta struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (SyncMeta) TableName() string {
	return "sync_meta"
}
