package models

import "time"

// DefaultCategory is used when the directory does not report a
// classification for a card.
const DefaultCategory = "checkpoint"

// LocationMapping caches one tag-to-location resolution fetched from
// the remote directory. At most one row per tag; refreshed by upsert.
// The cache is advisory only and never overrides a live remote lookup.
type LocationMapping struct {
	TagID         string    `gorm:"primaryKey;size:50" json:"tag_id"`
	LocationLabel string    `gorm:"size:100" json:"location_label"`
	Category      string    `gorm:"size:50;default:checkpoint" json:"category"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (LocationMapping) TableName() string {
	return "location_mappings"
}
