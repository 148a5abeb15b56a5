// Package models defines the GORM models for patrol's local database.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Label prefix conventions. A record's location label is either a
// resolved name, an offline placeholder, or a newly-registered marker.
const (
	// OfflinePrefix marks a placeholder label generated while the
	// directory was unreachable.
	OfflinePrefix = "offline-"

	// NewlyRegisteredPrefix marks the record written when a card is
	// registered for the first time.
	NewlyRegisteredPrefix = "[new] "
)

// CheckInRecord is one durable check-in event.
type CheckInRecord struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TagID         string     `gorm:"size:50;index" json:"tag_id"`
	LocationLabel string     `gorm:"size:100" json:"location_label"`
	CheckInTime   time.Time  `gorm:"index" json:"check_in_time"`
	IsSynced      bool       `gorm:"default:false;index" json:"is_synced"`
	SyncedTime    *time.Time `json:"synced_time,omitempty"`
}

// TableName specifies the table name for GORM.
func (CheckInRecord) TableName() string {
	return "checkin_records"
}

// HasPlaceholderLabel reports whether the record still carries an
// offline placeholder instead of a resolved location name.
func (r *CheckInRecord) HasPlaceholderLabel() bool {
	return IsPlaceholderLabel(r.LocationLabel)
}

// PlaceholderLabel builds the deterministic offline label for a tag.
// Derived from the tag id so repeated offline reads of the same
// unregistered card stay visually consistent.
func PlaceholderLabel(tagID string) string {
	short := tagID
	if len(short) > 8 {
		short = short[:8]
	}
	return OfflinePrefix + short
}

// IsPlaceholderLabel reports whether a label is an offline placeholder.
func IsPlaceholderLabel(label string) bool {
	return strings.HasPrefix(label, OfflinePrefix)
}

// NewlyRegisteredLabel wraps a resolved name in the newly-added marker.
func NewlyRegisteredLabel(label string) string {
	return NewlyRegisteredPrefix + label
}

// NormalizeTagID canonicalizes a raw serial number as read from a tag:
// colon-separated NFC serials become dash-separated, uppercase.
func NormalizeTagID(raw string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), ":", "-"))
}

// SyncBadge returns a short human-readable sync status for list views.
func (r *CheckInRecord) SyncBadge() string {
	if r.IsSynced {
		return "synced"
	}
	return "pending"
}

// String implements fmt.Stringer for log output.
func (r *CheckInRecord) String() string {
	return fmt.Sprintf("%s @ %s (%s)", r.LocationLabel, r.CheckInTime.Format("2006-01-02 15:04:05"), r.SyncBadge())
}
