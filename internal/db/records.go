package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/qsswgl/patrol/internal/models"
)

// InsertRecord persists a new check-in record and assigns its ID.
func (db *DB) InsertRecord(record *models.CheckInRecord) error {
	return db.Create(record).Error
}

// UpdateRecord saves all fields of an existing record.
func (db *DB) UpdateRecord(record *models.CheckInRecord) error {
	return db.Save(record).Error
}

// ListRecords returns all check-in records, newest first.
func (db *DB) ListRecords() ([]models.CheckInRecord, error) {
	var records []models.CheckInRecord
	err := db.Order("check_in_time DESC").Find(&records).Error
	return records, err
}

// ListRecentRecords returns the newest records up to limit.
func (db *DB) ListRecentRecords(limit int) ([]models.CheckInRecord, error) {
	var records []models.CheckInRecord
	err := db.Order("check_in_time DESC").Limit(limit).Find(&records).Error
	return records, err
}

// ListUnsyncedRecords returns records that have not reached the remote yet.
func (db *DB) ListUnsyncedRecords() ([]models.CheckInRecord, error) {
	var records []models.CheckInRecord
	err := db.Where("is_synced = ?", false).
		Order("check_in_time ASC").
		Find(&records).Error
	return records, err
}

// CountUnsynced returns the number of records awaiting sync.
func (db *DB) CountUnsynced() (int64, error) {
	var count int64
	err := db.Model(&models.CheckInRecord{}).
		Where("is_synced = ?", false).
		Count(&count).Error
	return count, err
}

// FindRecentCheckIn returns the latest record for a tag strictly after
// the cutoff time, or nil when none exists. The boundary is exclusive:
// a record at exactly the cutoff does not count as recent.
func (db *DB) FindRecentCheckIn(tagID string, since time.Time) (*models.CheckInRecord, error) {
	var record models.CheckInRecord
	err := db.Where("tag_id = ? AND check_in_time > ?", tagID, since).
		Order("check_in_time DESC").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindLastResolvedRecord returns the most recent record for a tag whose
// label is not an offline placeholder, or nil when none exists.
func (db *DB) FindLastResolvedRecord(tagID string) (*models.CheckInRecord, error) {
	var record models.CheckInRecord
	err := db.Where("tag_id = ? AND location_label NOT LIKE ?", tagID, models.OfflinePrefix+"%").
		Order("check_in_time DESC").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// MarkRecordSynced flips a record to synced with the given time, as a
// single read-modify-write transaction. Already-synced records are left
// untouched so the synced time is set exactly once.
func (db *DB) MarkRecordSynced(recordID uint, syncedAt time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var record models.CheckInRecord
		if err := tx.First(&record, recordID).Error; err != nil {
			return err
		}
		if record.IsSynced {
			return nil
		}
		record.IsSynced = true
		record.SyncedTime = &syncedAt
		return tx.Save(&record).Error
	})
}

// UpdateRecordLabel replaces a record's location label in place. Used
// for placeholder backfill; synced records are never relabeled.
func (db *DB) UpdateRecordLabel(recordID uint, label string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var record models.CheckInRecord
		if err := tx.First(&record, recordID).Error; err != nil {
			return err
		}
		if record.IsSynced {
			return nil
		}
		record.LocationLabel = label
		return tx.Save(&record).Error
	})
}
