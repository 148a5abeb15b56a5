package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qsswgl/patrol/internal/models"
)

// UpsertLocationMapping creates or refreshes the cached resolution for
// a tag. The same tag is never stored twice.
func (db *DB) UpsertLocationMapping(mapping *models.LocationMapping) error {
	if mapping.Category == "" {
		mapping.Category = models.DefaultCategory
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tag_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"location_label", "category", "updated_at"}),
	}).Create(mapping).Error
}

// GetLocationMapping retrieves the cached resolution for a tag, or nil
// when the tag has never been resolved locally.
func (db *DB) GetLocationMapping(tagID string) (*models.LocationMapping, error) {
	var mapping models.LocationMapping
	err := db.First(&mapping, "tag_id = ?", tagID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}

// ListLocationMappings returns all cached resolutions.
func (db *DB) ListLocationMappings() ([]models.LocationMapping, error) {
	var mappings []models.LocationMapping
	err := db.Order("location_label ASC").Find(&mappings).Error
	return mappings, err
}
