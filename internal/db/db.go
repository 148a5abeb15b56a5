// Package db provides a GORM-based database layer for patrol.
// It uses the pure-Go SQLite driver.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qsswgl/patrol/internal/models"
)

// DB wraps the GORM database connection with patrol-specific operations.
type DB struct {
	*gorm.DB
	path string
}

// Config holds database configuration options.
type Config struct {
	Path        string
	Debug       bool
	MaxIdleConn int
	MaxOpenConn int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	}
}

// New creates a new database connection and runs migrations.
func New(cfg Config) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	// DELETE journal mode for simpler transaction handling
	// (WAL mode has visibility issues with the pure-Go SQLite driver)
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", cfg.Path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	wrapped := &DB{DB: db, path: cfg.Path}

	if err := wrapped.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return wrapped, nil
}

// migrate runs GORM auto-migrations for all models.
func (db *DB) migrate() error {
	return db.AutoMigrate(
		&models.CheckInRecord{},
		&models.LocationMapping{},
		&models.SyncMeta{},
	)
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
