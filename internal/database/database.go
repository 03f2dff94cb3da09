package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	pkgLogger "github.com/avergara/mantencion-api/pkg/logger"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the SQLite database, applies the durability pragmas and runs
// the schema migration. The returned handle is created once at startup and
// shared by reference with every component.
func Connect(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	logLevel := logger.Silent
	if os.Getenv("ENVIRONMENT") != "production" {
		logLevel = logger.Warn
	}
	gormLogger := pkgLogger.NewGormLogger(logLevel, 200*time.Millisecond)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Single local operator: WAL keeps the writer path serialized while
	// display reads stay cheap; NORMAL durability matches that model.
	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := db.Exec("PRAGMA synchronous = NORMAL").Error; err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	// SQLite tolerates a single writer; one connection avoids busy errors.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema and seeds the configuration
// singleton when absent.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Garden{},
		&models.LineItem{},
		&models.Site{},
		&models.WorkOrder{},
		&models.PaymentReport{},
		&models.Requirement{},
		&models.ContractConfig{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	var count int64
	if err := db.Model(&models.ContractConfig{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check configuration: %w", err)
	}
	if count == 0 {
		seed := models.ContractConfig{
			ID:                models.ContractConfigID,
			Title:             "Contrato de Mantención de Jardines",
			Contractor:        "",
			CorrelativePrefix: "A",
		}
		if err := db.Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed configuration: %w", err)
		}
	}

	return nil
}
