// Package db opens the entity store and keeps the schema current.
// A postgres:// DSN selects PostgreSQL; anything else is treated as a
// SQLite file path, the default for single-workstation deployments.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/epicevents/crm/internal/models"
)

// Connect opens the database selected by dsn and runs schema migration.
func Connect(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("CRM_DATABASE_DSN is empty")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var (
		conn *gorm.DB
		err  error
	)
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if mkErr := os.MkdirAll(dir, 0o700); mkErr != nil {
				return nil, fmt.Errorf("create database dir: %w", mkErr)
			}
		}
		conn, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate applies the schema for every entity.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Contract{},
		&models.Event{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
