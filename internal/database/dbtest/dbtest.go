// Package dbtest provides migrated in-memory databases for package tests.
package dbtest

import (
	"testing"

	"wms-backend/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns an empty, migrated in-memory SQLite database that is closed
// when the test ends.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// Seeded is New plus the demo data set.
func Seeded(t *testing.T) *gorm.DB {
	t.Helper()

	db := New(t)
	if err := database.Seed(db); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return db
}
