package testutil

import (
	"context"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore"
)

// OpenTestSQLite returns a migrated in-memory SQLite database scoped to t.
func OpenTestSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gormstore.OpenSQLite(":memory:", gormstore.Options{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = gormstore.Close(db) })
	if err := gormstore.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// OpenTestMySQL connects to TEST_MYSQL_DSN and migrates it.
// Tests are skipped when the variable is unset.
func OpenTestMySQL(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set; skipping mysql tests")
	}
	db, err := gormstore.OpenMySQL(dsn, gormstore.Options{})
	if err != nil {
		t.Fatalf("open mysql: %v", err)
	}
	t.Cleanup(func() { _ = gormstore.Close(db) })
	if err := gormstore.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
