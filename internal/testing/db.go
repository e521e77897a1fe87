// Package testing provides testing utilities and helpers for the alpha project.
package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/aristath/alpha/internal/database"
	_ "github.com/mattn/go-sqlite3"
)

// NewTestDB creates a file-backed database in a per-test temporary directory
// using the production driver, with the schema applied. The database is closed
// when the test finishes.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "alpha.db"),
		Name: "test",
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database: %v", err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// NewMemoryDB creates an in-memory database on the cgo sqlite3 driver with the
// production migrations applied. An in-memory database lives only as long as
// its connection, so the pool is pinned to a single connection.
func NewMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = db.Close() })

	if err := database.MigrateDB(db); err != nil {
		t.Fatalf("Failed to migrate in-memory database: %v", err)
	}
	return db
}
