package db

import (
	"path/filepath"
	"testing"
)

// newTestDB opens a fresh file-backed database in a per-test temp dir and
// migrates it to the latest schema.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "gait_test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.MigrateUp(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return database
}
