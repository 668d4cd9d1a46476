package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens an in-memory database with the item and claim schema
// applied, for use in tests. The connection is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	return database
}
