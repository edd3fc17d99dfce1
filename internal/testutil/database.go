package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ndewijer/portfolio-monitor/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing with all
// migrations applied. The database is automatically closed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// database.Open limits the pool to one connection, so every query sees
	// the same in-memory database.
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}
