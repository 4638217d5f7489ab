package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The schema comes from the same embedded migrations the server applies.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if err := database.ApplyPragmas(db, "PRAGMA journal_mode = MEMORY"); err != nil {
		t.Fatalf("Failed to set pragma: %v", err)
	}

	if _, err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CleanDatabase removes all ledger rows and resets the cash balance to zero.
// Useful when multiple subtests share one database.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	statements := []string{
		"DELETE FROM cash_transaction",
		`DELETE FROM "transaction"`,
		"DELETE FROM holding",
		"UPDATE cash_account SET balance = '0'",
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to clean database (%s): %v", stmt, err)
		}
	}
}

// CountRows returns the number of rows in a table.
//
// Example usage:
//
//	count := testutil.CountRows(t, db, "holding")
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	//nolint:gosec // G202: table names come from test code
	query := `SELECT COUNT(*) FROM "` + table + `"`
	if err := db.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "transaction", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}

// CashBalance reads the balance of the default cash account.
func CashBalance(t *testing.T, db *sql.DB) string {
	t.Helper()

	var balance string
	if err := db.QueryRow("SELECT balance FROM cash_account WHERE id = 1").Scan(&balance); err != nil {
		t.Fatalf("Failed to read cash balance: %v", err)
	}
	return balance
}
