package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// Open opens a connection to the SQLite database
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writers serialize on the SQLite file lock anyway; a single connection
	// keeps BEGIN IMMEDIATE from spinning on SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := ApplyPragmas(db, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ApplyPragmas sets the connection pragmas every ledger database needs, followed by extra.
func ApplyPragmas(db *sql.DB, extra ...string) error {
	pragmas := append([]string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
	}, extra...)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// HealthCheck performs a simple health check on the database
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}
