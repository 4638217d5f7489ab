package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ParseTime parses a date string in "2006-01-02", SQLite "2006-01-02 15:04:05" or RFC3339 format.
// Note: mirrors validation.ParseTime, both are kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{dateLayout, time.DateTime, time.RFC3339} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q", str)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
