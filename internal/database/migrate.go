package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewMigrator returns a goose provider over the embedded migrations.
func NewMigrator(db *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending migration and returns the resulting schema version.
func Migrate(ctx context.Context, db *sql.DB) (int64, error) {
	provider, err := NewMigrator(db)
	if err != nil {
		return 0, err
	}
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SchemaStatus reports the applied schema version and whether migrations are pending.
func SchemaStatus(ctx context.Context, db *sql.DB) (version int64, pending bool, err error) {
	provider, err := NewMigrator(db)
	if err != nil {
		return 0, false, err
	}
	if version, err = provider.GetDBVersion(ctx); err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	if pending, err = provider.HasPending(ctx); err != nil {
		return 0, false, fmt.Errorf("failed to check pending migrations: %w", err)
	}
	return version, pending, nil
}
