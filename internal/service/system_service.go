package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService. features is reported as-is by CheckVersion.
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the applied schema version and pending migrations.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, pending, err := database.SchemaStatus(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	features := make(map[string]bool, len(s.features))
	for name, enabled := range s.features {
		features[name] = enabled
	}

	return model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(dbVersion, 10),
		Features:        features,
		MigrationNeeded: pending,
	}, nil
}
