package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

// TestSystemService tests health and version reporting.
//
// WHY: Deployments check these endpoints to decide whether the schema is current.
func TestSystemService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	t.Run("healthy database", func(t *testing.T) {
		if err := svc.CheckHealth(); err != nil {
			t.Errorf("CheckHealth() returned unexpected error: %v", err)
		}
	})

	t.Run("version after migration", func(t *testing.T) {
		info, err := svc.CheckVersion(context.Background())
		if err != nil {
			t.Fatalf("CheckVersion() returned unexpected error: %v", err)
		}
		if info.DbVersion != "1" {
			t.Errorf("Expected db version 1, got %s", info.DbVersion)
		}
		if info.MigrationNeeded {
			t.Error("Expected no pending migrations")
		}
		if info.AppVersion == "" {
			t.Error("Expected an app version")
		}
	})

	t.Run("closed database is unhealthy", func(t *testing.T) {
		closed := testutil.SetupTestDB(t)
		closed.Close()
		if err := testutil.NewTestSystemService(t, closed).CheckHealth(); err == nil {
			t.Error("Expected error for closed database")
		}
	})
}
