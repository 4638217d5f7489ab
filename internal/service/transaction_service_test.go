package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

// TestTransactionService tests the read side of the trade log.
//
// WHY: Listing must be newest first regardless of insertion order, and lookups of
// unknown ids must surface as not found rather than as storage failures.
func TestTransactionService(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	l := testutil.NewTestLedger(t, db, testutil.NewMockPriceOracle())

	older := testutil.NewTransaction("ABC").WithDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)).Build(t, db)
	newer := testutil.NewTransaction("ABC").
		WithType(model.TradeSell).
		WithQuantity(2).
		WithPrice("110").
		WithDate(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)).
		Build(t, db)
	testutil.NewTransaction("XYZ").WithDate(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)).Build(t, db)

	t.Run("recent transactions newest first", func(t *testing.T) {
		records, err := l.Reads.GetRecentTransactions(ctx, 2)
		if err != nil {
			t.Fatalf("GetRecentTransactions() returned unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].ID != newer.ID || records[1].ID != older.ID {
			t.Errorf("Unexpected order: %s, %s", records[0].ID, records[1].ID)
		}
		if !records[0].Total.Equal(dec("220")) {
			t.Errorf("Expected total 220, got %s", records[0].Total)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		record, err := l.Reads.GetTransaction(ctx, older.ID)
		if err != nil {
			t.Fatalf("GetTransaction() returned unexpected error: %v", err)
		}
		if record.Symbol != "ABC" || record.Quantity != 10 {
			t.Errorf("Unexpected record %+v", record)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := l.Reads.GetTransaction(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrTransactionNotFound) {
			t.Fatalf("Expected ErrTransactionNotFound, got %v", err)
		}
	})
}
