package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestTransactionRepository_Ordering verifies replay order is (date, insertion sequence)
// regardless of insertion order, and that recent listings are the exact reverse.
//
// WHY: FIFO matching depends on this order. Two trades on the same day must keep the order
// they were executed in.
func TestTransactionRepository_Ordering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	ctx := context.Background()

	late := testutil.NewTransaction("ABC").WithDate(day(2024, 3, 1)).Build(t, db)
	firstSameDay := testutil.NewTransaction("ABC").WithDate(day(2024, 2, 1)).Build(t, db)
	secondSameDay := testutil.NewTransaction("ABC").WithType(model.TradeSell).WithQuantity(4).WithDate(day(2024, 2, 1)).Build(t, db)
	other := testutil.NewTransaction("XYZ").WithDate(day(2024, 1, 10)).Build(t, db)

	all, err := repo.GetTransactions(ctx)
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	wantOrder := []string{other.ID, firstSameDay.ID, secondSameDay.ID, late.ID}
	if len(all) != len(wantOrder) {
		t.Fatalf("got %d transactions, want %d", len(all), len(wantOrder))
	}
	for i, id := range wantOrder {
		if all[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, all[i].ID, id)
		}
	}
	if firstSameDay.Sequence >= secondSameDay.Sequence {
		t.Errorf("sequence not increasing: %d then %d", firstSameDay.Sequence, secondSameDay.Sequence)
	}

	bySymbol, err := repo.GetTransactionsBySymbol(ctx, "ABC")
	if err != nil {
		t.Fatalf("GetTransactionsBySymbol() error = %v", err)
	}
	if len(bySymbol) != 3 || bySymbol[0].ID != firstSameDay.ID {
		t.Errorf("unexpected symbol log %+v", bySymbol)
	}

	recent, err := repo.GetRecentTransactions(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecentTransactions() error = %v", err)
	}
	if len(recent) != 2 || recent[0].ID != late.ID || recent[1].ID != secondSameDay.ID {
		t.Errorf("unexpected recent transactions %+v", recent)
	}

	first, err := repo.GetFirstTransactionDate(ctx)
	if err != nil {
		t.Fatalf("GetFirstTransactionDate() error = %v", err)
	}
	if !first.Equal(day(2024, 1, 10)) {
		t.Errorf("first date = %v, want 2024-01-10", first)
	}

	got, err := repo.GetTransaction(ctx, secondSameDay.ID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Type != model.TradeSell || got.Quantity != 4 || !got.Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected transaction %+v", got)
	}

	if _, err := repo.GetTransaction(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, apperrors.ErrTransactionNotFound) {
		t.Errorf("GetTransaction(unknown) error = %v, want ErrTransactionNotFound", err)
	}
}

func TestTransactionRepository_EmptyLog(t *testing.T) {
	db := testutil.SetupTestDB(t)

	first, err := repository.NewTransactionRepository(db).GetFirstTransactionDate(context.Background())
	if err != nil {
		t.Fatalf("GetFirstTransactionDate() error = %v", err)
	}
	if !first.IsZero() {
		t.Errorf("first date = %v, want zero time", first)
	}
}

func TestHoldingRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)
	ctx := context.Background()

	t.Run("unknown symbol", func(t *testing.T) {
		if _, err := repo.GetHolding(ctx, "NOPE"); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("GetHolding() error = %v, want ErrHoldingNotFound", err)
		}
	})

	t.Run("decimals survive storage", func(t *testing.T) {
		testutil.NewHolding().WithSymbol("DEC").WithQuantity(3).WithAveragePrice("123.456789").Build(t, db)

		h, err := repo.GetHolding(ctx, "DEC")
		if err != nil {
			t.Fatalf("GetHolding() error = %v", err)
		}
		if !h.WeightedAveragePrice.Equal(decimal.RequireFromString("123.456789")) {
			t.Errorf("average = %s, want 123.456789", h.WeightedAveragePrice)
		}
		if !h.Quantity.Equal(decimal.NewFromInt(3)) {
			t.Errorf("quantity = %s, want 3", h.Quantity)
		}
	})

	t.Run("upsert keeps metadata when new values are empty", func(t *testing.T) {
		h, err := repo.GetHolding(ctx, "DEC")
		if err != nil {
			t.Fatalf("GetHolding() error = %v", err)
		}
		h.Quantity = decimal.Zero
		h.CompanyName, h.Sector, h.Industry = "", "", ""
		if err := repo.UpsertHolding(ctx, h); err != nil {
			t.Fatalf("UpsertHolding() error = %v", err)
		}

		got, err := repo.GetHolding(ctx, "DEC")
		if err != nil {
			t.Fatalf("GetHolding() error = %v", err)
		}
		if !got.Quantity.IsZero() {
			t.Errorf("quantity = %s, want 0", got.Quantity)
		}
		if got.Sector != "Technology" {
			t.Errorf("sector = %q, want Technology", got.Sector)
		}
	})
}

func TestCashRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCashRepository(db)
	ctx := context.Background()

	account, err := repo.GetAccount(ctx, model.DefaultCashAccountID)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if !account.Balance.IsZero() {
		t.Errorf("initial balance = %s, want 0", account.Balance)
	}

	testutil.NewCashDeposit("100.10").Build(t, db)
	testutil.NewCashDeposit("0.20").Build(t, db)

	if got := testutil.CashBalance(t, db); got != "100.3" {
		t.Errorf("stored balance = %q, want 100.3", got)
	}

	movements, err := repo.GetCashTransactions(ctx, model.DefaultCashAccountID, 1)
	if err != nil {
		t.Fatalf("GetCashTransactions() error = %v", err)
	}
	if len(movements) != 1 || !movements[0].Amount.Equal(decimal.RequireFromString("0.2")) {
		t.Errorf("unexpected latest movement %+v", movements)
	}

	if _, err := repo.GetAccount(ctx, 99); !errors.Is(err, apperrors.ErrCashAccountNotFound) {
		t.Errorf("GetAccount(99) error = %v, want ErrCashAccountNotFound", err)
	}
}

// rollback leaves no trace of writes made through WithTx.
func TestWithTx_Rollback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx() error = %v", err)
	}
	trade, err := model.NewTransaction("ROLL", 1, decimal.NewFromInt(5), model.TradeBuy, day(2024, 1, 2), model.CompanyMetadata{})
	if err != nil {
		t.Fatalf("NewTransaction() error = %v", err)
	}
	if err := repository.NewTransactionRepository(db).WithTx(tx).InsertTransaction(ctx, &trade); err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		t.Fatalf("Rollback() error = %v", err)
	}

	testutil.AssertRowCount(t, db, "transaction", 0)
}
