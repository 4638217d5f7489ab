package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

// TestCashService tests deposits, withdrawals and the cash overview.
//
// WHY: The cash balance is the only mutable money figure outside holdings. Every change
// must come with a cash transaction and the balance may never go negative.
func TestCashService(t *testing.T) {
	ctx := context.Background()

	t.Run("add funds records a deposit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		l := testutil.NewTestLedger(t, db, testutil.NewMockPriceOracle())

		result, err := l.Cash.AddFunds(ctx, dec("1500.5"))
		if err != nil {
			t.Fatalf("AddFunds() returned unexpected error: %v", err)
		}
		if result.Message != "Successfully added $1500.50 to account" {
			t.Errorf("Unexpected message %q", result.Message)
		}
		if !result.NewBalance.Equal(dec("1500.5")) {
			t.Errorf("Expected balance 1500.5, got %s", result.NewBalance)
		}
		if result.TransactionID == "" {
			t.Error("Expected transaction ID")
		}
		testutil.AssertRowCount(t, db, "cash_transaction", 1)
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		l := testutil.NewTestLedger(t, db, testutil.NewMockPriceOracle())

		for _, amount := range []decimal.Decimal{decimal.Zero, dec("-10")} {
			if _, err := l.Cash.AddFunds(ctx, amount); !errors.Is(err, apperrors.ErrNegativeAmount) {
				t.Errorf("AddFunds(%s): expected ErrNegativeAmount, got %v", amount, err)
			}
			if _, err := l.Cash.WithdrawFunds(ctx, amount); !errors.Is(err, apperrors.ErrNegativeAmount) {
				t.Errorf("WithdrawFunds(%s): expected ErrNegativeAmount, got %v", amount, err)
			}
		}
		testutil.AssertRowCount(t, db, "cash_transaction", 0)
	})

	t.Run("withdraw within balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewCashDeposit("300").Build(t, db)
		l := testutil.NewTestLedger(t, db, testutil.NewMockPriceOracle())

		result, err := l.Cash.WithdrawFunds(ctx, dec("120.25"))
		if err != nil {
			t.Fatalf("WithdrawFunds() returned unexpected error: %v", err)
		}
		if !result.NewBalance.Equal(dec("179.75")) {
			t.Errorf("Expected balance 179.75, got %s", result.NewBalance)
		}
	})

	t.Run("withdraw beyond balance fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewCashDeposit("100").Build(t, db)
		l := testutil.NewTestLedger(t, db, testutil.NewMockPriceOracle())

		_, err := l.Cash.WithdrawFunds(ctx, dec("100.01"))
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}
		if got := testutil.CashBalance(t, db); got != "100" {
			t.Errorf("Expected balance 100, got %s", got)
		}
		testutil.AssertRowCount(t, db, "cash_transaction", 1)
	})

	t.Run("overview lists newest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		l := testutil.NewTestLedger(t, db, testutil.NewMockPriceOracle())

		if _, err := l.Cash.AddFunds(ctx, dec("50")); err != nil {
			t.Fatal(err)
		}
		if _, err := l.Cash.WithdrawFunds(ctx, dec("20")); err != nil {
			t.Fatal(err)
		}

		overview, err := l.Cash.GetOverview(ctx, 10)
		if err != nil {
			t.Fatalf("GetOverview() returned unexpected error: %v", err)
		}
		if !overview.Balance.Equal(dec("30")) {
			t.Errorf("Expected balance 30, got %s", overview.Balance)
		}
		if len(overview.Transactions) != 2 {
			t.Fatalf("Expected 2 movements, got %d", len(overview.Transactions))
		}
		if overview.Transactions[0].Type != model.CashWithdrawal || !overview.Transactions[0].Amount.Equal(dec("-20")) {
			t.Errorf("Expected the withdrawal first, got %+v", overview.Transactions[0])
		}
	})
}
