package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

// TestPortfolioService_GetSnapshot tests snapshot aggregation over a real ledger.
//
// WHY: The snapshot is the only read model clients see. Its totals must agree with
// the holdings, the cash balance and the current prices at the moment of the call.
func TestPortfolioService_GetSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceOracle(), nil)

		snapshot, err := svc.GetSnapshot(ctx, service.SnapshotOptions{})
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}
		if !snapshot.TotalValue.IsZero() {
			t.Errorf("Expected total value 0, got %s", snapshot.TotalValue)
		}
		if len(snapshot.Assets) != 0 {
			t.Errorf("Expected no assets, got %d", len(snapshot.Assets))
		}
		if snapshot.BestPerformer != nil {
			t.Errorf("Expected no best performer, got %+v", snapshot.BestPerformer)
		}
		if snapshot.Degraded {
			t.Error("Expected a regular snapshot")
		}
	})

	t.Run("deposit, buy and revalue", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		oracle := testutil.NewMockPriceOracle().WithPrice("ABC", "100")
		l := testutil.NewTestLedger(t, db, oracle)

		if _, err := l.Cash.AddFunds(ctx, decimal.NewFromInt(25000)); err != nil {
			t.Fatalf("AddFunds() returned unexpected error: %v", err)
		}
		if _, err := l.Trade.ExecuteTrade(ctx, service.TradeRequest{Symbol: "ABC", Quantity: 10, Type: model.TradeBuy}); err != nil {
			t.Fatalf("ExecuteTrade() returned unexpected error: %v", err)
		}

		snapshot, err := l.Portfolio.GetSnapshot(ctx, service.SnapshotOptions{})
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}
		if !snapshot.CashBalance.Equal(dec("24000")) {
			t.Errorf("Expected cash 24000, got %s", snapshot.CashBalance)
		}
		if !snapshot.TotalValue.Equal(dec("25000")) {
			t.Errorf("Expected total value 25000, got %s", snapshot.TotalValue)
		}

		oracle.WithPrice("ABC", "110")
		snapshot, err = l.Portfolio.GetSnapshot(ctx, service.SnapshotOptions{})
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}
		if !snapshot.TotalValue.Equal(dec("25100")) {
			t.Errorf("Expected total value 25100, got %s", snapshot.TotalValue)
		}
		if !snapshot.StockValue.Equal(dec("1100")) {
			t.Errorf("Expected stock value 1100, got %s", snapshot.StockValue)
		}
		if !snapshot.ProfitLoss.Equal(dec("100")) {
			t.Errorf("Expected profit 100, got %s", snapshot.ProfitLoss)
		}
		if len(snapshot.Assets) != 1 || !snapshot.Assets[0].ChangePercent.Equal(dec("10")) {
			t.Errorf("Expected ABC up 10%%, got %+v", snapshot.Assets)
		}
		if len(snapshot.History) == 0 || !snapshot.History[len(snapshot.History)-1].Value.Equal(snapshot.TotalValue) {
			t.Errorf("Expected history to end at the total value, got %+v", snapshot.History)
		}
	})

	t.Run("missing price values the asset at cost", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewHolding().WithSymbol("ABC").WithQuantity(4).WithAveragePrice("50").Build(t, db)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceOracle(), nil)

		snapshot, err := svc.GetSnapshot(ctx, service.SnapshotOptions{})
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}
		asset := snapshot.Assets[0]
		if !asset.PriceStale {
			t.Error("Expected asset to be marked stale")
		}
		if !asset.CurrentValue.Equal(dec("200")) {
			t.Errorf("Expected value at cost 200, got %s", asset.CurrentValue)
		}
	})

	t.Run("orders and truncates assets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewHolding().WithSymbol("AAA").WithQuantity(1).WithAveragePrice("10").Build(t, db)
		testutil.NewHolding().WithSymbol("BBB").WithQuantity(1).WithAveragePrice("10").Build(t, db)
		testutil.NewHolding().WithSymbol("CCC").WithQuantity(1).WithAveragePrice("10").Build(t, db)
		oracle := testutil.NewMockPriceOracle().
			WithPrice("AAA", "10").
			WithPrice("BBB", "30").
			WithPrice("CCC", "20")
		svc := testutil.NewTestPortfolioService(t, db, oracle, nil)

		snapshot, err := svc.GetSnapshot(ctx, service.SnapshotOptions{NumEntries: 2, OrderBy: "value"})
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}
		if len(snapshot.Assets) != 2 {
			t.Fatalf("Expected 2 assets, got %d", len(snapshot.Assets))
		}
		if snapshot.Assets[0].Symbol != "BBB" || snapshot.Assets[1].Symbol != "CCC" {
			t.Errorf("Expected BBB, CCC, got %s, %s", snapshot.Assets[0].Symbol, snapshot.Assets[1].Symbol)
		}
		if !snapshot.StockValue.Equal(dec("60")) {
			t.Errorf("Expected totals over all assets (60), got %s", snapshot.StockValue)
		}
	})

	t.Run("benchmark feeds monthly returns", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewTransaction("ABC").WithDate(time.Now().UTC().AddDate(0, -2, 0)).Build(t, db)
		quotes := testutil.NewMockQuoteProvider()
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceOracle(), quotes)

		snapshot, err := svc.GetSnapshot(ctx, service.SnapshotOptions{})
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}
		if len(snapshot.MonthlyReturns) == 0 {
			t.Fatal("Expected monthly returns over two months of history")
		}
		for _, m := range snapshot.MonthlyReturns {
			if m.Benchmark != nil {
				t.Errorf("Expected no benchmark for %s without closes, got %s", m.Month, m.Benchmark)
			}
		}
	})

	t.Run("closed database reports ledger unavailable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockPriceOracle(), nil)
		db.Close()

		_, err := svc.GetSnapshot(ctx, service.SnapshotOptions{})
		if !errors.Is(err, apperrors.ErrLedgerUnavailable) {
			t.Fatalf("Expected ErrLedgerUnavailable, got %v", err)
		}
	})
}

// TestPortfolioService_RealizedGains tests FIFO realized gains over the stored log.
//
// WHY: Realized gains are derived from the trade log, not from holdings. The result must
// match lot-by-lot matching of the persisted BUYs and SELLs.
func TestPortfolioService_RealizedGains(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	oracle := testutil.NewMockPriceOracle().WithPrice("ABC", "100")
	l := testutil.NewTestLedger(t, db, oracle)
	testutil.NewCashDeposit("1000").Build(t, db)

	if _, err := l.Trade.ExecuteTrade(ctx, service.TradeRequest{Symbol: "ABC", Quantity: 10, Type: model.TradeBuy}); err != nil {
		t.Fatalf("buy: %v", err)
	}
	oracle.WithPrice("ABC", "120")
	if _, err := l.Trade.ExecuteTrade(ctx, service.TradeRequest{Symbol: "ABC", Quantity: 4, Type: model.TradeSell}); err != nil {
		t.Fatalf("sell: %v", err)
	}

	total, bySymbol, err := l.Portfolio.RealizedGains(ctx)
	if err != nil {
		t.Fatalf("RealizedGains() returned unexpected error: %v", err)
	}
	if total.StringFixed(2) != "80.00" {
		t.Errorf("Expected 80.00, got %s", total.StringFixed(2))
	}
	if !bySymbol["ABC"].Equal(dec("80")) {
		t.Errorf("Expected ABC gain 80, got %s", bySymbol["ABC"])
	}

	snapshot, err := l.Portfolio.GetSnapshot(ctx, service.SnapshotOptions{})
	if err != nil {
		t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
	}
	if !snapshot.RealizedGains.Equal(dec("80")) {
		t.Errorf("Expected snapshot realized gains 80, got %s", snapshot.RealizedGains)
	}
}
