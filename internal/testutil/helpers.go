package testutil

import (
	"database/sql"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// TestLogger discards log output.
func TestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// TestLedger bundles services that share one database and one set of ledger locks.
type TestLedger struct {
	Trade     *service.TradeService
	Cash      *service.CashService
	Portfolio *service.PortfolioService
	Reads     *service.TransactionService
}

// NewTestLedger wires the ledger services over db with cash settlement enabled.
//
// Example usage:
//
//	oracle := testutil.NewMockPriceOracle().WithPrice("ABC", "100")
//	ledger := testutil.NewTestLedger(t, db, oracle)
//	_, err := ledger.Cash.AddFunds(ctx, decimal.NewFromInt(1000))
func NewTestLedger(t *testing.T, db *sql.DB, oracle service.PriceOracle) *TestLedger {
	t.Helper()
	return NewTestLedgerWithOptions(t, db, oracle, service.TradeOptions{CashSettlement: true, OracleTimeout: time.Second})
}

// NewTestLedgerWithOptions is NewTestLedger with explicit trade options.
func NewTestLedgerWithOptions(t *testing.T, db *sql.DB, oracle service.PriceOracle, opts service.TradeOptions) *TestLedger {
	t.Helper()

	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	cashRepo := repository.NewCashRepository(db)
	locks := service.NewLedgerLocks()

	return &TestLedger{
		Trade:     service.NewTradeService(db, holdingRepo, transactionRepo, cashRepo, oracle, locks, opts, TestLogger()),
		Cash:      service.NewCashService(db, cashRepo, locks, TestLogger()),
		Portfolio: NewTestPortfolioService(t, db, oracle, nil),
		Reads:     service.NewTransactionService(transactionRepo, holdingRepo),
	}
}

// NewTestPortfolioService creates a PortfolioService with an initial investment of 25000.
// quotes may be nil.
func NewTestPortfolioService(t *testing.T, db *sql.DB, oracle service.PriceOracle, quotes service.QuoteProvider) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		db,
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewCashRepository(db),
		oracle,
		quotes,
		service.PortfolioSettings{
			InitialInvestment: decimal.NewFromInt(25000),
			BenchmarkSymbol:   "^GSPC",
			FetchConcurrency:  4,
			OracleTimeout:     time.Second,
		},
		TestLogger(),
	)
}

// NewTestMarketService creates a MarketService over quotes.
func NewTestMarketService(t *testing.T, quotes service.QuoteProvider) *service.MarketService {
	t.Helper()
	return service.NewMarketService(quotes, time.Second, TestLogger())
}

// NewTestSystemService creates a SystemService without feature flags.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, map[string]bool{})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeCompanyName generates a company name for a symbol.
func MakeCompanyName(symbol string) string {
	return symbol + " Corp " + randomAlphanumeric(3)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
