// Package cli implements the ledgerctl commands on top of the ledger services.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/pricecache"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/yahoo"
)

// App holds what the commands share. The database is opened on first use so that
// commands like help never touch it.
type App struct {
	cfg *config.Config
	log zerolog.Logger
	out io.Writer

	db          *sql.DB
	trade       *service.TradeService
	cash        *service.CashService
	portfolio   *service.PortfolioService
	reads       *service.TransactionService
	oracle      service.PriceOracle
	quotes      service.QuoteProvider
	markdownRaw bool
}

// NewApp creates an App writing reports to out.
func NewApp(cfg *config.Config, log zerolog.Logger, out io.Writer) *App {
	return &App{cfg: cfg, log: log, out: out}
}

// WithOracle replaces the Yahoo oracle, mainly for tests.
func (a *App) WithOracle(oracle service.PriceOracle, quotes service.QuoteProvider) *App {
	a.oracle = oracle
	a.quotes = quotes
	return a
}

// WithDB uses an already opened and migrated database.
func (a *App) WithDB(db *sql.DB) *App {
	a.db = db
	return a
}

// RawMarkdown disables terminal rendering of reports.
func (a *App) RawMarkdown() *App {
	a.markdownRaw = true
	return a
}

// Close releases the database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// open connects to the database, applies migrations and wires the services.
func (a *App) open(ctx context.Context) error {
	if a.trade != nil {
		return nil
	}

	if a.db == nil {
		db, err := database.Open(a.cfg.Database.Path)
		if err != nil {
			return err
		}
		if _, err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return err
		}
		a.db = db
	}

	if a.oracle == nil {
		yahooOracle := yahoo.NewOracle(yahoo.NewFinanceClient(&http.Client{Timeout: a.cfg.Prices.OracleTimeout}))
		a.oracle = pricecache.New(yahooOracle, a.cfg.Prices.CacheTTL).WithFetchTimeout(a.cfg.Prices.OracleTimeout)
		a.quotes = yahooOracle
	}

	holdingRepo := repository.NewHoldingRepository(a.db)
	transactionRepo := repository.NewTransactionRepository(a.db)
	cashRepo := repository.NewCashRepository(a.db)
	locks := service.NewLedgerLocks()

	a.trade = service.NewTradeService(a.db, holdingRepo, transactionRepo, cashRepo, a.oracle, locks,
		service.TradeOptions{
			CashSettlement: a.cfg.Portfolio.CashSettlement,
			OracleTimeout:  a.cfg.Prices.OracleTimeout,
		}, a.log)
	a.cash = service.NewCashService(a.db, cashRepo, locks, a.log)
	a.portfolio = service.NewPortfolioService(a.db, holdingRepo, transactionRepo, cashRepo, a.oracle, a.quotes,
		service.PortfolioSettings{
			InitialInvestment: a.cfg.Portfolio.InitialInvestment,
			InceptionDate:     a.cfg.Portfolio.InceptionDate,
			BenchmarkSymbol:   a.cfg.Portfolio.BenchmarkSymbol,
			FetchConcurrency:  a.cfg.Prices.FetchConcurrency,
			OracleTimeout:     a.cfg.Prices.OracleTimeout,
		}, a.log)
	a.reads = service.NewTransactionService(transactionRepo, holdingRepo)
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
