package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// PortfolioSettings holds the constants a valuation depends on.
type PortfolioSettings struct {
	InitialInvestment decimal.Decimal
	// InceptionDate starts the history series. Zero means the first trade date, or today on an empty ledger.
	InceptionDate    time.Time
	BenchmarkSymbol  string
	FetchConcurrency int
	OracleTimeout    time.Duration
}

// SnapshotOptions shape the assets list of a snapshot. Totals always cover every holding.
type SnapshotOptions struct {
	NumEntries int    // 0 returns all assets
	OrderBy    string // one of the ledger.OrderBy* keys, empty keeps symbol order
}

// PortfolioService computes valuation snapshots and realized gains from the ledger.
type PortfolioService struct {
	db              *sql.DB
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	cashRepo        *repository.CashRepository
	oracle          PriceOracle
	quotes          QuoteProvider
	settings        PortfolioSettings
	log             zerolog.Logger
	now             func() time.Time
}

// NewPortfolioService creates a new PortfolioService. quotes may be nil, in which case
// monthly returns carry no benchmark.
func NewPortfolioService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	cashRepo *repository.CashRepository,
	oracle PriceOracle,
	quotes QuoteProvider,
	settings PortfolioSettings,
	log zerolog.Logger,
) *PortfolioService {
	if settings.FetchConcurrency < 1 {
		settings.FetchConcurrency = 1
	}
	return &PortfolioService{
		db:              db,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		cashRepo:        cashRepo,
		oracle:          oracle,
		quotes:          quotes,
		settings:        settings,
		log:             log.With().Str("service", "portfolio").Logger(),
		now:             time.Now,
	}
}

// ledgerState is a consistent read of the ledger.
type ledgerState struct {
	holdings     []model.Holding
	cash         decimal.Decimal
	transactions []model.Transaction
}

// readLedger reads holdings, cash and the trade log in one transaction.
// Every failure is reported as apperrors.ErrLedgerUnavailable.
func (s *PortfolioService) readLedger(ctx context.Context) (ledgerState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledgerState{}, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	defer tx.Rollback()

	var state ledgerState
	if state.holdings, err = s.holdingRepo.WithTx(tx).GetHoldings(ctx); err != nil {
		return ledgerState{}, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	account, err := s.cashRepo.WithTx(tx).GetAccount(ctx, model.DefaultCashAccountID)
	if err != nil {
		return ledgerState{}, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	state.cash = account.Balance
	if state.transactions, err = s.transactionRepo.WithTx(tx).GetTransactions(ctx); err != nil {
		return ledgerState{}, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	return state, nil
}

// GetSnapshot values the portfolio at the current time.
// Returns an error wrapping apperrors.ErrLedgerUnavailable when the ledger cannot be read;
// a missing price only marks the asset as stale.
func (s *PortfolioService) GetSnapshot(ctx context.Context, opts SnapshotOptions) (model.ValuationSnapshot, error) {
	state, err := s.readLedger(ctx)
	if err != nil {
		return model.ValuationSnapshot{}, err
	}

	now := s.now().UTC()
	inception := s.inceptionDate(state.transactions, now)

	snapshot := ledger.Valuate(ledger.Inputs{
		Holdings:          state.holdings,
		Prices:            s.fetchPrices(ctx, state.holdings),
		CashBalance:       state.cash,
		RealizedGains:     ledger.RealizedGainsBySymbol(state.transactions),
		InitialInvestment: s.settings.InitialInvestment,
		InceptionDate:     inception,
		AsOf:              now,
		Benchmark:         s.benchmark(ctx, inception, now),
	})

	if opts.OrderBy != "" {
		ledger.SortAssets(snapshot.Assets, opts.OrderBy)
	}
	if opts.NumEntries > 0 && opts.NumEntries < len(snapshot.Assets) {
		snapshot.Assets = snapshot.Assets[:opts.NumEntries]
	}
	return snapshot, nil
}

// RealizedGains returns the FIFO realized gain of the whole log, rounded, with its per-symbol breakdown.
func (s *PortfolioService) RealizedGains(ctx context.Context) (decimal.Decimal, map[string]decimal.Decimal, error) {
	txs, err := s.transactionRepo.GetTransactions(ctx)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("%w: %w", apperrors.ErrLedgerUnavailable, err)
	}
	bySymbol := ledger.RealizedGainsBySymbol(txs)
	total := decimal.Zero
	for symbol, gain := range bySymbol {
		total = total.Add(gain)
		bySymbol[symbol] = ledger.Round(gain)
	}
	return ledger.Round(total), bySymbol, nil
}

// fetchPrices asks the oracle for every open position concurrently. Failed lookups are
// left out of the map and valued at cost.
func (s *PortfolioService) fetchPrices(ctx context.Context, holdings []model.Holding) map[string]decimal.Decimal {
	ctx, cancel := withTimeout(ctx, s.settings.OracleTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		prices = make(map[string]decimal.Decimal, len(holdings))
		g      errgroup.Group
	)
	g.SetLimit(s.settings.FetchConcurrency)

	for _, h := range holdings {
		if h.Quantity.IsZero() {
			continue
		}
		symbol := h.Symbol
		g.Go(func() error {
			price, err := s.oracle.CurrentPrice(ctx, symbol)
			if err != nil || !price.IsPositive() {
				s.log.Warn().Err(err).Str("symbol", symbol).Msg("price unavailable, valuing at cost")
				return nil
			}
			mu.Lock()
			prices[symbol] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return prices
}

func (s *PortfolioService) inceptionDate(txs []model.Transaction, now time.Time) time.Time {
	if !s.settings.InceptionDate.IsZero() {
		return s.settings.InceptionDate
	}
	first := now
	for _, t := range txs {
		if t.Date.Before(first) {
			first = t.Date
		}
	}
	return first
}

func (s *PortfolioService) benchmark(ctx context.Context, from, to time.Time) []model.ClosePrice {
	if s.quotes == nil || s.settings.BenchmarkSymbol == "" {
		return nil
	}
	ctx, cancel := withTimeout(ctx, s.settings.OracleTimeout)
	defer cancel()

	closes, err := s.quotes.DailyCloses(ctx, s.settings.BenchmarkSymbol, model.TruncateDay(from), model.TruncateDay(to).AddDate(0, 0, 1))
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", s.settings.BenchmarkSymbol).Msg("benchmark unavailable")
		return nil
	}
	return closes
}
