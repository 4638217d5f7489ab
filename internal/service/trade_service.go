package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// TradeRequest is a validated BUY or SELL order. A zero Date means today.
type TradeRequest struct {
	Symbol   string
	Quantity int64
	Type     model.TradeType
	Date     time.Time
}

// TradeOptions configures the trade executor.
type TradeOptions struct {
	CashSettlement bool
	OracleTimeout  time.Duration
}

// TradeService executes trades against holdings and cash.
// A trade either appends its transaction, updates the holding and settles cash together, or changes nothing.
type TradeService struct {
	db              *sql.DB
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	cashRepo        *repository.CashRepository
	oracle          PriceOracle
	locks           *LedgerLocks
	opts            TradeOptions
	log             zerolog.Logger
	now             func() time.Time
}

// NewTradeService creates a new TradeService. locks must be shared with the CashService of the same ledger.
func NewTradeService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	cashRepo *repository.CashRepository,
	oracle PriceOracle,
	locks *LedgerLocks,
	opts TradeOptions,
	log zerolog.Logger,
) *TradeService {
	return &TradeService{
		db:              db,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		cashRepo:        cashRepo,
		oracle:          oracle,
		locks:           locks,
		opts:            opts,
		log:             log.With().Str("service", "trade").Logger(),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// ExecuteTrade prices and records a trade.
//
// Errors:
//   - apperrors.ErrInsufficientHoldings when a SELL exceeds the owned quantity
//   - apperrors.ErrInsufficientFunds when settlement is on and a BUY exceeds the cash balance
//   - apperrors.ErrPriceUnavailable when neither a current nor a historical price resolves
//
// Rejected trades leave the ledger unchanged.
func (s *TradeService) ExecuteTrade(ctx context.Context, req TradeRequest) (model.TransactionRecord, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return model.TransactionRecord{}, apperrors.ErrInvalidSymbol
	}
	if req.Quantity <= 0 {
		return model.TransactionRecord{}, fmt.Errorf("%w: quantity must be positive", apperrors.ErrInvalidQuantity)
	}
	tradeDate := req.Date
	if tradeDate.IsZero() {
		tradeDate = s.now()
	}
	tradeDate = model.TruncateDay(tradeDate)

	// Fail fast before paying for a price lookup. The authoritative check runs under the lock.
	if req.Type == model.TradeSell {
		owned, err := s.ownedQuantity(ctx, s.holdingRepo, symbol)
		if err != nil {
			return model.TransactionRecord{}, err
		}
		if decimal.NewFromInt(req.Quantity).GreaterThan(owned) {
			return model.TransactionRecord{}, fmt.Errorf("%w: cannot sell %d shares of %s, only %s owned",
				apperrors.ErrInsufficientHoldings, req.Quantity, symbol, owned)
		}
	}

	price, err := s.resolvePrice(ctx, symbol, tradeDate)
	if err != nil {
		return model.TransactionRecord{}, err
	}

	t, err := model.NewTransaction(symbol, req.Quantity, price, req.Type, tradeDate, s.metadata(ctx, symbol))
	if err != nil {
		return model.TransactionRecord{}, err
	}

	if err := s.commit(ctx, &t); err != nil {
		return model.TransactionRecord{}, err
	}

	s.log.Info().
		Str("symbol", t.Symbol).
		Str("type", string(t.Type)).
		Int64("quantity", t.Quantity).
		Str("price", t.Price.String()).
		Str("date", t.Date.Format("2006-01-02")).
		Msg("trade executed")

	return model.NewTransactionRecord(t), nil
}

// commit runs the authoritative checks and all writes of a trade under the ledger locks in one transaction.
func (s *TradeService) commit(ctx context.Context, t *model.Transaction) error {
	unlock := s.locks.LockSymbol(t.Symbol, s.opts.CashSettlement)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	holdingRepo := s.holdingRepo.WithTx(tx)

	h, err := holdingRepo.GetHolding(ctx, t.Symbol)
	if errors.Is(err, apperrors.ErrHoldingNotFound) {
		h = model.Holding{Symbol: t.Symbol}
	} else if err != nil {
		return err
	}
	if h.CompanyName == "" || t.CompanyName != t.Symbol {
		h.CompanyName = t.CompanyName
	}
	if t.Sector != "" {
		h.Sector = t.Sector
	}
	if t.Industry != "" {
		h.Industry = t.Industry
	}

	next, err := ledger.Apply(h, *t)
	if err != nil {
		return err
	}

	if s.opts.CashSettlement {
		if err := s.settle(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, t); err != nil {
		return err
	}
	if err := holdingRepo.UpsertHolding(ctx, next); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}
	return nil
}

// settle debits a BUY from or credits a SELL to the cash account.
func (s *TradeService) settle(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	cashRepo := s.cashRepo.WithTx(tx)

	account, err := cashRepo.GetAccount(ctx, model.DefaultCashAccountID)
	if err != nil {
		return err
	}

	amount := t.Total()
	cashType := model.CashSell
	if t.Type == model.TradeBuy {
		if amount.GreaterThan(account.Balance) {
			return fmt.Errorf("%w: trade costs %s, balance is %s",
				apperrors.ErrInsufficientFunds, amount.StringFixed(2), account.Balance.StringFixed(2))
		}
		amount = amount.Neg()
		cashType = model.CashBuy
	}

	if err := cashRepo.UpdateBalance(ctx, account.ID, account.Balance.Add(amount)); err != nil {
		return err
	}
	return cashRepo.InsertCashTransaction(ctx, &model.CashTransaction{
		AccountID: account.ID,
		Type:      cashType,
		Amount:    amount,
		Date:      t.Date,
		Note:      fmt.Sprintf("%s %d %s @ %s", t.Type, t.Quantity, t.Symbol, t.Price.StringFixed(2)),
	})
}

func (s *TradeService) ownedQuantity(ctx context.Context, repo *repository.HoldingRepository, symbol string) (decimal.Decimal, error) {
	h, err := repo.GetHolding(ctx, symbol)
	if errors.Is(err, apperrors.ErrHoldingNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return h.Quantity, nil
}

// resolvePrice tries the current price, then the close of the trading day.
func (s *TradeService) resolvePrice(ctx context.Context, symbol string, tradeDate time.Time) (decimal.Decimal, error) {
	ctx, cancel := withTimeout(ctx, s.opts.OracleTimeout)
	defer cancel()

	price, err := s.oracle.CurrentPrice(ctx, symbol)
	if err == nil && price.IsPositive() {
		return price, nil
	}
	s.log.Debug().Err(err).Str("symbol", symbol).Msg("current price unavailable, trying historical close")

	price, err = s.oracle.HistoricalClose(ctx, symbol, tradeDate, tradeDate.AddDate(0, 0, 1))
	if err == nil && price.IsPositive() {
		return price, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s on %s: %w", apperrors.ErrPriceUnavailable, symbol, tradeDate.Format("2006-01-02"), err)
	}
	return decimal.Zero, fmt.Errorf("%w: %s on %s", apperrors.ErrPriceUnavailable, symbol, tradeDate.Format("2006-01-02"))
}

// metadata falls back to the bare symbol when the oracle has no company data.
func (s *TradeService) metadata(ctx context.Context, symbol string) model.CompanyMetadata {
	ctx, cancel := withTimeout(ctx, s.opts.OracleTimeout)
	defer cancel()

	meta, err := s.oracle.CompanyMetadata(ctx, symbol)
	if err != nil {
		s.log.Debug().Err(err).Str("symbol", symbol).Msg("company metadata unavailable")
		return model.CompanyMetadata{Name: symbol}
	}
	return meta
}
