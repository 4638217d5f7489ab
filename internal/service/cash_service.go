package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// CashService handles deposits, withdrawals and the cash overview.
type CashService struct {
	db       *sql.DB
	cashRepo *repository.CashRepository
	locks    *LedgerLocks
	log      zerolog.Logger
	now      func() time.Time
}

// NewCashService creates a new CashService.
func NewCashService(db *sql.DB, cashRepo *repository.CashRepository, locks *LedgerLocks, log zerolog.Logger) *CashService {
	return &CashService{
		db:       db,
		cashRepo: cashRepo,
		locks:    locks,
		log:      log.With().Str("service", "cash").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddFunds deposits amount into the cash account.
func (s *CashService) AddFunds(ctx context.Context, amount decimal.Decimal) (model.FundsResult, error) {
	if !amount.IsPositive() {
		return model.FundsResult{}, apperrors.ErrNegativeAmount
	}

	ct, balance, err := s.move(ctx, model.CashDeposit, amount, fmt.Sprintf("Funds added: $%s", amount.StringFixed(2)))
	if err != nil {
		return model.FundsResult{}, err
	}

	return model.FundsResult{
		Message:       fmt.Sprintf("Successfully added $%s to account", amount.StringFixed(2)),
		NewBalance:    balance,
		TransactionID: ct.ID,
		Amount:        amount,
	}, nil
}

// WithdrawFunds takes amount out of the cash account.
// Returns apperrors.ErrInsufficientFunds when amount exceeds the balance.
func (s *CashService) WithdrawFunds(ctx context.Context, amount decimal.Decimal) (model.FundsResult, error) {
	if !amount.IsPositive() {
		return model.FundsResult{}, apperrors.ErrNegativeAmount
	}

	ct, balance, err := s.move(ctx, model.CashWithdrawal, amount.Neg(), fmt.Sprintf("Funds withdrawn: $%s", amount.StringFixed(2)))
	if err != nil {
		return model.FundsResult{}, err
	}

	return model.FundsResult{
		Message:       fmt.Sprintf("Successfully withdrew $%s from account", amount.StringFixed(2)),
		NewBalance:    balance,
		TransactionID: ct.ID,
		Amount:        amount,
	}, nil
}

// move applies a signed amount to the balance and records it, atomically.
func (s *CashService) move(ctx context.Context, cashType model.CashTransactionType, amount decimal.Decimal, note string) (model.CashTransaction, decimal.Decimal, error) {
	unlock := s.locks.LockAccount()
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.CashTransaction{}, decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cashRepo := s.cashRepo.WithTx(tx)

	account, err := cashRepo.GetAccount(ctx, model.DefaultCashAccountID)
	if err != nil {
		return model.CashTransaction{}, decimal.Zero, err
	}

	balance := account.Balance.Add(amount)
	if balance.IsNegative() {
		return model.CashTransaction{}, decimal.Zero, fmt.Errorf("%w: balance is %s",
			apperrors.ErrInsufficientFunds, account.Balance.StringFixed(2))
	}

	if err := cashRepo.UpdateBalance(ctx, account.ID, balance); err != nil {
		return model.CashTransaction{}, decimal.Zero, err
	}

	ct := model.CashTransaction{
		AccountID: account.ID,
		Type:      cashType,
		Amount:    amount,
		Date:      model.TruncateDay(s.now()),
		Note:      note,
	}
	if err := cashRepo.InsertCashTransaction(ctx, &ct); err != nil {
		return model.CashTransaction{}, decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return model.CashTransaction{}, decimal.Zero, fmt.Errorf("failed to commit cash movement: %w", err)
	}

	s.log.Info().Str("type", string(cashType)).Str("amount", amount.String()).Str("balance", balance.String()).Msg("cash moved")
	return ct, balance, nil
}

// GetBalance returns the current cash balance.
func (s *CashService) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	account, err := s.cashRepo.GetAccount(ctx, model.DefaultCashAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// GetOverview returns the balance with up to limit movements, newest first.
func (s *CashService) GetOverview(ctx context.Context, limit int) (model.CashOverview, error) {
	balance, err := s.GetBalance(ctx)
	if err != nil {
		return model.CashOverview{}, err
	}
	movements, err := s.cashRepo.GetCashTransactions(ctx, model.DefaultCashAccountID, limit)
	if err != nil {
		return model.CashOverview{}, err
	}
	return model.CashOverview{Balance: balance, Transactions: movements}, nil
}
