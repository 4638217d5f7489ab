package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// CashRepository provides data access methods for cash_account and cash_transaction.
type CashRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCashRepository creates a new CashRepository with the provided database connection.
func NewCashRepository(db *sql.DB) *CashRepository {
	return &CashRepository{db: db}
}

// WithTx returns a new CashRepository scoped to the provided transaction.
func (r *CashRepository) WithTx(tx *sql.Tx) *CashRepository {
	return &CashRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *CashRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetAccount retrieves the cash account.
func (r *CashRepository) GetAccount(ctx context.Context, accountID int64) (model.CashAccount, error) {
	var (
		account   model.CashAccount
		updatedAt sql.NullString
	)
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, balance, updated_at FROM cash_account WHERE id = ?`, accountID,
	).Scan(&account.ID, &account.Balance, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CashAccount{}, apperrors.ErrCashAccountNotFound
	}
	if err != nil {
		return model.CashAccount{}, fmt.Errorf("failed to query cash_account: %w", err)
	}
	if updatedAt.Valid {
		if account.UpdatedAt, err = ParseTime(updatedAt.String); err != nil {
			return model.CashAccount{}, err
		}
	}
	return account, nil
}

// UpdateBalance overwrites the account balance.
func (r *CashRepository) UpdateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE cash_account SET balance = ?, updated_at = ? WHERE id = ?`,
		balance.String(), formatTimestamp(time.Now()), accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrCashAccountNotFound
	}
	return nil
}

// InsertCashTransaction appends a cash movement. ID and CreatedAt are assigned here.
func (r *CashRepository) InsertCashTransaction(ctx context.Context, ct *model.CashTransaction) error {
	ct.ID = uuid.New().String()
	ct.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO cash_transaction (id, account_id, type, amount, date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		ct.ID,
		ct.AccountID,
		string(ct.Type),
		ct.Amount.String(),
		formatDate(ct.Date),
		ct.Note,
		formatTimestamp(ct.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash transaction: %w", err)
	}
	return nil
}

// GetCashTransactions retrieves up to limit movements of the account, newest first. A limit <= 0 returns all.
func (r *CashRepository) GetCashTransactions(ctx context.Context, accountID int64, limit int) ([]model.CashTransaction, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT id, account_id, type, amount, date, note, created_at
		FROM cash_transaction
		WHERE account_id = ?
		ORDER BY date DESC, rowid DESC
		LIMIT ?
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_transaction table: %w", err)
	}
	defer rows.Close()

	movements := []model.CashTransaction{}
	for rows.Next() {
		var (
			ct                    model.CashTransaction
			cashType              string
			dateStr, createdAtStr string
		)
		if err := rows.Scan(&ct.ID, &ct.AccountID, &cashType, &ct.Amount, &dateStr, &ct.Note, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan cash_transaction table results: %w", err)
		}
		ct.Type = model.CashTransactionType(cashType)
		if ct.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if ct.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		movements = append(movements, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_transaction table: %w", err)
	}
	return movements, nil
}
