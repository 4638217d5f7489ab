package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// TransactionRepository provides data access methods for the append-only transaction table.
// The implicit rowid is exposed as the transaction sequence and breaks ties within a date.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionColumns = `id, rowid, symbol, company_name, sector, industry, quantity, price, type, date, created_at`

// InsertTransaction appends t to the log. ID, Sequence and CreatedAt are assigned here.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	t.ID = uuid.New().String()
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		INSERT INTO "transaction" (id, symbol, company_name, sector, industry, quantity, price, type, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.Symbol,
		t.CompanyName,
		t.Sector,
		t.Industry,
		t.Quantity,
		t.Price.String(),
		string(t.Type),
		formatDate(t.Date),
		formatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if t.Sequence, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read transaction sequence: %w", err)
	}
	return nil
}

// GetTransactions retrieves the full log in replay order (date, sequence).
func (r *TransactionRepository) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	return r.query(ctx, `SELECT `+transactionColumns+` FROM "transaction" ORDER BY date ASC, rowid ASC`)
}

// GetTransactionsBySymbol retrieves the log of one symbol in replay order.
func (r *TransactionRepository) GetTransactionsBySymbol(ctx context.Context, symbol string) ([]model.Transaction, error) {
	return r.query(ctx, `SELECT `+transactionColumns+` FROM "transaction" WHERE symbol = ? ORDER BY date ASC, rowid ASC`, symbol)
}

// GetRecentTransactions retrieves up to limit transactions, newest first. A limit <= 0 returns all.
func (r *TransactionRepository) GetRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.query(ctx, `SELECT `+transactionColumns+` FROM "transaction" ORDER BY date DESC, rowid DESC LIMIT ?`, limit)
}

// GetTransaction retrieves a single transaction by ID.
func (r *TransactionRepository) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	txs, err := r.query(ctx, `SELECT `+transactionColumns+` FROM "transaction" WHERE id = ?`, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if len(txs) == 0 {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	return txs[0], nil
}

// GetFirstTransactionDate returns the earliest trade date, or the zero time for an empty log.
func (r *TransactionRepository) GetFirstTransactionDate(ctx context.Context) (time.Time, error) {
	var first sql.NullString
	err := r.getQuerier().QueryRowContext(ctx, `SELECT MIN(date) FROM "transaction"`).Scan(&first)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("failed to query first transaction date: %w", err)
	}
	if !first.Valid {
		return time.Time{}, nil
	}
	return ParseTime(first.String)
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var (
			t                     model.Transaction
			tradeType             string
			dateStr, createdAtStr string
		)
		err := rows.Scan(
			&t.ID,
			&t.Sequence,
			&t.Symbol,
			&t.CompanyName,
			&t.Sector,
			&t.Industry,
			&t.Quantity,
			&t.Price,
			&tradeType,
			&dateStr,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		t.Type = model.TradeType(tradeType)

		if t.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}
	return transactions, nil
}
