package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const holdingColumns = `symbol, company_name, sector, industry, quantity, weighted_average_price, version, updated_at`

// GetHoldings retrieves every holding ordered by symbol, including positions closed to zero.
func (r *HoldingRepository) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT `+holdingColumns+` FROM holding ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}
	return holdings, nil
}

// GetHolding retrieves the holding of one symbol.
// Returns apperrors.ErrHoldingNotFound when the symbol was never bought.
func (r *HoldingRepository) GetHolding(ctx context.Context, symbol string) (model.Holding, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+holdingColumns+` FROM holding WHERE symbol = ?`, symbol)
	h, err := scanHolding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	return h, err
}

// UpsertHolding writes the holding and bumps its version.
// When the row already exists the company metadata is only replaced by non-empty values.
func (r *HoldingRepository) UpsertHolding(ctx context.Context, h model.Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO holding (symbol, company_name, sector, industry, quantity, weighted_average_price, version, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			company_name = CASE WHEN excluded.company_name != '' THEN excluded.company_name ELSE holding.company_name END,
			sector = CASE WHEN excluded.sector != '' THEN excluded.sector ELSE holding.sector END,
			industry = CASE WHEN excluded.industry != '' THEN excluded.industry ELSE holding.industry END,
			quantity = excluded.quantity,
			weighted_average_price = excluded.weighted_average_price,
			version = holding.version + 1,
			updated_at = excluded.updated_at
	`
	_, err := r.getQuerier().ExecContext(ctx, query,
		h.Symbol,
		h.CompanyName,
		h.Sector,
		h.Industry,
		h.Quantity.String(),
		h.WeightedAveragePrice.String(),
		formatTimestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert holding %s: %w", h.Symbol, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(s rowScanner) (model.Holding, error) {
	var (
		h         model.Holding
		updatedAt sql.NullString
	)
	err := s.Scan(
		&h.Symbol,
		&h.CompanyName,
		&h.Sector,
		&h.Industry,
		&h.Quantity,
		&h.WeightedAveragePrice,
		&h.Version,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, err
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding table results: %w", err)
	}
	if updatedAt.Valid {
		if h.UpdatedAt, err = ParseTime(updatedAt.String); err != nil {
			return model.Holding{}, err
		}
	}
	if err := h.Validate(); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}
