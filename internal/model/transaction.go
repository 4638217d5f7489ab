package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
)

// TradeType is the side of a trade.
type TradeType string

// Trade sides as persisted in the transaction table.
const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// ParseTradeType accepts "buy"/"sell" in any case.
func ParseTradeType(s string) (TradeType, error) {
	switch TradeType(strings.ToUpper(strings.TrimSpace(s))) {
	case TradeBuy:
		return TradeBuy, nil
	case TradeSell:
		return TradeSell, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidTradeType, s)
}

// Sign returns +1 for BUY and -1 for SELL.
func (t TradeType) Sign() int64 {
	if t == TradeSell {
		return -1
	}
	return 1
}

// Transaction is one immutable entry of the trade log.
// Company fields are a snapshot of the metadata known at trade time.
type Transaction struct {
	ID          string          `json:"id"`
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	Sector      string          `json:"sector"`
	Industry    string          `json:"industry"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Type        TradeType       `json:"type"`
	Date        time.Time       `json:"date"`
	Sequence    int64           `json:"sequence"` // insertion order, tie-breaker within a date
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewTransaction builds a transaction and validates it. The ID and sequence are assigned by the store.
func NewTransaction(symbol string, quantity int64, price decimal.Decimal, tradeType TradeType, date time.Time, meta CompanyMetadata) (Transaction, error) {
	t := Transaction{
		Symbol:      strings.ToUpper(strings.TrimSpace(symbol)),
		CompanyName: meta.Name,
		Sector:      meta.Sector,
		Industry:    meta.Industry,
		Quantity:    quantity,
		Price:       price,
		Type:        tradeType,
		Date:        TruncateDay(date),
	}
	if t.CompanyName == "" {
		t.CompanyName = t.Symbol
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// Validate checks the required fields of a transaction row.
func (t Transaction) Validate() error {
	switch {
	case t.Symbol == "":
		return fmt.Errorf("%w: symbol", apperrors.ErrMissingRequiredField)
	case t.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive, got %d", apperrors.ErrInvalidQuantity, t.Quantity)
	case !t.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive, got %s", apperrors.ErrInvalidPrice, t.Price)
	case t.Type != TradeBuy && t.Type != TradeSell:
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidTradeType, t.Type)
	case t.Date.IsZero():
		return fmt.Errorf("%w: date", apperrors.ErrMissingRequiredField)
	}
	return nil
}

// Total returns quantity * price.
func (t Transaction) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// TransactionRecord is the API view of an executed trade.
type TransactionRecord struct {
	Transaction
	Total decimal.Decimal `json:"total"`
}

// NewTransactionRecord wraps a transaction with its rounded total.
func NewTransactionRecord(t Transaction) TransactionRecord {
	return TransactionRecord{Transaction: t, Total: t.Total().Round(2)}
}

// TruncateDay drops the time of day, keeping the UTC calendar date of t.
func TruncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
