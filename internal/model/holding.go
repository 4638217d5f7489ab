package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
)

// Holding is the current net position in one symbol.
// Quantity is the signed sum of all trades; WeightedAveragePrice only moves on BUY.
type Holding struct {
	Symbol               string          `json:"symbol"`
	CompanyName          string          `json:"companyName"`
	Sector               string          `json:"sector"`
	Industry             string          `json:"industry"`
	Quantity             decimal.Decimal `json:"quantity"`
	WeightedAveragePrice decimal.Decimal `json:"weightedAveragePrice"`
	Version              int64           `json:"-"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// Validate checks the fields read back from the store.
func (h Holding) Validate() error {
	if h.Symbol == "" {
		return fmt.Errorf("%w: symbol", apperrors.ErrMissingRequiredField)
	}
	if h.WeightedAveragePrice.IsNegative() {
		return fmt.Errorf("%w: weighted average price of %s is negative", apperrors.ErrDataInconsistency, h.Symbol)
	}
	return nil
}

// CostBasis returns WeightedAveragePrice * Quantity.
func (h Holding) CostBasis() decimal.Decimal {
	return h.WeightedAveragePrice.Mul(h.Quantity)
}

// CompanyMetadata is the descriptive data a price source knows about a symbol.
type CompanyMetadata struct {
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}
