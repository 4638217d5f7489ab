package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownSector labels holdings without sector metadata.
const UnknownSector = "Unknown"

// AssetValuation is the per-holding detail of a snapshot.
type AssetValuation struct {
	Symbol               string          `json:"symbol"`
	Name                 string          `json:"name"`
	Sector               string          `json:"sector"`
	Industry             string          `json:"industry"`
	Quantity             decimal.Decimal `json:"quantity"`
	Price                decimal.Decimal `json:"price"`
	WeightedAveragePrice decimal.Decimal `json:"weightedAveragePrice"`
	CurrentValue         decimal.Decimal `json:"currentValue"`
	CostBasis            decimal.Decimal `json:"costBasis"`
	UnrealizedGain       decimal.Decimal `json:"unrealizedGain"`
	RealizedGain         decimal.Decimal `json:"realizedGain"`
	ChangePercent        decimal.Decimal `json:"changePercent"`
	PriceStale           bool            `json:"priceStale,omitempty"` // valued at cost because no price was available
}

// SectorAllocation is the share of stock value held in one sector.
type SectorAllocation struct {
	Sector     string          `json:"sector"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// HistoryPoint is one day of the synthesized value series.
type HistoryPoint struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Value decimal.Decimal `json:"value"`
}

// MonthlyReturn compares the portfolio month return with the benchmark.
// Benchmark is nil when no benchmark data was available for the month.
type MonthlyReturn struct {
	Month     string           `json:"month"` // YYYY-MM
	Returns   decimal.Decimal  `json:"returns"`
	Benchmark *decimal.Decimal `json:"benchmark"`
}

// ValuationSnapshot is the derived, non-persisted valuation of the portfolio.
// The history series is a linear interpolation and only illustrative.
type ValuationSnapshot struct {
	AsOf               time.Time          `json:"asOf"`
	TotalValue         decimal.Decimal    `json:"totalValue"`
	StockValue         decimal.Decimal    `json:"stockValue"`
	StockCostBasis     decimal.Decimal    `json:"stockCostBasis"`
	CashBalance        decimal.Decimal    `json:"cashBalance"`
	InitialInvestment  decimal.Decimal    `json:"initialInvestment"`
	ProfitLoss         decimal.Decimal    `json:"profitLoss"`
	TotalReturnPercent decimal.Decimal    `json:"totalReturnPercent"`
	RealizedGains      decimal.Decimal    `json:"realizedGains"`
	UnrealizedGains    decimal.Decimal    `json:"unrealizedGains"`
	BestPerformer      *AssetValuation    `json:"bestPerformer"`
	Assets             []AssetValuation   `json:"assets"`
	SectorAllocation   []SectorAllocation `json:"sectorAllocation"`
	History            []HistoryPoint     `json:"history"`
	MonthlyReturns     []MonthlyReturn    `json:"monthlyReturns"`
	Degraded           bool               `json:"degraded"`
}

// FallbackSnapshot is served when the ledger cannot be read.
// Every figure is zero and Degraded is set so clients can tell it apart from an empty ledger.
func FallbackSnapshot(asOf time.Time) ValuationSnapshot {
	return ValuationSnapshot{
		AsOf:             asOf,
		Assets:           []AssetValuation{},
		SectorAllocation: []SectorAllocation{},
		History:          []HistoryPoint{},
		MonthlyReturns:   []MonthlyReturn{},
		Degraded:         true,
	}
}
