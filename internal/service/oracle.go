package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// PriceOracle supplies the market data trades and valuations are priced with.
// Implementations must honour ctx cancellation; the services impose the timeouts.
type PriceOracle interface {
	// CurrentPrice returns the latest traded price of symbol.
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	// HistoricalClose returns the first daily close in [from, to).
	HistoricalClose(ctx context.Context, symbol string, from, to time.Time) (decimal.Decimal, error)
	// CompanyMetadata returns the name, sector and industry of symbol.
	CompanyMetadata(ctx context.Context, symbol string) (model.CompanyMetadata, error)
}

// QuoteProvider supplies quotes for the market endpoints and the benchmark series.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
	// DailyCloses returns the daily closes in [from, to), ascending.
	DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]model.ClosePrice, error)
	// Search returns up to limit instruments whose symbol or name matches query.
	Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
