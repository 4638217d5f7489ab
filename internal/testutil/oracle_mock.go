package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// MockPriceOracle is an in-memory service.PriceOracle.
// Unknown symbols fail with apperrors.ErrSymbolNotFound. Safe for concurrent use.
type MockPriceOracle struct {
	mu         sync.Mutex
	prices     map[string]decimal.Decimal
	closes     map[string]decimal.Decimal
	metadata   map[string]model.CompanyMetadata
	priceErr   error
	priceCalls int
}

// NewMockPriceOracle creates an empty mock oracle.
func NewMockPriceOracle() *MockPriceOracle {
	return &MockPriceOracle{
		prices:   make(map[string]decimal.Decimal),
		closes:   make(map[string]decimal.Decimal),
		metadata: make(map[string]model.CompanyMetadata),
	}
}

// WithPrice sets the current price of symbol.
func (m *MockPriceOracle) WithPrice(symbol, price string) *MockPriceOracle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = decimal.RequireFromString(price)
	return m
}

// WithHistoricalClose sets the close HistoricalClose returns for symbol, whatever the dates.
func (m *MockPriceOracle) WithHistoricalClose(symbol, price string) *MockPriceOracle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes[symbol] = decimal.RequireFromString(price)
	return m
}

// WithMetadata sets the company metadata of symbol.
func (m *MockPriceOracle) WithMetadata(symbol string, meta model.CompanyMetadata) *MockPriceOracle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[symbol] = meta
	return m
}

// WithPriceError makes every CurrentPrice call fail with err.
func (m *MockPriceOracle) WithPriceError(err error) *MockPriceOracle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceErr = err
	return m
}

// PriceCalls returns how many times CurrentPrice was called.
func (m *MockPriceOracle) PriceCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.priceCalls
}

// CurrentPrice implements service.PriceOracle.
func (m *MockPriceOracle) CurrentPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceCalls++
	if m.priceErr != nil {
		return decimal.Zero, m.priceErr
	}
	price, ok := m.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return price, nil
}

// HistoricalClose implements service.PriceOracle.
func (m *MockPriceOracle) HistoricalClose(_ context.Context, symbol string, _, _ time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	price, ok := m.closes[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no close for %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return price, nil
}

// CompanyMetadata implements service.PriceOracle.
func (m *MockPriceOracle) CompanyMetadata(_ context.Context, symbol string) (model.CompanyMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.metadata[symbol]
	if !ok {
		return model.CompanyMetadata{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return meta, nil
}

// MockQuoteProvider is an in-memory service.QuoteProvider.
type MockQuoteProvider struct {
	mu     sync.Mutex
	quotes map[string]model.Quote
	errs   map[string]error
	closes map[string][]model.ClosePrice
}

// NewMockQuoteProvider creates an empty mock quote provider.
func NewMockQuoteProvider() *MockQuoteProvider {
	return &MockQuoteProvider{
		quotes: make(map[string]model.Quote),
		errs:   make(map[string]error),
		closes: make(map[string][]model.ClosePrice),
	}
}

// WithQuote registers a quote with the given price and change percent.
func (m *MockQuoteProvider) WithQuote(symbol, name, price, changePercent string) *MockQuoteProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = model.Quote{
		Symbol:        symbol,
		Name:          name,
		Currency:      "USD",
		Price:         decimal.RequireFromString(price),
		ChangePercent: decimal.RequireFromString(changePercent),
	}
	return m
}

// WithError makes lookups of symbol fail with err.
func (m *MockQuoteProvider) WithError(symbol string, err error) *MockQuoteProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[symbol] = err
	return m
}

// WithCloses sets the daily closes of symbol.
func (m *MockQuoteProvider) WithCloses(symbol string, closes []model.ClosePrice) *MockQuoteProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes[symbol] = closes
	return m
}

// Quote implements service.QuoteProvider.
func (m *MockQuoteProvider) Quote(_ context.Context, symbol string) (model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[symbol]; err != nil {
		return model.Quote{}, err
	}
	q, ok := m.quotes[symbol]
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return q, nil
}

// Search implements service.QuoteProvider by matching registered quotes on a
// case-insensitive symbol or name substring, in symbol order.
func (m *MockQuoteProvider) Search(_ context.Context, query string, limit int) ([]model.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[query]; err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	results := []model.SearchResult{}
	for _, quote := range m.quotes {
		if strings.Contains(strings.ToLower(quote.Symbol), q) || strings.Contains(strings.ToLower(quote.Name), q) {
			results = append(results, model.SearchResult{Symbol: quote.Symbol, Name: quote.Name, Exchange: quote.Exchange, Type: "EQUITY"})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Symbol < results[j].Symbol })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DailyCloses implements service.QuoteProvider.
func (m *MockQuoteProvider) DailyCloses(_ context.Context, symbol string, from, to time.Time) ([]model.ClosePrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[symbol]; err != nil {
		return nil, err
	}
	var out []model.ClosePrice
	for _, c := range m.closes[symbol] {
		if !c.Date.Before(from) && c.Date.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}
