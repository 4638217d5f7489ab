package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// Oracle prices symbols from Yahoo Finance charts and describes them from quoteSummary.
type Oracle struct {
	client *FinanceClient
}

// NewOracle returns an Oracle over client.
func NewOracle(client *FinanceClient) *Oracle {
	return &Oracle{client: client}
}

// CurrentPrice returns the regular market price, or the latest close when Yahoo omits it.
func (o *Oracle) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	chart, err := o.recentChart(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	price := latestPrice(chart)
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: no current price for %s", apperrors.ErrPriceUnavailable, symbol)
	}
	return price, nil
}

// HistoricalClose returns the first close in [from, to).
func (o *Oracle) HistoricalClose(ctx context.Context, symbol string, from, to time.Time) (decimal.Decimal, error) {
	closes, err := o.DailyCloses(ctx, symbol, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	if len(closes) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no close for %s between %s and %s",
			apperrors.ErrPriceUnavailable, symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return closes[0].Close, nil
}

// DailyCloses returns the closes in [from, to), ascending.
func (o *Oracle) DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]model.ClosePrice, error) {
	resp, err := o.client.QueryYahooSymbolByDateRange(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	chart, err := o.client.ParseChart(resp)
	if err != nil {
		return nil, err
	}

	closes := make([]model.ClosePrice, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		if ind.Date.Before(from.UTC().Truncate(24*time.Hour)) || !ind.Date.Before(to) {
			continue
		}
		closes = append(closes, model.ClosePrice{Date: ind.Date, Close: decimal.NewFromFloat(ind.PriceClose)})
	}
	return closes, nil
}

// CompanyMetadata returns the long name, sector and industry of symbol.
// When quoteSummary is unavailable the chart metadata supplies the name only.
func (o *Oracle) CompanyMetadata(ctx context.Context, symbol string) (model.CompanyMetadata, error) {
	summary, err := o.client.QueryYahooSummary(ctx, symbol)
	if err == nil {
		meta := model.CompanyMetadata{}
		if summary.Price != nil {
			meta.Name = firstNonEmpty(summary.Price.LongName, summary.Price.ShortName)
		}
		if summary.AssetProfile != nil {
			meta.Sector = summary.AssetProfile.Sector
			meta.Industry = summary.AssetProfile.Industry
		}
		if meta.Name != "" {
			return meta, nil
		}
	}

	chart, chartErr := o.recentChart(ctx, symbol)
	if chartErr != nil {
		if err != nil {
			return model.CompanyMetadata{}, err
		}
		return model.CompanyMetadata{}, chartErr
	}
	return model.CompanyMetadata{Name: firstNonEmpty(chart.LongName, chart.Shortname, symbol)}, nil
}

// Quote returns the latest quote of symbol with the change against the previous close.
func (o *Oracle) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	chart, err := o.recentChart(ctx, symbol)
	if err != nil {
		return model.Quote{}, err
	}

	price := latestPrice(chart)
	previous := previousClose(chart)
	change := price.Sub(previous)
	changePercent := decimal.Zero
	if previous.IsPositive() {
		changePercent = change.Div(previous).Mul(decimal.NewFromInt(100))
	}

	quote := model.Quote{
		Symbol:        firstNonEmpty(chart.Symbol, strings.ToUpper(symbol)),
		Name:          firstNonEmpty(chart.LongName, chart.Shortname, symbol),
		Currency:      chart.Currency,
		Exchange:      firstNonEmpty(chart.FullExchangeName, chart.ExchangeName),
		Price:         price.Round(2),
		PreviousClose: previous.Round(2),
		Change:        change.Round(2),
		ChangePercent: changePercent.Round(2),
		AsOf:          time.Now().UTC(),
	}

	if summary, err := o.client.QueryYahooSummary(ctx, symbol); err == nil && summary.AssetProfile != nil {
		quote.Sector = summary.AssetProfile.Sector
		quote.Industry = summary.AssetProfile.Industry
	}
	return quote, nil
}

// Search returns up to limit instruments matching query, skipping entries without a symbol.
func (o *Oracle) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	resp, err := o.client.QueryYahooSearch(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		results = append(results, model.SearchResult{
			Symbol:   q.Symbol,
			Name:     firstNonEmpty(q.Longname, q.Shortname, q.Symbol),
			Exchange: firstNonEmpty(q.ExchDisp, q.Exchange),
			Type:     q.QuoteType,
		})
	}
	return results, nil
}

func (o *Oracle) recentChart(ctx context.Context, symbol string) (PriceChart, error) {
	resp, err := o.client.QueryYahooFiveDaySymbol(ctx, symbol)
	if err != nil {
		return PriceChart{}, err
	}
	return o.client.ParseChart(resp)
}

func latestPrice(chart PriceChart) decimal.Decimal {
	if chart.RegularMarketPrice > 0 {
		return decimal.NewFromFloat(chart.RegularMarketPrice)
	}
	if n := len(chart.Indicators); n > 0 {
		return decimal.NewFromFloat(chart.Indicators[n-1].PriceClose)
	}
	return decimal.Zero
}

// previousClose prefers Yahoo's own value, then the close before the latest session.
func previousClose(chart PriceChart) decimal.Decimal {
	if chart.PreviousClose > 0 {
		return decimal.NewFromFloat(chart.PreviousClose)
	}
	if n := len(chart.Indicators); n > 1 {
		return decimal.NewFromFloat(chart.Indicators[n-2].PriceClose)
	}
	return decimal.Zero
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
