package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
)

// DefaultBaseURL is the Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
// It wraps an HTTP client and provides convenient methods for querying stock prices
// and related financial data.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client against DefaultBaseURL.
func NewFinanceClient(httpClient *http.Client) *FinanceClient {
	return NewFinanceClientWithBaseURL(httpClient, DefaultBaseURL)
}

// NewFinanceClientWithBaseURL creates a client against another host, such as an httptest server.
func NewFinanceClientWithBaseURL(httpClient *http.Client, baseURL string) *FinanceClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &FinanceClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
// Sessions without a close price are skipped.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no chart results", apperrors.ErrSymbolNotFound)
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}

	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicators, 0, len(result.Timestamp))
	for i, v := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}
		ts := time.Unix(v, 0).UTC()
		indicators = append(indicators, Indicators{
			Date:       time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			PriceOpen:  floatAt(quote.Open, i),
			PriceClose: *quote.Close[i],
			Volume:     intAt(quote.Volume, i),
			PriceHigh:  floatAt(quote.High, i),
			PriceLow:   floatAt(quote.Low, i),
		})
	}

	return PriceChart{
		Symbol:             result.Meta.Symbol,
		Currency:           result.Meta.Currency,
		ExchangeName:       result.Meta.ExchangeName,
		FullExchangeName:   result.Meta.FullExchangeName,
		LongName:           result.Meta.LongName,
		Shortname:          result.Meta.Shortname,
		RegularMarketPrice: result.Meta.RegularMarketPrice,
		PreviousClose:      result.Meta.PreviousClose,
		Indicators:         indicators,
	}, nil
}

func floatAt(values []*float64, i int) float64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}

func intAt(values []*int64, i int) int64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}

// GetIndicatorForDate searches for price data matching a specific date.
// The method performs date-only comparison by truncating both the target and
// indicator dates to midnight UTC, ignoring time components.
func (c PriceChart) GetIndicatorForDate(target time.Time) (Indicators, bool) {
	targetDay := target.UTC().Truncate(24 * time.Hour)
	for _, ind := range c.Indicators {
		if ind.Date.UTC().Truncate(24 * time.Hour).Equal(targetDay) {
			return ind, true
		}
	}
	return Indicators{}, false
}

// QueryYahooFiveDaySymbol fetches the last 5 days of daily price data for a symbol.
// The meta block of the response carries the regular market price.
func (c *FinanceClient) QueryYahooFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	return c.queryChart(ctx, symbol, endpoint)
}

// QueryYahooSymbolByDateRange fetches daily price data for a symbol between startDate and endDate.
func (c *FinanceClient) QueryYahooSymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		url.PathEscape(symbol),
		startDate.Unix(),
		endDate.Unix(),
	)
	return c.queryChart(ctx, symbol, endpoint)
}

// QueryYahooSummary fetches the assetProfile and price modules of a symbol.
func (c *FinanceClient) QueryYahooSummary(ctx context.Context, symbol string) (SummaryResult, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile,price", c.baseURL, url.PathEscape(symbol))

	var response SummaryResponse
	if err := c.queryYahoo(ctx, endpoint, &response); err != nil {
		return SummaryResult{}, err
	}
	if response.QuoteSummary.Error != nil {
		return SummaryResult{}, fmt.Errorf("yahoo error: %w", response.QuoteSummary.Error)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return SummaryResult{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return response.QuoteSummary.Result[0], nil
}

// QueryYahooSearch looks up instruments matching query, returning at most limit quotes.
func (c *FinanceClient) QueryYahooSearch(ctx context.Context, query string, limit int) (SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", fmt.Sprint(limit))
	params.Set("newsCount", "0")
	endpoint := fmt.Sprintf("%s/v1/finance/search?%s", c.baseURL, params.Encode())

	var response SearchResponse
	if err := c.queryYahoo(ctx, endpoint, &response); err != nil {
		return SearchResponse{}, err
	}
	return response, nil
}

func (c *FinanceClient) queryChart(ctx context.Context, symbol, endpoint string) (Response, error) {
	var response Response
	if err := c.queryYahoo(ctx, endpoint, &response); err != nil {
		return Response{}, err
	}
	if response.Chart.Error != nil {
		if response.Chart.Error.Code == "Not Found" {
			return Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
		}
		return Response{}, fmt.Errorf("yahoo error: %w", response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return response, nil
}

// queryYahoo executes a GET against Yahoo and decodes the JSON body into out.
// Error bodies are decoded too, since Yahoo reports unknown symbols as a 404 with a JSON error.
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("yahoo returned status %d", resp.StatusCode)
		}
		return err
	}
	return nil
}
