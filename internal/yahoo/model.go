package yahoo

import "time"

// Response represents the raw JSON response of the Yahoo Finance chart API.
// Price arrays hold pointers because Yahoo reports missing sessions as null.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the envelope of a chart response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns in place of results.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Description
}

// Result is one symbol of a chart response.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta carries the symbol metadata of a chart response.
type Meta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	FullExchangeName   string  `json:"fullExchangeName"`
	LongName           string  `json:"longName"`
	Shortname          string  `json:"shortName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	PreviousClose      float64 `json:"previousClose"`
}

// IndicatorsContainer wraps the OHLCV arrays.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds the OHLCV arrays of a chart, index-aligned with Result.Timestamp.
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart is a parsed chart: symbol metadata plus one Indicators entry per session with a close.
type PriceChart struct {
	Currency           string       `json:"currency"`
	Symbol             string       `json:"symbol"`
	ExchangeName       string       `json:"exchangeName"`
	FullExchangeName   string       `json:"fullExchangeName"`
	LongName           string       `json:"longName"`
	Shortname          string       `json:"shortName"`
	RegularMarketPrice float64      `json:"regularMarketPrice"`
	PreviousClose      float64      `json:"previousClose"`
	Indicators         []Indicators `json:"indicators"`
}

// Indicators represents a single day's price data.
// Date is the session date at midnight UTC.
type Indicators struct {
	Date       time.Time
	PriceOpen  float64
	PriceClose float64
	Volume     int64
	PriceHigh  float64
	PriceLow   float64
}

// SummaryResponse represents the raw JSON of the quoteSummary API for the assetProfile and price modules.
type SummaryResponse struct {
	QuoteSummary struct {
		Result []SummaryResult `json:"result"`
		Error  *Error          `json:"error"`
	} `json:"quoteSummary"`
}

// SummaryResult is one symbol of a quoteSummary response.
type SummaryResult struct {
	AssetProfile *AssetProfile `json:"assetProfile"`
	Price        *SummaryPrice `json:"price"`
}

// AssetProfile is the company profile module.
type AssetProfile struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// SummaryPrice is the price module.
type SummaryPrice struct {
	LongName           string   `json:"longName"`
	ShortName          string   `json:"shortName"`
	Currency           string   `json:"currency"`
	ExchangeName       string   `json:"exchangeName"`
	RegularMarketPrice RawValue `json:"regularMarketPrice"`
}

// RawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number encoding.
type RawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// SearchResponse is the body of the v1 search endpoint.
type SearchResponse struct {
	Quotes []SearchQuote `json:"quotes"`
}

// SearchQuote is one instrument of a search response.
type SearchQuote struct {
	Symbol    string `json:"symbol"`
	Shortname string `json:"shortname"`
	Longname  string `json:"longname"`
	Exchange  string `json:"exchange"`
	ExchDisp  string `json:"exchDisp"`
	QuoteType string `json:"quoteType"`
}
