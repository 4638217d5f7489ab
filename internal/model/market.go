package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest market data of a symbol.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Exchange      string          `json:"exchange"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Sector        string          `json:"sector,omitempty"`
	Industry      string          `json:"industry,omitempty"`
	AsOf          time.Time       `json:"asOf"`
}

// MarketMover is the day move of a market index.
type MarketMover struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Value         decimal.Decimal `json:"value"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

// SearchResult is one symbol matching a search query.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// ClosePrice is one daily close.
type ClosePrice struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}
