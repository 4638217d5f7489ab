package request

import "github.com/shopspring/decimal"

// TradeRequest is the body of POST /api/trade. Date is optional (YYYY-MM-DD, defaults to today).
type TradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	Type     string `json:"type"`
	Date     string `json:"date,omitempty"`
}

// FundsRequest is the body of POST /api/add-funds and POST /api/withdraw-funds.
// Amount accepts a JSON number or a quoted decimal string.
type FundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
