package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// symbolPattern accepts tickers like AAPL, BRK.B, RDS-A and index symbols like ^GSPC.
var symbolPattern = regexp.MustCompile(`^\^?[A-Za-z0-9][A-Za-z0-9.\-=]{0,15}$`)

// ValidateSymbol checks a ticker symbol.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(strings.TrimSpace(symbol)) {
		return &Error{Fields: map[string]string{"symbol": fmt.Sprintf("invalid symbol: %q", symbol)}}
	}
	return nil
}

// ValidateTrade validates a trade request and returns its parsed side and date.
// A missing date yields the zero time, which the trade executor treats as today.
//
// Required fields:
//   - symbol: ticker symbol
//   - quantity: positive whole number of shares
//   - type: buy or sell, in any case
func ValidateTrade(req request.TradeRequest) (model.TradeType, time.Time, error) {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	} else if !symbolPattern.MatchString(strings.TrimSpace(req.Symbol)) {
		errors["symbol"] = fmt.Sprintf("invalid symbol: %q", req.Symbol)
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be a positive integer"
	}

	tradeType, err := model.ParseTradeType(req.Type)
	if err != nil {
		errors["type"] = "type must be BUY or SELL"
	}

	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		if date, err = ParseTime(req.Date); err != nil {
			errors["date"] = err.Error()
		} else if date.After(time.Now().UTC()) {
			errors["date"] = "date cannot be in the future"
		}
	}

	if len(errors) > 0 {
		return "", time.Time{}, &Error{Fields: errors}
	}
	return tradeType, date, nil
}

// ValidateFunds validates a deposit or withdrawal request.
func ValidateFunds(req request.FundsRequest) error {
	if !req.Amount.IsPositive() {
		return &Error{Fields: map[string]string{"amount": "amount must be positive"}}
	}
	if !req.Amount.Equal(req.Amount.Truncate(2)) {
		return &Error{Fields: map[string]string{"amount": "amount cannot have more than 2 decimal places"}}
	}
	return nil
}
