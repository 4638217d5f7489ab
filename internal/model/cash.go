package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCashAccountID is the single account of the portfolio.
const DefaultCashAccountID int64 = 1

// CashTransactionType classifies movements of the cash account.
type CashTransactionType string

// Cash movement types. BUY and SELL are trade settlements.
const (
	CashDeposit    CashTransactionType = "DEPOSIT"
	CashWithdrawal CashTransactionType = "WITHDRAWAL"
	CashBuy        CashTransactionType = "BUY"
	CashSell       CashTransactionType = "SELL"
)

// CashAccount holds the balance of the portfolio account.
type CashAccount struct {
	ID        int64           `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CashTransaction is an append-only movement of the cash account.
// Amount is signed: deposits and sale proceeds are positive.
type CashTransaction struct {
	ID        string              `json:"id"`
	AccountID int64               `json:"accountId"`
	Type      CashTransactionType `json:"type"`
	Amount    decimal.Decimal     `json:"amount"`
	Date      time.Time           `json:"date"`
	Note      string              `json:"note"`
	CreatedAt time.Time           `json:"createdAt"`
}

// FundsResult is returned by deposits and withdrawals.
type FundsResult struct {
	Message       string          `json:"message"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}

// CashOverview is the balance with its movement log, newest first.
type CashOverview struct {
	Balance      decimal.Decimal   `json:"balance"`
	Transactions []CashTransaction `json:"transactions"`
}
