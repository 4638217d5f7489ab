package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	// Simple creation with defaults (10 shares at 100)
//	holding := testutil.NewHolding().Build(t, db)
//
//	// Customized holding
//	holding := testutil.NewHolding().
//	    WithSymbol("MSFT").
//	    WithQuantity(5).
//	    WithAveragePrice("250.50").
//	    WithSector("Technology").
//	    Build(t, db)
type HoldingBuilder struct {
	Symbol               string
	CompanyName          string
	Sector               string
	Industry             string
	Quantity             decimal.Decimal
	WeightedAveragePrice decimal.Decimal
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding() *HoldingBuilder {
	symbol := MakeSymbol("TST")
	return &HoldingBuilder{
		Symbol:               symbol,
		CompanyName:          MakeCompanyName(symbol),
		Sector:               "Technology",
		Industry:             "Software",
		Quantity:             decimal.NewFromInt(10),
		WeightedAveragePrice: decimal.NewFromInt(100),
	}
}

// WithSymbol sets a custom symbol.
func (b *HoldingBuilder) WithSymbol(symbol string) *HoldingBuilder {
	b.Symbol = symbol
	return b
}

// WithQuantity sets the share count.
func (b *HoldingBuilder) WithQuantity(quantity int64) *HoldingBuilder {
	b.Quantity = decimal.NewFromInt(quantity)
	return b
}

// WithAveragePrice sets the weighted average price from a decimal string.
func (b *HoldingBuilder) WithAveragePrice(price string) *HoldingBuilder {
	b.WeightedAveragePrice = decimal.RequireFromString(price)
	return b
}

// WithSector sets the sector. An empty sector is reported as Unknown in valuations.
func (b *HoldingBuilder) WithSector(sector string) *HoldingBuilder {
	b.Sector = sector
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	h := model.Holding{
		Symbol:               b.Symbol,
		CompanyName:          b.CompanyName,
		Sector:               b.Sector,
		Industry:             b.Industry,
		Quantity:             b.Quantity,
		WeightedAveragePrice: b.WeightedAveragePrice,
	}
	if err := repository.NewHoldingRepository(db).UpsertHolding(context.Background(), h); err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return h
}

// TransactionBuilder provides a fluent interface for creating trade log entries.
// It writes the log row only; holdings are not updated.
//
// Example usage:
//
//	tx := testutil.NewTransaction("AAPL").
//	    WithType(model.TradeSell).
//	    WithQuantity(3).
//	    WithPrice("120").
//	    WithDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type TransactionBuilder struct {
	Symbol   string
	Quantity int64
	Price    decimal.Decimal
	Type     model.TradeType
	Date     time.Time
}

// NewTransaction creates a TransactionBuilder for a BUY of 10 shares at 100 on 2024-01-15.
func NewTransaction(symbol string) *TransactionBuilder {
	return &TransactionBuilder{
		Symbol:   symbol,
		Quantity: 10,
		Price:    decimal.NewFromInt(100),
		Type:     model.TradeBuy,
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

// WithType sets the trade side.
func (b *TransactionBuilder) WithType(tradeType model.TradeType) *TransactionBuilder {
	b.Type = tradeType
	return b
}

// WithQuantity sets the share count.
func (b *TransactionBuilder) WithQuantity(quantity int64) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the execution price from a decimal string.
func (b *TransactionBuilder) WithPrice(price string) *TransactionBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

// WithDate sets the trade date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	return b
}

// Build inserts the transaction and returns it with its id and sequence.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	tx, err := model.NewTransaction(b.Symbol, b.Quantity, b.Price, b.Type, b.Date, model.CompanyMetadata{})
	if err != nil {
		t.Fatalf("Invalid test transaction: %v", err)
	}
	if err := repository.NewTransactionRepository(db).InsertTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return tx
}

// CashDepositBuilder funds the default cash account.
//
// Example usage:
//
//	testutil.NewCashDeposit("25000").Build(t, db)
type CashDepositBuilder struct {
	Amount decimal.Decimal
	Note   string
}

// NewCashDeposit creates a CashDepositBuilder for the given amount.
func NewCashDeposit(amount string) *CashDepositBuilder {
	return &CashDepositBuilder{
		Amount: decimal.RequireFromString(amount),
		Note:   "test deposit",
	}
}

// Build records the deposit and raises the balance by Amount.
func (b *CashDepositBuilder) Build(t *testing.T, db *sql.DB) model.CashTransaction {
	t.Helper()

	ctx := context.Background()
	repo := repository.NewCashRepository(db)

	account, err := repo.GetAccount(ctx, model.DefaultCashAccountID)
	if err != nil {
		t.Fatalf("Failed to read cash account: %v", err)
	}
	if err := repo.UpdateBalance(ctx, account.ID, account.Balance.Add(b.Amount)); err != nil {
		t.Fatalf("Failed to update cash balance: %v", err)
	}

	ct := model.CashTransaction{
		AccountID: account.ID,
		Type:      model.CashDeposit,
		Amount:    b.Amount,
		Date:      model.TruncateDay(time.Now().UTC()),
		Note:      b.Note,
	}
	if err := repo.InsertCashTransaction(ctx, &ct); err != nil {
		t.Fatalf("Failed to create test cash transaction: %v", err)
	}

	return ct
}
