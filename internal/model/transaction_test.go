package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
)

func TestTruncateDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	newYork := time.FixedZone("EST", -5*60*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"utc afternoon", time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"east of utc after local midnight", time.Date(2024, 3, 2, 0, 30, 0, 0, tokyo), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"west of utc before local midnight", time.Date(2024, 3, 1, 22, 0, 0, 0, newYork), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"zero", time.Time{}, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateDay(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("TruncateDay(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !got.IsZero() && got.Location() != time.UTC {
				t.Errorf("TruncateDay(%v) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestNewTransaction(t *testing.T) {
	date := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)

	tx, err := NewTransaction(" abc ", 5, decimal.NewFromInt(10), TradeBuy, date, CompanyMetadata{})
	if err != nil {
		t.Fatalf("NewTransaction() error = %v", err)
	}
	if tx.Symbol != "ABC" || tx.CompanyName != "ABC" {
		t.Errorf("unexpected symbol/name %q/%q", tx.Symbol, tx.CompanyName)
	}
	if !tx.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want 2024-03-01", tx.Date)
	}

	if _, err := NewTransaction("ABC", 0, decimal.NewFromInt(10), TradeBuy, date, CompanyMetadata{}); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := NewTransaction("", 1, decimal.NewFromInt(10), TradeBuy, date, CompanyMetadata{}); !errors.Is(err, apperrors.ErrMissingRequiredField) {
		t.Errorf("expected ErrMissingRequiredField, got %v", err)
	}
}
