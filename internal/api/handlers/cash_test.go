package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func TestCashHandler(t *testing.T) {
	setupHandler := func(t *testing.T) *CashHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		return NewCashHandler(testutil.NewTestLedger(t, db, testutil.NewMockPriceOracle()).Cash)
	}

	t.Run("add funds accepts number and string amounts", func(t *testing.T) {
		handler := setupHandler(t)

		for _, body := range []string{`{"amount": 100}`, `{"amount": "50.25"}`} {
			w := httptest.NewRecorder()
			handler.AddFunds(w, testutil.NewJSONRequest(http.MethodPost, "/api/add-funds", body))
			if w.Code != http.StatusOK {
				t.Fatalf("body %s: expected 200, got %d: %s", body, w.Code, w.Body.String())
			}
		}

		w := httptest.NewRecorder()
		handler.Overview(w, httptest.NewRequest(http.MethodGet, "/api/cash", nil))

		var overview model.CashOverview
		if err := json.NewDecoder(w.Body).Decode(&overview); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !overview.Balance.Equal(decimal.RequireFromString("150.25")) {
			t.Errorf("Expected balance 150.25, got %s", overview.Balance)
		}
		if len(overview.Transactions) != 2 {
			t.Errorf("Expected 2 movements, got %d", len(overview.Transactions))
		}
	})

	t.Run("add funds returns result message", func(t *testing.T) {
		handler := setupHandler(t)

		w := httptest.NewRecorder()
		handler.AddFunds(w, testutil.NewJSONRequest(http.MethodPost, "/api/add-funds", `{"amount": "1000"}`))

		var result model.FundsResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)
		if result.Message != "Successfully added $1000.00 to account" {
			t.Errorf("Unexpected message %q", result.Message)
		}
	})

	t.Run("rejects invalid amounts", func(t *testing.T) {
		handler := setupHandler(t)

		for _, body := range []string{`{"amount": 0}`, `{"amount": -5}`, `{"amount": "1.234"}`, `{}`, `[]`} {
			w := httptest.NewRecorder()
			handler.AddFunds(w, testutil.NewJSONRequest(http.MethodPost, "/api/add-funds", body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("body %s: expected 400, got %d", body, w.Code)
			}
		}
	})

	t.Run("withdraw beyond balance returns 409", func(t *testing.T) {
		handler := setupHandler(t)

		w := httptest.NewRecorder()
		handler.WithdrawFunds(w, testutil.NewJSONRequest(http.MethodPost, "/api/withdraw-funds", `{"amount": 1}`))

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("overview rejects invalid limit", func(t *testing.T) {
		handler := setupHandler(t)

		w := httptest.NewRecorder()
		handler.Overview(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/cash", map[string]string{"limit": "-1"}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
