package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func TestTradeHandler_ExecuteTrade(t *testing.T) {
	setupHandler := func(t *testing.T, cash string) *TradeHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		if cash != "" {
			testutil.NewCashDeposit(cash).Build(t, db)
		}
		testutil.NewHolding().WithSymbol("HELD").WithQuantity(5).Build(t, db)
		oracle := testutil.NewMockPriceOracle().
			WithPrice("ABC", "100").
			WithPrice("HELD", "20")
		return NewTradeHandler(testutil.NewTestLedger(t, db, oracle).Trade)
	}

	t.Run("buy returns 201 with message", func(t *testing.T) {
		handler := setupHandler(t, "5000")

		req := testutil.NewJSONRequest(http.MethodPost, "/api/trade", `{"symbol":"abc","quantity":10,"type":"buy"}`)
		w := httptest.NewRecorder()

		handler.ExecuteTrade(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp TradeResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Message != "Successfully bought 10 shares of ABC" {
			t.Errorf("Unexpected message %q", resp.Message)
		}
		if resp.Transaction.ID == "" {
			t.Error("Expected transaction id")
		}
	})

	t.Run("sell returns sold message", func(t *testing.T) {
		handler := setupHandler(t, "")

		req := testutil.NewJSONRequest(http.MethodPost, "/api/trade", `{"symbol":"HELD","quantity":2,"type":"SELL"}`)
		w := httptest.NewRecorder()

		handler.ExecuteTrade(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var resp TradeResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Message != "Successfully sold 2 shares of HELD" {
			t.Errorf("Unexpected message %q", resp.Message)
		}
	})

	tests := []struct {
		name string
		body string
		cash string
		want int
	}{
		{"malformed body", `{"symbol":`, "", http.StatusBadRequest},
		{"missing fields", `{}`, "", http.StatusBadRequest},
		{"negative quantity", `{"symbol":"ABC","quantity":-1,"type":"BUY"}`, "", http.StatusBadRequest},
		{"unknown type", `{"symbol":"ABC","quantity":1,"type":"SHORT"}`, "", http.StatusBadRequest},
		{"oversell", `{"symbol":"HELD","quantity":6,"type":"SELL"}`, "", http.StatusConflict},
		{"insufficient funds", `{"symbol":"ABC","quantity":10,"type":"BUY"}`, "50", http.StatusConflict},
		{"no price", `{"symbol":"NOPRICE","quantity":1,"type":"BUY"}`, "50", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run("returns "+http.StatusText(tt.want)+" for "+tt.name, func(t *testing.T) {
			handler := setupHandler(t, tt.cash)

			w := httptest.NewRecorder()
			handler.ExecuteTrade(w, testutil.NewJSONRequest(http.MethodPost, "/api/trade", tt.body))

			if w.Code != tt.want {
				t.Fatalf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			var resp response.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if resp.Error == "" {
				t.Error("Expected error message")
			}
		})
	}
}
