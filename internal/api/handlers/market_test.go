package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func TestMarketHandler(t *testing.T) {
	quotes := testutil.NewMockQuoteProvider().
		WithQuote("AAPL", "Apple Inc.", "190", "1.2").
		WithQuote("^GSPC", "S&P 500", "5000", "0.5").
		WithError("BAD", errors.New("upstream error"))
	handler := NewMarketHandler(testutil.NewTestMarketService(t, quotes))

	tests := []struct {
		symbol string
		want   int
	}{
		{"AAPL", http.StatusOK},
		{"NOPE", http.StatusNotFound},
		{"BAD", http.StatusInternalServerError},
		{"A B", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run("quote "+tt.symbol, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Quote(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/stocks/x", map[string]string{"symbol": tt.symbol}))

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	searches := []struct {
		name  string
		query string
		want  int
	}{
		{"match", "apple", http.StatusOK},
		{"missing query", "", http.StatusBadRequest},
		{"query too long", strings.Repeat("a", maxSearchQuery+1), http.StatusBadRequest},
	}
	for _, tt := range searches {
		t.Run("search "+tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Search(w, httptest.NewRequest(http.MethodGet, "/api/stocks/search?q="+url.QueryEscape(tt.query), nil))

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	t.Run("search results", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Search(w, httptest.NewRequest(http.MethodGet, "/api/stocks/search?q=aapl", nil))

		var results []model.SearchResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&results)
		if len(results) != 1 || results[0].Name != "Apple Inc." {
			t.Errorf("Unexpected results %+v", results)
		}
	})

	t.Run("movers", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Movers(w, httptest.NewRequest(http.MethodGet, "/api/market/movers", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var movers []model.MarketMover
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&movers)
		if len(movers) != 1 || movers[0].Name != "S&P 500" {
			t.Errorf("Unexpected movers %+v", movers)
		}
	})
}
