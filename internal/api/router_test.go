package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func newTestRouter(t *testing.T, apiKey string) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	oracle := testutil.NewMockPriceOracle().WithPrice("ABC", "10")
	ledger := testutil.NewTestLedger(t, db, oracle)

	cfg := &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Auth: config.AuthConfig{InternalAPIKey: apiKey},
	}
	svc := Services{
		System:      testutil.NewTestSystemService(t, db),
		Portfolio:   ledger.Portfolio,
		Trade:       ledger.Trade,
		Cash:        ledger.Cash,
		Transaction: ledger.Reads,
		Market:      testutil.NewTestMarketService(t, testutil.NewMockQuoteProvider()),
	}
	return NewRouter(svc, cfg, testutil.TestLogger())
}

func TestRouter(t *testing.T) {
	t.Run("routes read endpoints", func(t *testing.T) {
		router := newTestRouter(t, "")

		for _, path := range []string{
			"/api/system/health",
			"/api/system/version",
			"/api/portfolio",
			"/api/holdings",
			"/api/transactions",
			"/api/cash",
			"/api/stocks/search?q=abc",
		} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Code != http.StatusOK {
				t.Errorf("GET %s: expected 200, got %d: %s", path, w.Code, w.Body.String())
			}
		}
	})

	t.Run("rejects malformed transaction id", func(t *testing.T) {
		router := newTestRouter(t, "")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/transactions/not-a-uuid", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("mutating routes are open without a configured key", func(t *testing.T) {
		router := newTestRouter(t, "")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutil.NewJSONRequest(http.MethodPost, "/api/add-funds", `{"amount": 100}`))

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("mutating routes require key and time token", func(t *testing.T) {
		const key = "router-test-key"
		router := newTestRouter(t, key)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutil.NewJSONRequest(http.MethodPost, "/api/add-funds", `{"amount": 100}`))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without credentials, got %d", w.Code)
		}

		req := testutil.NewJSONRequest(http.MethodPost, "/api/add-funds", `{"amount": 100}`)
		req.Header.Set(middleware.HeaderAPIKey, key)
		req.Header.Set(middleware.HeaderTimeToken, middleware.GenerateTimeToken(key))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 with credentials, got %d: %s", w.Code, w.Body.String())
		}

		// Reads stay public.
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cash", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for public read, got %d", w.Code)
		}
	})

	t.Run("full trade flow", func(t *testing.T) {
		router := newTestRouter(t, "")

		steps := []struct {
			method, path, body string
			want               int
		}{
			{http.MethodPost, "/api/add-funds", `{"amount": "1000"}`, http.StatusOK},
			{http.MethodPost, "/api/trade", `{"symbol":"ABC","quantity":5,"type":"BUY","date":"` + time.Now().UTC().Format("2006-01-02") + `"}`, http.StatusCreated},
			{http.MethodPost, "/api/trade", `{"symbol":"ABC","quantity":6,"type":"SELL"}`, http.StatusConflict},
			{http.MethodPost, "/api/withdraw-funds", `{"amount": "951"}`, http.StatusConflict},
			{http.MethodPost, "/api/withdraw-funds", `{"amount": "950"}`, http.StatusOK},
		}
		for _, s := range steps {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, testutil.NewJSONRequest(s.method, s.path, s.body))
			if w.Code != s.want {
				t.Fatalf("%s %s: expected %d, got %d: %s", s.method, s.path, s.want, w.Code, w.Body.String())
			}
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
		if !strings.Contains(w.Body.String(), `"totalValue":"50"`) {
			t.Errorf("Expected total value 50, got %s", w.Body.String())
		}
	})
}
