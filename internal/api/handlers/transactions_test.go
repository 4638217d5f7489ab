package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/testutil"
)

func TestTransactionHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewTransactionHandler(testutil.NewTestLedger(t, db, testutil.NewMockPriceOracle()).Reads)

	tx := testutil.NewTransaction("ABC").Build(t, db)
	testutil.NewTransaction("XYZ").Build(t, db)
	testutil.NewHolding().WithSymbol("ABC").Build(t, db)

	t.Run("lists transactions with limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Transactions(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transactions", map[string]string{"limit": "1"}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var records []model.TransactionRecord
		if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(records) != 1 || records[0].Symbol != "XYZ" {
			t.Errorf("Expected the latest XYZ trade, got %+v", records)
		}
	})

	t.Run("returns 400 for invalid limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Transactions(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transactions", map[string]string{"limit": "many"}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("gets transaction by id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetTransaction(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/transactions/"+tx.ID, map[string]string{"uuid": tx.ID}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var record model.TransactionRecord
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&record)
		if record.ID != tx.ID {
			t.Errorf("Expected id %s, got %s", tx.ID, record.ID)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		id := testutil.MakeID()
		w := httptest.NewRecorder()
		handler.GetTransaction(w, testutil.NewRequestWithURLParams(http.MethodGet, "/api/transactions/"+id, map[string]string{"uuid": id}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("lists holdings", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Holdings(w, httptest.NewRequest(http.MethodGet, "/api/holdings", nil))

		var holdings []model.Holding
		if err := json.NewDecoder(w.Body).Decode(&holdings); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(holdings) != 1 || holdings[0].Symbol != "ABC" {
			t.Errorf("Expected ABC holding, got %+v", holdings)
		}
	})
}
