package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
)

// TestValidateUUIDMiddleware checks that only well-formed transaction IDs reach the handler.
//
// WHY: Transaction lookups use the ID verbatim in SQL parameters; rejecting malformed IDs
// early returns a 400 instead of a misleading 404.
func TestValidateUUIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantCalled bool
	}{
		{"passes through valid UUID", "550e8400-e29b-41d4-a716-446655440000", http.StatusOK, true},
		{"rejects invalid UUID", "invalid-id", http.StatusBadRequest, false},
		{"rejects empty UUID", "", http.StatusBadRequest, false},
		{"rejects symbol in place of UUID", "AAPL", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/transactions/x", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uuid", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			middleware.ValidateUUIDMiddleware(next).ServeHTTP(w, req)

			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
