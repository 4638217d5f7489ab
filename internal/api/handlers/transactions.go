package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// TransactionHandler handles read requests for the trade log and holdings.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Transactions returns the most recent trades, newest first.
//
// Endpoint: GET /api/transactions?limit=
// Response: 200 OK with []model.TransactionRecord
// Error: 400 Bad Request for an invalid limit
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	transactions, err := h.transactionService.GetRecentTransactions(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve transactions")
		return
	}
	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction returns a single trade. The uuid parameter is checked by ValidateUUIDMiddleware.
//
// Endpoint: GET /api/transactions/{uuid}
// Error: 404 Not Found when no trade has the id
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve transaction")
		return
	}
	response.RespondJSON(w, http.StatusOK, transaction)
}

// Holdings returns every holding row ordered by symbol, closed positions included.
//
// Endpoint: GET /api/holdings
func (h *TransactionHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.transactionService.GetHoldings(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve holdings")
		return
	}
	response.RespondJSON(w, http.StatusOK, holdings)
}
