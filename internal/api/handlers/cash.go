package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// CashHandler handles cash account requests
type CashHandler struct {
	cashService *service.CashService
}

// NewCashHandler creates a new CashHandler
func NewCashHandler(cashService *service.CashService) *CashHandler {
	return &CashHandler{cashService: cashService}
}

// AddFunds handles deposits.
//
// Endpoint: POST /api/add-funds
// Request body: {"amount": "1000.00"}
// Response: 200 OK with model.FundsResult
func (h *CashHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseFunds(w, r)
	if !ok {
		return
	}

	result, err := h.cashService.AddFunds(r.Context(), req.Amount)
	if err != nil {
		respondServiceError(w, r, err, "failed to add funds")
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// WithdrawFunds handles withdrawals.
//
// Endpoint: POST /api/withdraw-funds
// Request body: {"amount": "1000.00"}
// Response: 200 OK with model.FundsResult
// Error: 409 Conflict when the balance is too low
func (h *CashHandler) WithdrawFunds(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseFunds(w, r)
	if !ok {
		return
	}

	result, err := h.cashService.WithdrawFunds(r.Context(), req.Amount)
	if err != nil {
		respondServiceError(w, r, err, "failed to withdraw funds")
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

func (h *CashHandler) parseFunds(w http.ResponseWriter, r *http.Request) (request.FundsRequest, bool) {
	req, err := parseJSON[request.FundsRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return req, false
	}
	if err := validation.ValidateFunds(req); err != nil {
		respondServiceError(w, r, err, "invalid amount")
		return req, false
	}
	return req, true
}

// Overview returns the balance and the most recent cash movements.
//
// Endpoint: GET /api/cash?limit=
func (h *CashHandler) Overview(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	overview, err := h.cashService.GetOverview(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve cash account")
		return
	}
	response.RespondJSON(w, http.StatusOK, overview)
}
