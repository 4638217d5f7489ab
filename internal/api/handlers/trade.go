package handlers

import (
	"fmt"
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// TradeHandler handles trade execution requests
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// TradeResponse is returned for an executed trade.
type TradeResponse struct {
	Message     string                  `json:"message"`
	Transaction model.TransactionRecord `json:"transaction"`
}

// ExecuteTrade handles POST requests to buy or sell shares.
//
// Endpoint: POST /api/trade
// Request body: {"symbol": "AAPL", "quantity": 10, "type": "BUY", "date": "2024-01-15"}
// Response: 201 Created with TradeResponse
// Errors:
//   - 400 Bad Request: invalid body or fields
//   - 409 Conflict: insufficient holdings or funds
//   - 422 Unprocessable Entity: no price could be resolved
//   - 500 Internal Server Error: storage failure
func (h *TradeHandler) ExecuteTrade(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TradeRequest](w, r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tradeType, date, err := validation.ValidateTrade(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to execute trade")
		return
	}

	record, err := h.tradeService.ExecuteTrade(r.Context(), service.TradeRequest{
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Type:     tradeType,
		Date:     date,
	})
	if err != nil {
		respondServiceError(w, r, err, "failed to execute trade")
		return
	}

	verb := "bought"
	if record.Type == model.TradeSell {
		verb = "sold"
	}
	response.RespondJSON(w, http.StatusCreated, TradeResponse{
		Message:     fmt.Sprintf("Successfully %s %d shares of %s", verb, record.Quantity, record.Symbol),
		Transaction: record,
	})
}
