package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

const maxSearchQuery = 64

// MarketHandler serves market data
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// Quote returns the latest quote of a symbol.
//
// Endpoint: GET /api/stocks/{symbol}
// Errors: 400 for a malformed symbol, 404 when the provider does not know it
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := validation.ValidateSymbol(symbol); err != nil {
		respondServiceError(w, r, err, "invalid symbol")
		return
	}

	quote, err := h.marketService.GetQuote(r.Context(), symbol)
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve quote")
		return
	}
	response.RespondJSON(w, http.StatusOK, quote)
}

// Search returns the instruments matching the q query parameter.
//
// Endpoint: GET /api/stocks/search?q=
// Errors: 400 when q is missing or longer than maxSearchQuery
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) > maxSearchQuery {
		response.RespondError(w, http.StatusBadRequest, "invalid search query",
			map[string]string{"q": fmt.Sprintf("must be at most %d characters", maxSearchQuery)})
		return
	}

	results, err := h.marketService.SearchSymbols(r.Context(), query)
	if err != nil {
		respondServiceError(w, r, err, "failed to search stocks")
		return
	}
	response.RespondJSON(w, http.StatusOK, results)
}

// Movers returns the day change of the major market indices.
//
// Endpoint: GET /api/market/movers
func (h *MarketHandler) Movers(w http.ResponseWriter, r *http.Request) {
	movers, err := h.marketService.GetMarketMovers(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "failed to retrieve market movers")
		return
	}
	response.RespondJSON(w, http.StatusOK, movers)
}
