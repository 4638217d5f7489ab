package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// PortfolioHandler handles portfolio valuation requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	now              func() time.Time
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot handles GET requests for the valuation snapshot of the portfolio.
//
// Endpoint: GET /api/portfolio?numEntries=&orderBy=
// Response: 200 OK with model.ValuationSnapshot
// Error: 400 Bad Request for invalid numEntries or orderBy
//
// When the ledger cannot be read the handler still answers 200 with a zeroed
// snapshot whose degraded flag is set.
func (h *PortfolioHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParseSnapshotQuery(r.URL.Query().Get("numEntries"), r.URL.Query().Get("orderBy"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	snapshot, err := h.portfolioService.GetSnapshot(r.Context(), service.SnapshotOptions{
		NumEntries: query.NumEntries,
		OrderBy:    query.OrderBy,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrLedgerUnavailable) {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("serving degraded snapshot")
			response.RespondJSON(w, http.StatusOK, model.FallbackSnapshot(h.now()))
			return
		}
		respondServiceError(w, r, err, "failed to build portfolio snapshot")
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}
