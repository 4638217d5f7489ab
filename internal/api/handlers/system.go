package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, model.HealthStatus{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, model.HealthStatus{
		Status:   "healthy",
		Database: "connected",
	})
}

// Version handles GET requests to retrieve version information and feature availability.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if the schema version cannot be read
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.CheckVersion(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "failed to get version information")
		return
	}

	response.RespondJSON(w, http.StatusOK, version)
}
