package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/response"
	"github.com/stemsi/reportcard-backend/internal/service"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// GetDashboardData godoc
// GET /api/v1/dashboard
// Returns the number of records of every kind.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	counts, err := h.dashboardService.GetCounts(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"counts": counts})
}
