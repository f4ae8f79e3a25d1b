package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dashboardsvc "github.com/stitchline/stitchline/internal/service/dashboard"
)

// DashboardHandler serves the aggregated overview endpoint.
type DashboardHandler struct {
	svc    *dashboardsvc.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *dashboardsvc.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Overview returns totals, rates, rankings, trend and distribution for the
// requested range (today when omitted).
func (h *DashboardHandler) Overview(c *gin.Context) {
	rng, err := dashboardsvc.ParseRange(c.Query("range"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), rng)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
