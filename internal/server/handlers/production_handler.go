package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stitchline/stitchline/internal/domain/models"
	dashboardsvc "github.com/stitchline/stitchline/internal/service/dashboard"
	workflowsvc "github.com/stitchline/stitchline/internal/service/workflow"
)

// ProductionHandler serves the production floor endpoints: the day view,
// workflow actions and the audit trail.
type ProductionHandler struct {
	workflow  *workflowsvc.Service
	dashboard *dashboardsvc.Service
	logger    *zap.Logger
}

// NewProductionHandler constructs the HTTP handler adapter.
func NewProductionHandler(workflow *workflowsvc.Service, dashboard *dashboardsvc.Service, logger *zap.Logger) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{workflow: workflow, dashboard: dashboard, logger: logger}
}

// ActionRequest is the payload for applying a workflow action.
type ActionRequest struct {
	WorkerID string `json:"worker_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Action   string `json:"action" binding:"required"`
	Quantity int    `json:"quantity"`
}

// GetDay returns the production records for one date.
func (h *ProductionHandler) GetDay(c *gin.Context) {
	date := c.Query("date")
	records, err := h.dashboard.ProductionForDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// ApplyAction runs one workflow action against a worker's daily record and
// returns the committed state.
func (h *ProductionHandler) ApplyAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid action payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	action, err := models.ParseAction(req.Action, req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.workflow.ApplyAction(c.Request.Context(), req.WorkerID, req.Date, action)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListLogs returns the audit trail for a production record.
func (h *ProductionHandler) ListLogs(c *gin.Context) {
	entries, err := h.workflow.Logs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
