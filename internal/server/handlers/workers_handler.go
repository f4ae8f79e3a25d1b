package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	workerssvc "github.com/stitchline/stitchline/internal/service/workers"
)

// WorkersHandler serves the worker directory endpoints.
type WorkersHandler struct {
	svc    *workerssvc.Service
	logger *zap.Logger
}

// NewWorkersHandler constructs the HTTP handler adapter.
func NewWorkersHandler(svc *workerssvc.Service, logger *zap.Logger) *WorkersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkersHandler{svc: svc, logger: logger}
}

// CreateWorkerRequest is the payload for registering a worker.
type CreateWorkerRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role"`
}

// List returns all workers sorted by name.
func (h *WorkersHandler) List(c *gin.Context) {
	workers, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

// Create registers a new worker.
func (h *WorkersHandler) Create(c *gin.Context) {
	var req CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid worker payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	worker, err := h.svc.Create(c.Request.Context(), req.Name, req.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, worker)
}
