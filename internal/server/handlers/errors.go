package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stitchline/stitchline/internal/domain/models"
)

// respondError maps the error taxonomy onto HTTP statuses: validation 400,
// not-found 404, anything else is treated as a store transport fault.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error("store operation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "record store unavailable"})
	}
}
