package handlers

import (
	"errors"
	"net/http"

	"garment_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case services.IsInsufficientBalance(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case services.IsInvariantViolation(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno del servidor"})
	}
}
