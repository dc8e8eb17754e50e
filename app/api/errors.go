package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/wedding-feed/app/common"
)

// writeError maps store errors to a status and a stable error code.
func writeError(c *gin.Context, err error) {
	var validation *common.ValidationError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation",
			"field":   validation.Field,
			"message": validation.Error(),
		})
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
	case errors.Is(err, common.ErrMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "mismatch", "message": "The password does not match"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "The entry no longer exists"})
	case errors.Is(err, common.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate", "message": "The same message was just posted"})
	case errors.Is(err, common.ErrClosed):
		c.JSON(http.StatusGone, gin.H{"error": "closed", "message": "Responses are no longer accepted"})
	case errors.Is(err, common.ErrTransient):
		slog.Error("Store unavailable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable", "message": "Please try again"})
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "Internal server error"})
	}
}

func writeBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": "Invalid request body: " + err.Error()})
}
