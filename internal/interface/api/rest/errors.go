package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/access"
)

// respondError maps domain errors to HTTP statuses; anything unrecognised is
// a 500 and gets logged with op.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, domain.ErrSubscriptionRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "outcome": access.RequiresSubscription})
	case errors.Is(err, domain.ErrPremiumRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "outcome": access.RequiresPremium})
	case errors.Is(err, domain.ErrTransient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
		logger.Warn(op+" transient error", zap.Error(err))
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		logger.Error(op+" error", zap.Error(err))
	}
}
