package handlers

import (
	"errors"
	"net/http"

	"elbasta-backend/pricing"
	"elbasta-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors onto the API's JSON error shape. resource
// names the entity in 404 messages, e.g. "Product".
func respondError(c *gin.Context, logger *zap.Logger, err error, resource string) {
	_ = c.Error(err)

	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "details": verr.Problems})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
	case errors.Is(err, pricing.ErrInvalidConfiguration):
		logger.Error("invalid store configuration", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid configuration"})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
