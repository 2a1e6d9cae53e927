package handlers

import (
	"net/http"
	"time"

	"elbasta-backend/store"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Store store.Repository
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"store":  h.Store.Name(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
