package handlers

import (
	"net/http"
	"strings"

	"elbasta-backend/models"
	"elbasta-backend/store"
	"elbasta-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LocationHandler struct {
	Store  store.Repository
	Logger *zap.Logger
}

type locationRequest struct {
	Name                string `json:"name" binding:"required,max=120"`
	Address             string `json:"address" binding:"max=300"`
	Phone               string `json:"phone" binding:"max=30"`
	WhatsApp            string `json:"whatsapp" binding:"max=30"`
	OpeningHours        string `json:"openingHours" binding:"max=200"`
	IsDeliveryAvailable bool   `json:"isDeliveryAvailable"`
	IsActive            bool   `json:"isActive"`
}

func (r locationRequest) apply(l *models.Location) {
	l.Name = strings.TrimSpace(r.Name)
	l.Address = r.Address
	l.Phone = r.Phone
	l.WhatsApp = r.WhatsApp
	l.OpeningHours = r.OpeningHours
	l.IsDeliveryAvailable = r.IsDeliveryAvailable
	l.IsActive = r.IsActive
}

// GetLocations lists every branch; ?active=true keeps the open ones.
func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.Store.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Location")
		return
	}

	if c.Query("active") == "true" {
		active := locations[:0]
		for _, l := range locations {
			if l.IsActive {
				active = append(active, l)
			}
		}
		locations = active
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	location, err := h.Store.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Location")
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	req := locationRequest{IsActive: true, IsDeliveryAvailable: true}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var location models.Location
	req.apply(&location)
	if err := h.Store.CreateLocation(c.Request.Context(), &location); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Location")
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	ctx := c.Request.Context()
	location, err := h.Store.GetLocation(ctx, c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Location")
		return
	}

	req := locationRequest{
		Name:                location.Name,
		Address:             location.Address,
		Phone:               location.Phone,
		WhatsApp:            location.WhatsApp,
		OpeningHours:        location.OpeningHours,
		IsDeliveryAvailable: location.IsDeliveryAvailable,
		IsActive:            location.IsActive,
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	req.apply(&location)
	if err := h.Store.UpdateLocation(ctx, &location); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Location")
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	if err := h.Store.DeleteLocation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Location")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}
