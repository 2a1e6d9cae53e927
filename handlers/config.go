package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"elbasta-backend/models"
	"elbasta-backend/pricing"
	"elbasta-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Settings groups accepted by GET ?type= and POST /api/config.
const (
	GroupServiceFees      = "serviceFees"
	GroupPromotedProducts = "promotedProducts"
	GroupStoreSettings    = "storeSettings"
	GroupDeliverySettings = "deliverySettings"
)

type ConfigHandler struct {
	Store    store.Repository
	Resolver *pricing.Resolver
	Logger   *zap.Logger
}

func (h *ConfigHandler) GetConfig(c *gin.Context) {
	settings, err := h.Store.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Settings")
		return
	}

	group := c.Query("type")
	if group == "" {
		c.JSON(http.StatusOK, settings)
		return
	}

	var value any
	switch group {
	case GroupServiceFees:
		value = settings.ServiceFees
	case GroupPromotedProducts:
		value = settings.PromotedProducts
	case GroupStoreSettings:
		value = settings.StoreSettings
	case GroupDeliverySettings:
		value = settings.DeliverySettings
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown config type %q", group)})
		return
	}
	c.JSON(http.StatusOK, gin.H{group: value, "version": settings.Version})
}

// UpdateConfig replaces exactly one settings group per request.
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(body) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body must contain exactly one of serviceFees, promotedProducts, storeSettings, deliverySettings"})
		return
	}

	var (
		group string
		raw   json.RawMessage
	)
	for k, v := range body {
		group, raw = k, v
	}

	ctx := c.Request.Context()
	var (
		settings models.Settings
		err      error
	)
	switch group {
	case GroupServiceFees:
		var fees int
		if err := json.Unmarshal(raw, &fees); err != nil || fees < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "serviceFees must be a non-negative integer"})
			return
		}
		settings, err = h.Store.UpdateServiceFees(ctx, fees)

	case GroupPromotedProducts:
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "promotedProducts must be a list of product ids"})
			return
		}
		ids, err = h.checkProducts(c, ids)
		if err != nil {
			return
		}
		settings, err = h.Store.UpdatePromotedProducts(ctx, ids)

	case GroupStoreSettings:
		var ss models.StoreSettings
		if err := json.Unmarshal(raw, &ss); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid storeSettings"})
			return
		}
		if _, err := pricing.ParseClock(ss.OpenTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "openTime must be HH:MM"})
			return
		}
		if _, err := pricing.ParseClock(ss.CloseTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "closeTime must be HH:MM"})
			return
		}
		settings, err = h.Store.UpdateStoreSettings(ctx, ss)

	case GroupDeliverySettings:
		var tiers []models.DeliverySetting
		if err := json.Unmarshal(raw, &tiers); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deliverySettings must be a list of {min, max, fee}"})
			return
		}
		if err := models.ValidateDeliverySettings(tiers); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		settings, err = h.Store.UpdateDeliverySettings(ctx, tiers)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown config type %q", group)})
		return
	}

	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Settings")
		return
	}
	loggerOrNop(h.Logger).Info("settings updated", zap.String("group", group), zap.Int64("version", settings.Version))
	c.JSON(http.StatusOK, settings)
}

// checkProducts drops blanks and duplicates and rejects unknown product ids.
// It writes the response itself when it returns an error.
func (h *ConfigHandler) checkProducts(c *gin.Context, ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := h.Store.GetProduct(c.Request.Context(), id); err != nil {
			if isNotFound(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown product %q", id)})
			} else {
				respondError(c, loggerOrNop(h.Logger), err, "Product")
			}
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (h *ConfigHandler) GetStoreStatus(c *gin.Context) {
	settings, err := h.Store.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Settings")
		return
	}
	closed, err := h.Resolver.StoreClosed(settings)
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), fmt.Errorf("opening hours: %w", err), "Settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isClosed":            closed,
		"openTime":            settings.StoreSettings.OpenTime,
		"closeTime":           settings.StoreSettings.CloseTime,
		"isDeliveryAvailable": settings.StoreSettings.IsDeliveryAvailable,
		"timezone":            pricing.StoreTimezone,
	})
}
