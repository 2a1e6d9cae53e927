package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"elbasta-backend/dtos"
	"elbasta-backend/models"
	"elbasta-backend/notify"
	"elbasta-backend/pricing"
	"elbasta-backend/store"
	"elbasta-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	trackingAttempts  = 10
	defaultOrderLimit = 100
	maxOrderLimit     = 500
)

var errTrackingIDExhausted = errors.New("no free tracking id")

type OrderHandler struct {
	Store    store.Repository
	Resolver *pricing.Resolver
	Notifier notify.Notifier
	// WhatsAppNumber receives confirmations for locations without their own number.
	WhatsAppNumber string
	Logger         *zap.Logger
	// NewTrackingID defaults to models.NewTrackingID.
	NewTrackingID func() string
}

// Quote previews fees and total for the cart page. Delivery problems come
// back as a 400 that still carries the partial quote.
func (h *OrderHandler) Quote(c *gin.Context) {
	logger := loggerOrNop(h.Logger)
	var req dtos.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	ctx := c.Request.Context()
	settings, err := h.Store.GetSettings(ctx)
	if err != nil {
		respondError(c, logger, err, "Settings")
		return
	}
	location, err := h.location(ctx, req.LocationID)
	if err != nil {
		respondError(c, logger, err, "Location")
		return
	}

	closed, err := h.Resolver.StoreClosed(settings)
	if err != nil {
		respondError(c, logger, err, "Settings")
		return
	}

	q, err := h.Resolver.Quote(settings, pricing.QuoteRequest{
		Items:       req.Items,
		Method:      req.Method,
		Coordinates: req.Coordinates,
		Location:    location,
	})
	var verr *pricing.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "details": verr.Problems, "quote": q})
		return
	}
	if err != nil {
		respondError(c, logger, err, "Settings")
		return
	}

	c.JSON(http.StatusOK, dtos.QuoteResponse{Quote: q, IsStoreClosed: closed})
}

// CreateOrder runs the checkout gate with the server clock, prices the cart,
// stores the order under a fresh tracking id and returns the WhatsApp link
// the customer confirms with.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	logger := loggerOrNop(h.Logger)
	var req dtos.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	ctx := c.Request.Context()
	settings, err := h.Store.GetSettings(ctx)
	if err != nil {
		respondError(c, logger, err, "Settings")
		return
	}
	location, err := h.location(ctx, req.LocationID)
	if err != nil {
		respondError(c, logger, err, "Location")
		return
	}
	var catalog map[string]models.Product
	if location != nil {
		if catalog, err = h.catalog(ctx, req.Items); err != nil {
			respondError(c, logger, err, "Product")
			return
		}
	}

	q, err := h.Resolver.Checkout(settings, pricing.CheckoutRequest{
		QuoteRequest: pricing.QuoteRequest{
			Items:       req.Items,
			Method:      req.Method,
			Coordinates: req.Coordinates,
			Location:    location,
		},
		Customer: pricing.Customer{
			Name:    req.CustomerName,
			Phone:   req.Phone,
			Address: req.Address,
		},
		TermsAccepted: req.TermsAccepted,
		Catalog:       catalog,
	})
	if err != nil {
		respondError(c, logger, err, "Order")
		return
	}
	if *req.Total != q.Total {
		logger.Warn("client total differs from server total",
			zap.Int("client", *req.Total), zap.Int("server", q.Total))
	}

	trackingID, err := h.allocateTrackingID(ctx)
	if err != nil {
		respondError(c, logger, err, "Order")
		return
	}

	order := models.Order{
		TrackingID:   trackingID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Method:       req.Method,
		Items:        req.Items,
		Subtotal:     q.Subtotal,
		ServiceFees:  q.ServiceFees,
		DeliveryFee:  q.DeliveryFee,
		Total:        q.Total,
		DistanceKm:   q.DistanceKm,
		Notes:        strings.TrimSpace(req.Notes),
		Status:       models.OrderStatusPreparing,
	}
	if location != nil {
		order.LocationID = location.ID
		order.LocationName = location.Name
	}
	switch req.Method {
	case models.MethodDelivery:
		order.Latitude = &req.Coordinates.Lat
		order.Longitude = &req.Coordinates.Lon
	case models.MethodPickup:
		if order.Address == "" {
			order.Address = "Sur place"
			if location != nil {
				order.Address = location.Name
			}
		}
	}

	if err := h.Store.CreateOrder(ctx, &order); err != nil {
		respondError(c, logger, err, "Order")
		return
	}
	logger.Info("order placed",
		zap.String("trackingId", order.TrackingID),
		zap.String("method", string(order.Method)),
		zap.Int("total", order.Total))

	if h.Notifier != nil {
		h.Notifier.OrderPlaced(context.WithoutCancel(ctx), order)
	}

	number := h.WhatsAppNumber
	if location != nil && location.WhatsApp != "" {
		number = location.WhatsApp
	}
	c.JSON(http.StatusCreated, dtos.CreateOrderResponse{
		Order:       order,
		TrackingID:  order.TrackingID,
		WhatsAppURL: notify.WhatsAppLink(number, order),
	})
}

// TrackOrder serves the tracking page. Codes are matched case-insensitively
// and the ELB prefix may be omitted.
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	code := models.NormalizeTrackingID(c.Param("trackingId"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tracking code is required"})
		return
	}

	order, err := h.Store.GetOrderByTrackingID(c.Request.Context(), code)
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetOrders lists orders newest first. Supports ?status= and ?limit=.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	filter := store.OrderFilter{Limit: defaultOrderLimit}
	if status := c.Query("status"); status != "" {
		filter.Status = models.OrderStatus(status)
		if !filter.Status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown status %q", status)})
			return
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = min(limit, maxOrderLimit)
	}

	orders, err := h.Store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Order")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.Store.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus accepts any of the known statuses; transitions between
// them are not restricted.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req dtos.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown status %q", req.Status)})
		return
	}

	order, err := h.Store.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, req.EstimatedTime)
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Order")
		return
	}
	loggerOrNop(h.Logger).Info("order status updated",
		zap.String("trackingId", order.TrackingID),
		zap.String("status", string(order.Status)))

	c.JSON(http.StatusOK, order)
}

// location loads the branch an order is placed with. An empty id means none.
func (h *OrderHandler) location(ctx context.Context, id string) (*models.Location, error) {
	if id == "" {
		return nil, nil
	}
	l, err := h.Store.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// catalog fetches the products referenced by the cart. Unknown ids are left
// out so that checkout reports them as unavailable.
func (h *OrderHandler) catalog(ctx context.Context, items []models.OrderItem) (map[string]models.Product, error) {
	catalog := make(map[string]models.Product, len(items))
	for _, item := range items {
		if _, ok := catalog[item.ID]; ok || item.ID == "" {
			continue
		}
		p, err := h.Store.GetProduct(ctx, item.ID)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		catalog[item.ID] = p
	}
	return catalog, nil
}

func (h *OrderHandler) allocateTrackingID(ctx context.Context) (string, error) {
	generate := h.NewTrackingID
	if generate == nil {
		generate = models.NewTrackingID
	}
	for range trackingAttempts {
		id := generate()
		exists, err := h.Store.TrackingIDExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check tracking id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", errTrackingIDExhausted, trackingAttempts)
}
