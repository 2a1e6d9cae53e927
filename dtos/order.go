package dtos

import (
	"elbasta-backend/models"
	"elbasta-backend/pricing"
)

// QuoteRequest is the cart page asking for fees before checkout.
type QuoteRequest struct {
	Items       []models.OrderItem    `json:"items" binding:"required"`
	Method      models.DeliveryMethod `json:"method" binding:"required"`
	LocationID  string                `json:"locationId"`
	Coordinates *pricing.Point        `json:"coordinates"`
}

// QuoteResponse is a priced cart plus whether orders are accepted right now.
type QuoteResponse struct {
	pricing.Quote
	IsStoreClosed bool `json:"isStoreClosed"`
}

// CreateOrderRequest is the checkout form. Total is what the client computed;
// the stored total is always recomputed server side.
type CreateOrderRequest struct {
	CustomerName  string                `json:"customerName" binding:"max=120"`
	Phone         string                `json:"phone" binding:"max=20"`
	Address       string                `json:"address" binding:"max=300"`
	Method        models.DeliveryMethod `json:"method" binding:"required"`
	LocationID    string                `json:"locationId"`
	Items         []models.OrderItem    `json:"items" binding:"required,max=100"`
	Total         *int                  `json:"total" binding:"required"`
	Coordinates   *pricing.Point        `json:"coordinates"`
	Notes         string                `json:"notes" binding:"max=500"`
	TermsAccepted bool                  `json:"termsAccepted"`
}

type CreateOrderResponse struct {
	Order       models.Order `json:"order"`
	TrackingID  string       `json:"trackingId"`
	WhatsAppURL string       `json:"whatsappUrl"`
}

// UpdateOrderStatusRequest leaves the estimated time untouched when it is
// omitted.
type UpdateOrderStatusRequest struct {
	Status        models.OrderStatus `json:"status" binding:"required"`
	EstimatedTime *string            `json:"estimatedTime" binding:"omitempty,max=100"`
}
