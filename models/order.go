package models

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryMethod string

const (
	MethodDelivery DeliveryMethod = "livraison"
	MethodPickup   DeliveryMethod = "surplace"
)

type OrderStatus string

const (
	OrderStatusPreparing  OrderStatus = "En préparation"
	OrderStatusDelivering OrderStatus = "En cours de livraison"
	OrderStatusDelivered  OrderStatus = "Livré"
	OrderStatusCancelled  OrderStatus = "Annulé"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Bounds on a single cart line. Anything above them is rejected before
// totals are computed.
const (
	MaxItemQuantity = 99
	MaxItemPrice    = 1_000_000
)

// OrderItem is a cart line. Price is the unit price captured when the item was
// added to the cart.
type OrderItem struct {
	ID       string `json:"id" firestore:"id"`
	Name     string `json:"name" firestore:"name"`
	Price    int    `json:"price" firestore:"price"`
	Image    string `json:"image" firestore:"image"`
	Quantity int    `json:"quantity" firestore:"quantity"`
	Category string `json:"category" firestore:"category"`
}

func (i OrderItem) LineTotal() int {
	return i.Price * i.Quantity
}

// Valid reports whether quantity and price are within the accepted bounds.
func (i OrderItem) Valid() bool {
	return i.Quantity > 0 && i.Quantity <= MaxItemQuantity &&
		i.Price >= 0 && i.Price <= MaxItemPrice
}

type Order struct {
	ID            string         `gorm:"primaryKey;type:text" json:"id" firestore:"-"`
	TrackingID    string         `gorm:"index;not null" json:"trackingId" firestore:"trackingId"`
	CustomerName  string         `json:"customerName" firestore:"customerName"`
	Phone         string         `json:"phone" firestore:"phone"`
	Address       string         `json:"address" firestore:"address"`
	Method        DeliveryMethod `json:"method" firestore:"method"`
	LocationID    string         `gorm:"type:text;index" json:"locationId,omitempty" firestore:"locationId"`
	LocationName  string         `json:"locationName,omitempty" firestore:"locationName"`
	Items         []OrderItem    `gorm:"type:text;serializer:json" json:"items" firestore:"items"`
	Subtotal      int            `json:"subtotal" firestore:"subtotal"`
	ServiceFees   int            `json:"serviceFees" firestore:"serviceFees"`
	DeliveryFee   int            `json:"deliveryFee" firestore:"deliveryFee"`
	Total         int            `json:"total" firestore:"total"`
	DistanceKm    *float64       `json:"distanceKm,omitempty" firestore:"distanceKm,omitempty"`
	Latitude      *float64       `json:"latitude,omitempty" firestore:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty" firestore:"longitude,omitempty"`
	Notes         string         `json:"notes,omitempty" firestore:"notes"`
	Status        OrderStatus    `gorm:"index" json:"status" firestore:"status"`
	EstimatedTime string         `json:"estimatedTime,omitempty" firestore:"estimatedTime"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" firestore:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderStatusPreparing
	}
	return nil
}

// TrackingPrefix starts every customer-facing order reference.
const TrackingPrefix = "ELB"

// NewTrackingID returns a random ELB#### code. Codes are not unique by
// construction; callers check the store before using one.
func NewTrackingID() string {
	return fmt.Sprintf("%s%04d", TrackingPrefix, 1000+rand.IntN(9000))
}

// NormalizeTrackingID upper-cases a code typed by a customer and adds the
// prefix when only the digits were entered.
func NormalizeTrackingID(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code != "" && !strings.HasPrefix(code, TrackingPrefix) {
		code = TrackingPrefix + code
	}
	return code
}
