package pricing

import (
	"fmt"
	"time"

	"elbasta-backend/models"
)

// Resolver prices carts and decides whether an order may be placed.
type Resolver struct {
	Store Point
	Now   func() time.Time
}

func NewResolver(store Point) *Resolver {
	return &Resolver{Store: store, Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// StoreClosed evaluates the opening hours in settings at the resolver's
// current time.
func (r *Resolver) StoreClosed(settings models.Settings) (bool, error) {
	return IsStoreClosed(r.now(), settings.StoreSettings.OpenTime, settings.StoreSettings.CloseTime)
}

// QuoteRequest is what the cart page knows before the customer submits.
type QuoteRequest struct {
	Items       []models.OrderItem
	Method      models.DeliveryMethod
	Coordinates *Point
	// Location is the branch the order is placed with, if any.
	Location *models.Location
}

type Quote struct {
	Subtotal    int      `json:"subtotal"`
	ServiceFees int      `json:"serviceFees"`
	DeliveryFee int      `json:"deliveryFee"`
	Total       int      `json:"total"`
	DistanceKm  *float64 `json:"distanceKm,omitempty"`
}

// Subtotal sums price × quantity over the captured cart prices. Lines outside
// the item bounds are left out.
func Subtotal(items []models.OrderItem) int {
	total := 0
	for _, item := range items {
		if item.Valid() {
			total += item.LineTotal()
		}
	}
	return total
}

// Quote computes fees and total. Invalid cart lines and delivery problems
// (switched off, missing coordinates, out of zone) are returned as a
// *ValidationError.
func (r *Resolver) Quote(settings models.Settings, req QuoteRequest) (Quote, error) {
	var ps problems
	q := r.price(settings, req, &ps)
	return q, ps.err()
}

func (r *Resolver) price(settings models.Settings, req QuoteRequest, ps *problems) Quote {
	for _, item := range req.Items {
		if !item.Valid() {
			ps.add("items", CodeInvalidItem, fmt.Sprintf("Article invalide dans le panier : %s", item.Name))
		}
	}

	q := Quote{
		Subtotal:    Subtotal(req.Items),
		ServiceFees: settings.ServiceFees,
	}

	switch req.Method {
	case models.MethodPickup:
	case models.MethodDelivery:
		q.DeliveryFee = r.deliveryFee(settings, req, &q, ps)
	default:
		ps.add("method", CodeUnknownMethod, "Mode de commande invalide")
	}

	q.Total = q.Subtotal + q.ServiceFees + q.DeliveryFee
	return q
}

func (r *Resolver) deliveryFee(settings models.Settings, req QuoteRequest, q *Quote, ps *problems) int {
	if !settings.StoreSettings.IsDeliveryAvailable || (req.Location != nil && !req.Location.IsDeliveryAvailable) {
		ps.add("method", CodeDeliveryDisabled, "La livraison n'est pas disponible pour le moment")
		return 0
	}
	if req.Coordinates == nil || !req.Coordinates.Valid() {
		ps.add("coordinates", CodeMissingCoordinates, "Veuillez partager votre position pour la livraison")
		return 0
	}

	distance := DistanceKm(r.Store, *req.Coordinates)
	q.DistanceKm = &distance

	fee, ok := ResolveDeliveryFee(settings.DeliverySettings, distance)
	if !ok {
		ps.add("coordinates", CodeOutOfZone, "Désolé, votre position est hors de notre zone de livraison")
		return 0
	}
	return fee
}
