package pricing

import (
	"fmt"
	"regexp"
	"strings"

	"elbasta-backend/models"
)

var phonePattern = regexp.MustCompile(`^0[5-7]\d{8}$`)

// ValidPhone accepts Algerian mobile numbers: 05, 06 or 07 followed by 8 digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

type Customer struct {
	Name    string
	Phone   string
	Address string
}

type CheckoutRequest struct {
	QuoteRequest
	Customer      Customer
	TermsAccepted bool
	// Catalog holds the products referenced by the cart, keyed by id. When set
	// together with Location every item must be orderable at that location.
	Catalog map[string]models.Product
}

// Checkout runs every gate an order must pass and returns the priced quote.
// All customer problems are collected into one *ValidationError. Broken
// settings (unparsable opening hours) yield ErrInvalidConfiguration instead.
// Opening hours are evaluated against the resolver clock at call time.
func (r *Resolver) Checkout(settings models.Settings, req CheckoutRequest) (Quote, error) {
	closed, err := r.StoreClosed(settings)
	if err != nil {
		return Quote{}, err
	}

	var ps problems

	if len(req.Items) == 0 {
		ps.add("items", CodeEmptyCart, "Votre panier est vide")
	}

	if strings.TrimSpace(req.Customer.Name) == "" {
		ps.add("customerName", CodeNameRequired, "Veuillez entrer votre nom")
	}
	if !ValidPhone(req.Customer.Phone) {
		ps.add("phone", CodeInvalidPhone, "Numéro de téléphone invalide (ex : 0555123456)")
	}

	if req.Location != nil {
		if !req.Location.IsActive {
			ps.add("locationId", CodeLocationUnavailable, "Ce point de vente n'est pas disponible")
		}
		if req.Catalog != nil {
			checkAvailability(req.Items, req.Catalog, req.Location.ID, &ps)
		}
	}

	q := r.price(settings, req.QuoteRequest, &ps)

	if req.Method == models.MethodDelivery && strings.TrimSpace(req.Customer.Address) == "" {
		ps.add("address", CodeAddressRequired, "Veuillez entrer votre adresse de livraison")
	}
	if !req.TermsAccepted {
		ps.add("termsAccepted", CodeTermsNotAccepted, "Veuillez accepter les conditions générales")
	}
	if closed {
		ps.add("", CodeStoreClosed, "Le restaurant est actuellement fermé")
	}

	return q, ps.err()
}

func checkAvailability(items []models.OrderItem, catalog map[string]models.Product, locationID string, ps *problems) {
	for _, item := range items {
		product, ok := catalog[item.ID]
		if !ok || !ResolveLocationPrice(product, locationID).Orderable() {
			ps.add("items", CodeItemUnavailable, fmt.Sprintf("%s n'est pas disponible dans ce point de vente", item.Name))
		}
	}
}
