package pricing

import "elbasta-backend/models"

// Listing tells whether a location has an explicit price entry for a product.
type Listing string

const (
	NotOffered Listing = "not_offered"
	Offered    Listing = "offered"
)

// Offer is a product as sold at one location.
type Offer struct {
	Listing       Listing              `json:"listing"`
	LocationID    string               `json:"locationId"`
	Price         int                  `json:"price"`
	IsAvailable   bool                 `json:"isAvailable"`
	Status        models.ProductStatus `json:"status,omitempty"`
	DiscountPrice *int                 `json:"discountPrice,omitempty"`
}

// ResolveLocationPrice returns the product's offer at locationID. Without an
// entry for the location the product is NotOffered: unavailable, priced at
// the legacy single price, and carrying the product-level status.
func ResolveLocationPrice(p models.Product, locationID string) Offer {
	if lp, ok := p.LocationPrices[locationID]; ok {
		return Offer{
			Listing:       Offered,
			LocationID:    locationID,
			Price:         lp.Price,
			IsAvailable:   lp.IsAvailable,
			Status:        lp.Status,
			DiscountPrice: lp.DiscountPrice,
		}
	}
	return Offer{
		Listing:       NotOffered,
		LocationID:    locationID,
		Price:         p.Price,
		IsAvailable:   false,
		Status:        p.Status,
		DiscountPrice: p.DiscountPrice,
	}
}

// EffectivePrice is the price a customer pays: the discount price while the
// offer is on promotion, the regular price otherwise.
func (o Offer) EffectivePrice() int {
	if o.Status == models.ProductStatusPromotion && o.DiscountPrice != nil {
		return *o.DiscountPrice
	}
	return o.Price
}

func (o Offer) Orderable() bool {
	return o.Listing == Offered && o.IsAvailable
}
