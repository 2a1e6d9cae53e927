package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusNone      ProductStatus = ""
	ProductStatusNew       ProductStatus = "new"
	ProductStatusPromotion ProductStatus = "promotion"
)

func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusNone, ProductStatusNew, ProductStatusPromotion:
		return true
	}
	return false
}

// LocationPrice is a per-location override of a product's price and availability.
type LocationPrice struct {
	LocationID    string        `json:"locationId" firestore:"locationId"`
	Price         int           `json:"price" firestore:"price"`
	IsAvailable   bool          `json:"isAvailable" firestore:"isAvailable"`
	Status        ProductStatus `json:"status,omitempty" firestore:"status"`
	DiscountPrice *int          `json:"discountPrice,omitempty" firestore:"discountPrice,omitempty"`
}

// LocationPrices is keyed by location id. On the wire it is a list of entries
// ordered by location id, which is what the storefront clients send and expect.
type LocationPrices map[string]LocationPrice

func (lp LocationPrices) MarshalJSON() ([]byte, error) {
	list := make([]LocationPrice, 0, len(lp))
	for id, p := range lp {
		p.LocationID = id
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LocationID < list[j].LocationID })
	return json.Marshal(list)
}

func (lp *LocationPrices) UnmarshalJSON(data []byte) error {
	var list []LocationPrice
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(LocationPrices, len(list))
	for _, p := range list {
		if p.LocationID == "" {
			return fmt.Errorf("location price entry without locationId")
		}
		out[p.LocationID] = p
	}
	*lp = out
	return nil
}

type Product struct {
	ID             string         `gorm:"primaryKey;type:text" json:"id" firestore:"-"`
	Name           string         `gorm:"not null;index" json:"name" firestore:"name"`
	Description    string         `json:"description" firestore:"description"`
	Image          string         `json:"image" firestore:"image"`
	CategoryID     string         `gorm:"type:text;index" json:"categoryId" firestore:"categoryId"`
	Price          int            `gorm:"default:0" json:"price" firestore:"price"` // legacy single price
	Status         ProductStatus  `json:"status,omitempty" firestore:"status"`
	DiscountPrice  *int           `json:"discountPrice,omitempty" firestore:"discountPrice,omitempty"`
	LocationPrices LocationPrices `gorm:"type:text;serializer:json" json:"locationPrices" firestore:"locationPrices"`
	CreatedAt      time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" firestore:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-" firestore:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
