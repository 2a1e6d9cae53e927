package models

import (
	"fmt"
	"time"
)

// SettingsDocumentID identifies the single settings aggregate (config/main).
const SettingsDocumentID = "main"

const (
	DefaultOpenTime  = "08:00"
	DefaultCloseTime = "23:00"
)

// DeliverySetting maps the distance band [Min, Max) in kilometres to a flat fee.
type DeliverySetting struct {
	Min float64 `json:"min" firestore:"min"`
	Max float64 `json:"max" firestore:"max"`
	Fee int     `json:"fee" firestore:"fee"`
}

func (d DeliverySetting) Contains(distanceKm float64) bool {
	return d.Min <= distanceKm && distanceKm < d.Max
}

func (d DeliverySetting) Validate() error {
	if d.Min < 0 {
		return fmt.Errorf("min distance %.2f must not be negative", d.Min)
	}
	if d.Max <= d.Min {
		return fmt.Errorf("max distance %.2f must be greater than min %.2f", d.Max, d.Min)
	}
	if d.Fee < 0 {
		return fmt.Errorf("fee %d must not be negative", d.Fee)
	}
	return nil
}

// ValidateDeliverySettings checks every tier. Overlaps are allowed: the first
// matching tier in list order wins, so the list is kept exactly as entered.
func ValidateDeliverySettings(tiers []DeliverySetting) error {
	if len(tiers) == 0 {
		return fmt.Errorf("at least one delivery tier is required")
	}
	for i, t := range tiers {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tier %d: %w", i+1, err)
		}
	}
	return nil
}

type StoreSettings struct {
	OpenTime            string `json:"openTime" firestore:"openTime"`
	CloseTime           string `json:"closeTime" firestore:"closeTime"`
	IsDeliveryAvailable bool   `json:"isDeliveryAvailable" firestore:"isDeliveryAvailable"`
	HeroSubtitle        string `json:"heroSubtitle" firestore:"heroSubtitle"`
	HeroDescription     string `json:"heroDescription" firestore:"heroDescription"`
}

func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		OpenTime:            DefaultOpenTime,
		CloseTime:           DefaultCloseTime,
		IsDeliveryAvailable: true,
	}
}

// Settings is the admin configuration aggregate. Each field group is written
// independently and every write bumps Version; writes are last-write-wins
// with no version check.
type Settings struct {
	ID               string            `gorm:"primaryKey;type:text" json:"-" firestore:"-"`
	ServiceFees      int               `json:"serviceFees" firestore:"serviceFees"`
	PromotedProducts []string          `gorm:"type:text;serializer:json" json:"promotedProducts" firestore:"promotedProducts"`
	StoreSettings    StoreSettings     `gorm:"type:text;serializer:json" json:"storeSettings" firestore:"storeSettings"`
	DeliverySettings []DeliverySetting `gorm:"type:text;serializer:json" json:"deliverySettings" firestore:"deliverySettings"`
	Version          int64             `json:"version" firestore:"version"`
	UpdatedAt        time.Time         `json:"updatedAt" firestore:"updatedAt"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:               SettingsDocumentID,
		PromotedProducts: []string{},
		StoreSettings:    DefaultStoreSettings(),
		DeliverySettings: []DeliverySetting{},
	}
}

// ApplyDefaults fills the groups that were never saved.
func (s *Settings) ApplyDefaults() {
	s.ID = SettingsDocumentID
	if s.StoreSettings == (StoreSettings{}) {
		s.StoreSettings = DefaultStoreSettings()
	}
	if s.StoreSettings.OpenTime == "" {
		s.StoreSettings.OpenTime = DefaultOpenTime
	}
	if s.StoreSettings.CloseTime == "" {
		s.StoreSettings.CloseTime = DefaultCloseTime
	}
	if s.PromotedProducts == nil {
		s.PromotedProducts = []string{}
	}
	if s.DeliverySettings == nil {
		s.DeliverySettings = []DeliverySetting{}
	}
}
