package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a physical store branch.
//
// OpeningHours is display text only. Whether orders are accepted is decided by
// the global StoreSettings window, not by this field.
type Location struct {
	ID                  string         `gorm:"primaryKey;type:text" json:"id" firestore:"-"`
	Name                string         `gorm:"not null" json:"name" firestore:"name"`
	Address             string         `json:"address" firestore:"address"`
	Phone               string         `json:"phone" firestore:"phone"`
	WhatsApp            string         `json:"whatsapp,omitempty" firestore:"whatsapp"`
	OpeningHours        string         `json:"openingHours" firestore:"openingHours"`
	IsDeliveryAvailable bool           `json:"isDeliveryAvailable" firestore:"isDeliveryAvailable"`
	IsActive            bool           `json:"isActive" firestore:"isActive"`
	CreatedAt           time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt" firestore:"updatedAt"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-" firestore:"-"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
