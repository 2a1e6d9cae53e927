package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id" firestore:"-"`
	Name      string         `gorm:"not null" json:"name" firestore:"name"`
	Image     string         `json:"image" firestore:"image"`
	Order     int            `gorm:"column:sort_order;default:0" json:"order" firestore:"order"` // menu position
	CreatedAt time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt" firestore:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-" firestore:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
