package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups menu items. (RestaurantID, NameKey) is unique.
type Category struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID string    `json:"restaurant_id" gorm:"size:36;not null;uniqueIndex:idx_categories_restaurant_name_key,priority:1"`
	Name         string    `json:"name" gorm:"not null"`
	NameKey      string    `json:"-" gorm:"not null;uniqueIndex:idx_categories_restaurant_name_key,priority:2"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// MenuItem references its category by the category's current display name.
type MenuItem struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID string    `json:"restaurant_id" gorm:"size:36;not null;index:idx_menu_items_restaurant_category,priority:1"`
	Name         string    `json:"name" gorm:"not null"`
	Category     string    `json:"category" gorm:"not null;index:idx_menu_items_restaurant_category,priority:2"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	Price        float64   `json:"price" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
