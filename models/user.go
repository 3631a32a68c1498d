package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTemplateID is the builtin template every restaurant starts with.
const DefaultTemplateID = "classic-blue"

// User is a restaurant account. Every category, item and custom template is
// scoped to one User.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"not null"`
	RestaurantName string    `json:"restaurant_name" gorm:"not null"`
	TemplateID     string    `json:"template_id" gorm:"not null;default:'classic-blue'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.TemplateID == "" {
		u.TemplateID = DefaultTemplateID
	}
	return nil
}

// UserView is the public projection of a User.
type UserView struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	RestaurantName string `json:"restaurant_name"`
	TemplateID     string `json:"template_id"`
}

func (u *User) View() UserView {
	templateID := u.TemplateID
	if templateID == "" {
		templateID = DefaultTemplateID
	}
	return UserView{
		ID:             u.ID,
		Email:          u.Email,
		RestaurantName: u.RestaurantName,
		TemplateID:     templateID,
	}
}
