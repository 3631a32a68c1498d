package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AssetTypeImage = "image"
	AssetTypePDF   = "pdf"

	// CustomStyleID is the style every uploaded template renders with.
	CustomStyleID = "custom-upload"
)

// Template is a restaurant's uploaded menu design. Builtin templates are not
// stored.
type Template struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID string    `json:"restaurant_id" gorm:"size:36;not null;uniqueIndex:idx_templates_restaurant_name_key,priority:1"`
	Name         string    `json:"name" gorm:"not null"`
	NameKey      string    `json:"-" gorm:"not null;uniqueIndex:idx_templates_restaurant_name_key,priority:2"`
	Description  string    `json:"description"`
	AssetURL     string    `json:"asset_url"`
	AssetType    string    `json:"asset_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TemplateView is the shape both builtin and custom templates are served in.
type TemplateView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleID     string `json:"style_id"`
	IsCustom    bool   `json:"is_custom"`
	AssetURL    string `json:"asset_url"`
	AssetType   string `json:"asset_type"`
}

func (t *Template) View() TemplateView {
	return TemplateView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		StyleID:     CustomStyleID,
		IsCustom:    true,
		AssetURL:    t.AssetURL,
		AssetType:   t.AssetType,
	}
}
