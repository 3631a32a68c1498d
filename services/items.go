package services

import (
	"context"
	"math"
	"strings"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/models"

	"gorm.io/gorm"
)

// ItemService manages menu items. Every write checks that the referenced
// category exists for the same restaurant.
type ItemService struct {
	db         *gorm.DB
	categories *CategoryService
}

func NewItemService(db *gorm.DB, categories *CategoryService) *ItemService {
	return &ItemService{db: db, categories: categories}
}

type ItemInput struct {
	Name        string
	Category    string
	Description string
	ImageURL    string
	Price       float64
}

// RoundPrice rounds to cents, half away from zero.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

func (in ItemInput) validate() (name string, price float64, err error) {
	name = strings.TrimSpace(in.Name)
	if name == "" {
		return "", 0, apperr.Validation("Item name cannot be empty")
	}
	price = RoundPrice(in.Price)
	if math.IsNaN(in.Price) || in.Price <= 0 || price <= 0 {
		return "", 0, apperr.Validation("Price must be greater than 0")
	}
	return name, price, nil
}

// List returns the restaurant's items ordered by category, then name.
func (s *ItemService) List(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	return listItems(s.db.WithContext(ctx), restaurantID)
}

func listItems(db *gorm.DB, restaurantID string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := db.Where("restaurant_id = ?", restaurantID).
		Order("category asc").
		Order("name asc").
		Find(&items).Error
	return items, err
}

func (s *ItemService) Create(ctx context.Context, restaurantID string, in ItemInput) (*models.MenuItem, error) {
	name, price, err := in.validate()
	if err != nil {
		return nil, err
	}
	category, err := s.categories.RequireExisting(ctx, restaurantID, in.Category)
	if err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Category:     category,
		Description:  strings.TrimSpace(in.Description),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		Price:        price,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, restaurantID, id string, in ItemInput) (*models.MenuItem, error) {
	name, price, err := in.validate()
	if err != nil {
		return nil, err
	}
	category, err := s.categories.RequireExisting(ctx, restaurantID, in.Category)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	item, err := findItem(db, restaurantID, id)
	if err != nil {
		return nil, err
	}
	err = db.Model(item).Updates(map[string]interface{}{
		"name":        name,
		"category":    category,
		"description": strings.TrimSpace(in.Description),
		"image_url":   strings.TrimSpace(in.ImageURL),
		"price":       price,
	}).Error
	if err != nil {
		return nil, err
	}
	return findItem(db, restaurantID, id)
}

func (s *ItemService) Delete(ctx context.Context, restaurantID, id string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Delete(&models.MenuItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Item not found")
	}
	return nil
}

func findItem(db *gorm.DB, restaurantID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := db.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&item).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("Item not found")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
