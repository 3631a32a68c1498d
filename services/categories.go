package services

import (
	"context"
	"strings"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/models"

	"gorm.io/gorm"
)

const categoryExists = "Category already exists"

// CategoryService owns categories and keeps item.category in step with them.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
}

// List returns the restaurant's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, restaurantID string) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name asc").
		Find(&categories).Error
	return categories, err
}

// Create inserts a category. A name colliding case-insensitively with another
// category of the same restaurant is a Conflict.
func (s *CategoryService) Create(ctx context.Context, restaurantID string, in CategoryInput) (*models.Category, error) {
	name := NormalizeName(in.Name)
	if name == "" {
		return nil, apperr.Validation("Category name cannot be empty")
	}

	category := &models.Category{
		RestaurantID: restaurantID,
		Name:         name,
		NameKey:      NameKey(name),
		Description:  strings.TrimSpace(in.Description),
		ImageURL:     strings.TrimSpace(in.ImageURL),
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, translateWrite(err, categoryExists)
	}
	return category, nil
}

// Update renames and re-describes a category. When the display name changes,
// every item of the restaurant filed under the old name moves to the new one
// in the same transaction.
func (s *CategoryService) Update(ctx context.Context, restaurantID, id string, in CategoryInput) (*models.Category, error) {
	var updated models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findCategory(tx, restaurantID, id)
		if err != nil {
			return err
		}

		name := NormalizeName(in.Name)
		if name == "" {
			return apperr.Validation("Category name cannot be empty")
		}

		err = tx.Model(&models.Category{}).
			Where("id = ? AND restaurant_id = ?", current.ID, restaurantID).
			Updates(map[string]interface{}{
				"name":        name,
				"name_key":    NameKey(name),
				"description": strings.TrimSpace(in.Description),
				"image_url":   strings.TrimSpace(in.ImageURL),
			}).Error
		if err != nil {
			return translateWrite(err, categoryExists)
		}

		if current.Name != name {
			err = tx.Model(&models.MenuItem{}).
				Where("restaurant_id = ? AND category = ?", restaurantID, current.Name).
				Update("category", name).Error
			if err != nil {
				return err
			}
		}

		return tx.Where("id = ? AND restaurant_id = ?", current.ID, restaurantID).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a category and every item of the restaurant filed under it.
func (s *CategoryService) Delete(ctx context.Context, restaurantID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findCategory(tx, restaurantID, id)
		if err != nil {
			return err
		}
		err = tx.Where("restaurant_id = ? AND category = ?", restaurantID, current.Name).
			Delete(&models.MenuItem{}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ? AND restaurant_id = ?", current.ID, restaurantID).
			Delete(&models.Category{}).Error
	})
}

// RequireExisting resolves a raw category name to the stored display name of
// the restaurant's matching category. Items may only reference categories that
// already exist.
func (s *CategoryService) RequireExisting(ctx context.Context, restaurantID, rawName string) (string, error) {
	key := NameKey(NormalizeName(rawName))
	var category models.Category
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND name_key = ?", restaurantID, key).
		First(&category).Error
	if isNotFound(err) {
		return "", apperr.Validation("Category not found. Please create category first.")
	}
	if err != nil {
		return "", err
	}
	return category.Name, nil
}

func findCategory(tx *gorm.DB, restaurantID, id string) (*models.Category, error) {
	var category models.Category
	err := tx.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&category).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("Category not found")
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}
