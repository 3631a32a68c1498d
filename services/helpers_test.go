package services

import (
	"context"
	"testing"

	"restaurant-menu-api/config"
	"restaurant-menu-api/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDB(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// newRestaurant inserts a user directly, skipping password hashing.
func newRestaurant(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", RestaurantName: "Test Bistro"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCategory(t *testing.T, s *CategoryService, restaurantID, name string) *models.Category {
	t.Helper()
	c, err := s.Create(context.Background(), restaurantID, CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func mustItem(t *testing.T, s *ItemService, restaurantID, category, name string, price float64) *models.MenuItem {
	t.Helper()
	item, err := s.Create(context.Background(), restaurantID, ItemInput{Name: name, Category: category, Price: price})
	require.NoError(t, err)
	return item
}
