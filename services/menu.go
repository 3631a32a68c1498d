package services

import (
	"context"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type CategoryMeta struct {
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// PublicMenu is the anonymous, read-only view of a restaurant's menu.
type PublicMenu struct {
	RestaurantID      string                       `json:"restaurant_id"`
	RestaurantName    string                       `json:"restaurant_name"`
	TemplateID        string                       `json:"template_id"`
	TemplateName      string                       `json:"template_name"`
	TemplateStyleID   string                       `json:"template_style_id"`
	TemplateAssetURL  string                       `json:"template_asset_url"`
	TemplateAssetType string                       `json:"template_asset_type"`
	CategoryMeta      map[string]CategoryMeta      `json:"category_meta"`
	Categories        map[string][]models.MenuItem `json:"categories"`
}

// MenuService builds public menus.
type MenuService struct {
	db        *gorm.DB
	templates *TemplateService
}

func NewMenuService(db *gorm.DB, templates *TemplateService) *MenuService {
	return &MenuService{db: db, templates: templates}
}

// PublicMenu returns the restaurant's items grouped by category name along
// with its resolved template.
func (s *MenuService) PublicMenu(ctx context.Context, restaurantID string) (*PublicMenu, error) {
	if !IsValidID(restaurantID) {
		return nil, apperr.NotFound("Restaurant not found")
	}

	var restaurant models.User
	err := s.db.WithContext(ctx).Where("id = ?", restaurantID).First(&restaurant).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("Restaurant not found")
	}
	if err != nil {
		return nil, err
	}

	tpl, err := s.templates.ResolveOrDefault(ctx, restaurant.ID, restaurant.View().TemplateID)
	if err != nil {
		return nil, err
	}

	var (
		categories []models.Category
		items      []models.MenuItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("restaurant_id = ?", restaurant.ID).Find(&categories).Error
	})
	g.Go(func() error {
		var err error
		items, err = listItems(s.db.WithContext(gctx), restaurant.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	menu := &PublicMenu{
		RestaurantID:      restaurant.ID,
		RestaurantName:    restaurant.RestaurantName,
		TemplateID:        tpl.ID,
		TemplateName:      tpl.Name,
		TemplateStyleID:   tpl.StyleID,
		TemplateAssetURL:  tpl.AssetURL,
		TemplateAssetType: tpl.AssetType,
		CategoryMeta:      make(map[string]CategoryMeta, len(categories)),
		Categories:        make(map[string][]models.MenuItem),
	}
	for _, c := range categories {
		menu.CategoryMeta[c.Name] = CategoryMeta{Description: c.Description, ImageURL: c.ImageURL}
	}
	for _, item := range items {
		menu.Categories[item.Category] = append(menu.Categories[item.Category], item)
	}
	return menu, nil
}
