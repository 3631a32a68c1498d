package routes

import (
	"restaurant-menu-api/handlers"
	"restaurant-menu-api/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RouterConfig struct {
	Handler      *handlers.Handler
	Auth         gin.HandlerFunc
	DB           *gorm.DB
	Log          *zap.Logger
	AllowOrigins []string
	// AssetsURL and AssetsDir serve locally stored template assets when set.
	AssetsURL string
	AssetsDir string
}

// NewRouter builds the engine with logging, recovery and CORS installed.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(cfg.Log), middleware.Recovery(cfg.Log))
	if len(cfg.AllowOrigins) > 0 {
		r.Use(middleware.CORS(cfg.AllowOrigins))
	}

	r.GET("/", handlers.Root)
	r.GET("/health", handlers.Health(cfg.DB))
	if cfg.AssetsURL != "" && cfg.AssetsDir != "" {
		r.Static(cfg.AssetsURL, cfg.AssetsDir)
	}

	SetupRoutes(r, cfg.Handler, cfg.Auth)
	return r, nil
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, auth gin.HandlerFunc) {
	// ── Public routes ──────────────────────────────────────────────
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/public/menu/:restaurantId", h.GetPublicMenu)

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/")
	authed.Use(auth)
	{
		authed.GET("/auth/me", h.Me)
		authed.GET("/templates", h.ListBuiltinTemplates)
	}

	// ── Menu management ────────────────────────────────────────────
	menu := r.Group("/menu")
	menu.Use(auth)
	{
		menu.GET("/categories", h.ListCategories)
		menu.POST("/categories", h.CreateCategory)
		menu.PUT("/categories/:categoryId", h.UpdateCategory)
		menu.DELETE("/categories/:categoryId", h.DeleteCategory)

		menu.GET("/items", h.ListMenuItems)
		menu.POST("/items", h.AddMenuItem)
		menu.PUT("/items/:itemId", h.UpdateMenuItem)
		menu.DELETE("/items/:itemId", h.DeleteMenuItem)
	}

	// ── Restaurant settings ────────────────────────────────────────
	restaurant := r.Group("/restaurant")
	restaurant.Use(auth)
	{
		restaurant.GET("/templates", h.ListRestaurantTemplates)
		restaurant.POST("/templates", h.CreateRestaurantTemplate)
		restaurant.PUT("/templates/:templateId", h.UpdateRestaurantTemplate)
		restaurant.DELETE("/templates/:templateId", h.DeleteRestaurantTemplate)
		restaurant.PUT("/template", h.SelectTemplate)
		restaurant.GET("/qr", h.RestaurantQR)
	}
}
