package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetPublicMenu returns a restaurant's menu without authentication
func (h *Handler) GetPublicMenu(c *gin.Context) {
	menu, err := h.menus.PublicMenu(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// Health reports whether the store answers
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Root describes the service
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant Menu API is running",
		"health":  "/health",
	})
}
