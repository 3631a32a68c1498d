package handlers

import (
	"net/http"

	"restaurant-menu-api/qr"

	"github.com/gin-gonic/gin"
)

// RestaurantQR returns the public menu URL and a QR code pointing at it
func (h *Handler) RestaurantQR(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	target := qr.MenuURL(h.frontendURL, user.ID)
	dataURL, err := qr.DataURL(target)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"target_url":  target,
		"qr_data_url": dataURL,
	})
}
