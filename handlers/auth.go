package handlers

import (
	"net/http"

	"restaurant-menu-api/services"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8,max=128,strongpassword"`
	RestaurantName string `json:"restaurant_name" binding:"required,min=2,max=25"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// Register creates a new restaurant account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		RestaurantName: req.RestaurantName,
	})
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Registered successfully. Please login."})
}

// Login authenticates a restaurant and returns an access token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user.View(),
	})
}

// Me returns the authenticated restaurant's profile
func (h *Handler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.View()})
}
