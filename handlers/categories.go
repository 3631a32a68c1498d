package handlers

import (
	"net/http"

	"restaurant-menu-api/services"

	"github.com/gin-gonic/gin"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=80"`
	Description string `json:"description" binding:"max=220"`
	ImageURL    string `json:"image_url" binding:"max=2000000"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{Name: r.Name, Description: r.Description, ImageURL: r.ImageURL}
}

// ListCategories returns the caller's categories
func (h *Handler) ListCategories(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	categories, err := h.categories.List(c.Request.Context(), user.ID)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory adds a category to the caller's menu
func (h *Handler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), user.ID, req.input())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category; items follow the new name
func (h *Handler) UpdateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "categoryId", "category")
	if !ok {
		return
	}
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category together with its items
func (h *Handler) DeleteCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "categoryId", "category")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
