package handlers

import (
	"net/http"

	"restaurant-menu-api/services"

	"github.com/gin-gonic/gin"
)

type MenuItemRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=120"`
	Category    string  `json:"category" binding:"required,min=1,max=80"`
	Description string  `json:"description" binding:"max=300"`
	ImageURL    string  `json:"image_url" binding:"max=2000000"`
	Price       float64 `json:"price" binding:"gt=0"`
}

func (r MenuItemRequest) input() services.ItemInput {
	return services.ItemInput{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
	}
}

// ListMenuItems returns the caller's items ordered by category and name
func (h *Handler) ListMenuItems(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.items.List(c.Request.Context(), user.ID)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddMenuItem adds a new item under an existing category
func (h *Handler) AddMenuItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req MenuItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), user.ID, req.input())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem replaces an item's fields (only by the owner)
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "itemId", "item")
	if !ok {
		return
	}
	var req MenuItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem removes a menu item
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "itemId", "item")
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
