package handlers

import (
	"net/http"

	"restaurant-menu-api/services"

	"github.com/gin-gonic/gin"
)

type TemplateRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=60"`
	Description string `json:"description" binding:"max=200"`
	AssetURL    string `json:"asset_url" binding:"max=5000000"`
	AssetType   string `json:"asset_type" binding:"max=20"`
}

func (r TemplateRequest) input() services.TemplateInput {
	return services.TemplateInput{
		Name:        r.Name,
		Description: r.Description,
		AssetURL:    r.AssetURL,
		AssetType:   r.AssetType,
	}
}

type TemplateSelectionRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
}

// ListBuiltinTemplates returns the builtin catalog shared by every restaurant
func (h *Handler) ListBuiltinTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": services.BuiltinTemplates()})
}

// ListRestaurantTemplates returns builtins followed by the caller's uploads
func (h *Handler) ListRestaurantTemplates(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	templates, err := h.templates.ListForRestaurant(c.Request.Context(), user.ID)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateRestaurantTemplate registers an uploaded template
func (h *Handler) CreateRestaurantTemplate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.templates.Create(c.Request.Context(), user.ID, req.input())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

// UpdateRestaurantTemplate edits one of the caller's uploads
func (h *Handler) UpdateRestaurantTemplate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "templateId", "template")
	if !ok {
		return
	}
	var req TemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.templates.Update(c.Request.Context(), user.ID, id, req.input())
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// DeleteRestaurantTemplate removes an upload and returns the caller's profile,
// whose template_id falls back to the default if the upload was selected
func (h *Handler) DeleteRestaurantTemplate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "templateId", "template")
	if !ok {
		return
	}
	updated, err := h.templates.Delete(c.Request.Context(), user, id)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated.View()})
}

// SelectTemplate sets the caller's active template
func (h *Handler) SelectTemplate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req TemplateSelectionRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.templates.Select(c.Request.Context(), user, req.TemplateID)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated.View()})
}
