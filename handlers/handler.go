package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/middleware"
	"restaurant-menu-api/models"
	"restaurant-menu-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler serves every API endpoint.
type Handler struct {
	auth        *services.AuthService
	categories  *services.CategoryService
	items       *services.ItemService
	templates   *services.TemplateService
	menus       *services.MenuService
	frontendURL string
	log         *zap.Logger
}

type Deps struct {
	Auth        *services.AuthService
	Categories  *services.CategoryService
	Items       *services.ItemService
	Templates   *services.TemplateService
	Menus       *services.MenuService
	FrontendURL string
	Log         *zap.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		auth:        d.Auth,
		categories:  d.Categories,
		items:       d.Items,
		templates:   d.Templates,
		menus:       d.Menus,
		frontendURL: d.FrontendURL,
		log:         log,
	}
}

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules used by request structs and
// makes validation errors name fields by their JSON key.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return services.PasswordStrong(fl.Field().String())
		}); err != nil {
			return
		}
		err = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return err
}

// respond writes err with the status of its kind. Internal errors are logged
// and answered with a generic message.
func (h *Handler) respond(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// bindJSON decodes the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "strongpassword":
		return "Password must include uppercase, lowercase, number, and special character"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// currentUser fetches the authenticated user, answering 401 if absent.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
		return nil, false
	}
	return user, true
}

// pathID reads a document id path parameter, answering 400 if malformed.
func pathID(c *gin.Context, param, kind string) (string, bool) {
	id := c.Param(param)
	if !services.IsValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + kind + " id"})
		return "", false
	}
	return id, true
}
