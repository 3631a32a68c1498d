package services

import (
	"context"
	"strings"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/models"
	"restaurant-menu-api/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const templateExists = "Template already exists"

// builtinTemplates is shared by every restaurant and never changes. The first
// entry is the fallback for unresolvable selections.
var builtinTemplates = [...]models.TemplateView{
	{
		ID:          "classic-blue",
		Name:        "Classic Blue",
		Description: "Bold blue section headers with clean menu rows.",
		StyleID:     "classic-blue",
	},
	{
		ID:          "slate-minimal",
		Name:        "Slate Minimal",
		Description: "Minimal monochrome layout for modern bistros.",
		StyleID:     "slate-minimal",
	},
	{
		ID:          "warm-paper",
		Name:        "Warm Paper",
		Description: "Soft paper-like tones with serif section titles.",
		StyleID:     "warm-paper",
	},
}

// BuiltinTemplates returns a copy of the builtin catalog in display order.
func BuiltinTemplates() []models.TemplateView {
	out := make([]models.TemplateView, len(builtinTemplates))
	copy(out, builtinTemplates[:])
	return out
}

// DefaultTemplate is the builtin used when a selection cannot be resolved.
func DefaultTemplate() models.TemplateView {
	return builtinTemplates[0]
}

func builtinByID(id string) (models.TemplateView, bool) {
	for _, tpl := range builtinTemplates {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return models.TemplateView{}, false
}

// IsValidID reports whether id has the shape of a stored document id.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ResolveAssetFields validates an asset URL and type as a pair. Both empty
// means no asset. A URL without a type has its type inferred from the data URL
// media prefix.
func ResolveAssetFields(rawURL, rawType string) (assetURL, assetType string, err error) {
	assetURL = strings.TrimSpace(rawURL)
	assetType = strings.ToLower(strings.TrimSpace(rawType))

	if assetURL == "" && assetType == "" {
		return "", "", nil
	}
	if assetURL != "" && assetType == "" {
		switch {
		case strings.HasPrefix(assetURL, "data:image/"):
			assetType = models.AssetTypeImage
		case strings.HasPrefix(assetURL, "data:application/pdf"):
			assetType = models.AssetTypePDF
		default:
			return "", "", apperr.Validation("Invalid template file type")
		}
	}
	if assetURL == "" {
		return "", "", apperr.Validation("Template file is required for file type")
	}
	if assetType != models.AssetTypeImage && assetType != models.AssetTypePDF {
		return "", "", apperr.Validation("Invalid template file type")
	}
	return assetURL, assetType, nil
}

// TemplateService resolves builtin and custom templates and manages a
// restaurant's custom uploads and selection.
type TemplateService struct {
	db     *gorm.DB
	assets storage.AssetStore
	log    *zap.Logger
}

// TemplateServiceOption is a functional option for TemplateService
type TemplateServiceOption func(*TemplateService)

// WithAssetStore sets where uploaded assets are kept
func WithAssetStore(store storage.AssetStore) TemplateServiceOption {
	return func(s *TemplateService) {
		s.assets = store
	}
}

// WithLogger sets the logger used for best-effort cleanup failures
func WithLogger(log *zap.Logger) TemplateServiceOption {
	return func(s *TemplateService) {
		s.log = log
	}
}

func NewTemplateService(db *gorm.DB, opts ...TemplateServiceOption) *TemplateService {
	s := &TemplateService{db: db, assets: storage.InlineStore{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type TemplateInput struct {
	Name        string
	Description string
	AssetURL    string
	AssetType   string
}

// ListForRestaurant returns the builtins followed by the restaurant's custom
// templates ordered by name.
func (s *TemplateService) ListForRestaurant(ctx context.Context, restaurantID string) ([]models.TemplateView, error) {
	var custom []models.Template
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name asc").
		Find(&custom).Error
	if err != nil {
		return nil, err
	}

	views := BuiltinTemplates()
	for i := range custom {
		views = append(views, custom[i].View())
	}
	return views, nil
}

// Resolve finds a template by id for a restaurant. Builtin ids resolve for
// everyone; custom ids only for their owner.
func (s *TemplateService) Resolve(ctx context.Context, restaurantID, templateID string) (models.TemplateView, error) {
	return resolveTemplate(s.db.WithContext(ctx), restaurantID, templateID)
}

func resolveTemplate(db *gorm.DB, restaurantID, templateID string) (models.TemplateView, error) {
	if tpl, ok := builtinByID(templateID); ok {
		return tpl, nil
	}
	if !IsValidID(templateID) {
		return models.TemplateView{}, apperr.NotFound("Template not found")
	}
	tpl, err := findTemplate(db, restaurantID, templateID)
	if err != nil {
		return models.TemplateView{}, err
	}
	return tpl.View(), nil
}

// ResolveOrDefault is Resolve with the first builtin as fallback for ids that
// no longer resolve.
func (s *TemplateService) ResolveOrDefault(ctx context.Context, restaurantID, templateID string) (models.TemplateView, error) {
	tpl, err := s.Resolve(ctx, restaurantID, templateID)
	if apperr.Is(err, apperr.KindNotFound) {
		s.log.Warn("stale template selection, using default",
			zap.String("restaurant_id", restaurantID),
			zap.String("template_id", templateID))
		return DefaultTemplate(), nil
	}
	return tpl, err
}

func (s *TemplateService) Create(ctx context.Context, restaurantID string, in TemplateInput) (models.TemplateView, error) {
	name, assetURL, assetType, err := validateTemplateInput(in)
	if err != nil {
		return models.TemplateView{}, err
	}

	stored, err := s.assets.Save(ctx, restaurantID, assetURL)
	if err != nil {
		return models.TemplateView{}, err
	}

	tpl := &models.Template{
		RestaurantID: restaurantID,
		Name:         name,
		NameKey:      NameKey(name),
		Description:  strings.TrimSpace(in.Description),
		AssetURL:     stored,
		AssetType:    assetType,
	}
	if err := s.db.WithContext(ctx).Create(tpl).Error; err != nil {
		s.discardAsset(ctx, stored, assetURL)
		return models.TemplateView{}, translateWrite(err, templateExists)
	}
	return tpl.View(), nil
}

func (s *TemplateService) Update(ctx context.Context, restaurantID, id string, in TemplateInput) (models.TemplateView, error) {
	name, assetURL, assetType, err := validateTemplateInput(in)
	if err != nil {
		return models.TemplateView{}, err
	}

	db := s.db.WithContext(ctx)
	existing, err := findTemplate(db, restaurantID, id)
	if err != nil {
		return models.TemplateView{}, err
	}

	stored := existing.AssetURL
	if assetURL != existing.AssetURL {
		if stored, err = s.assets.Save(ctx, restaurantID, assetURL); err != nil {
			return models.TemplateView{}, err
		}
	}

	err = db.Model(existing).Updates(map[string]interface{}{
		"name":        name,
		"name_key":    NameKey(name),
		"description": strings.TrimSpace(in.Description),
		"asset_url":   stored,
		"asset_type":  assetType,
	}).Error
	if err != nil {
		if stored != existing.AssetURL {
			s.discardAsset(ctx, stored, assetURL)
		}
		return models.TemplateView{}, translateWrite(err, templateExists)
	}
	if stored != existing.AssetURL {
		s.discardAsset(ctx, existing.AssetURL, "")
	}

	updated, err := findTemplate(db, restaurantID, id)
	if err != nil {
		return models.TemplateView{}, err
	}
	return updated.View(), nil
}

// Delete removes a custom template. If it was the restaurant's selection the
// selection falls back to the default builtin in the same transaction. The
// returned user reflects the post-delete state.
func (s *TemplateService) Delete(ctx context.Context, user *models.User, id string) (*models.User, error) {
	var assetURL string
	var updated models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findTemplate(tx, user.ID, id)
		if err != nil {
			return err
		}
		assetURL = existing.AssetURL

		if err := tx.Where("id = ? AND restaurant_id = ?", existing.ID, user.ID).Delete(&models.Template{}).Error; err != nil {
			return err
		}
		err = tx.Model(&models.User{}).
			Where("id = ? AND template_id = ?", user.ID, existing.ID).
			Update("template_id", models.DefaultTemplateID).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", user.ID).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	s.discardAsset(ctx, assetURL, "")
	return &updated, nil
}

// Select makes templateID the restaurant's active template.
func (s *TemplateService) Select(ctx context.Context, user *models.User, templateID string) (*models.User, error) {
	db := s.db.WithContext(ctx)
	tpl, err := resolveTemplate(db, user.ID, strings.TrimSpace(templateID))
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Validation("Invalid template id")
	}
	if err != nil {
		return nil, err
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("template_id", tpl.ID).Error; err != nil {
		return nil, err
	}
	var updated models.User
	if err := db.Where("id = ?", user.ID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// discardAsset removes stored from the asset store unless it is the caller's
// original inline value. Failures are logged only.
func (s *TemplateService) discardAsset(ctx context.Context, stored, original string) {
	if stored == "" || stored == original {
		return
	}
	if err := s.assets.Remove(ctx, stored); err != nil {
		s.log.Warn("failed to remove template asset", zap.String("asset_url", stored), zap.Error(err))
	}
}

func validateTemplateInput(in TemplateInput) (name, assetURL, assetType string, err error) {
	name = NormalizeName(in.Name)
	if name == "" {
		return "", "", "", apperr.Validation("Template name cannot be empty")
	}
	assetURL, assetType, err = ResolveAssetFields(in.AssetURL, in.AssetType)
	if err != nil {
		return "", "", "", err
	}
	return name, assetURL, assetType, nil
}

func findTemplate(db *gorm.DB, restaurantID, id string) (*models.Template, error) {
	var tpl models.Template
	err := db.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&tpl).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("Template not found")
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}
