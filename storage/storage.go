package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"restaurant-menu-api/config"

	"github.com/google/uuid"
	"github.com/vincent-petithory/dataurl"
)

// AssetStore persists uploaded template assets.
type AssetStore interface {
	// Save stores asset for a restaurant and returns the URL to persist. Values
	// that are not data URLs are returned unchanged.
	Save(ctx context.Context, restaurantID, asset string) (string, error)

	// Remove deletes an asset previously returned by Save. URLs the store does
	// not own are ignored.
	Remove(ctx context.Context, assetURL string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeInline StorageType = "inline"
	StorageTypeLocal  StorageType = "local"
	StorageTypeS3     StorageType = "s3"
)

// New builds the asset store selected by cfg.
func New(ctx context.Context, cfg config.StorageConfig) (AssetStore, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeInline, "":
		return InlineStore{}, nil
	case StorageTypeLocal:
		store, err := NewLocalStore(cfg.LocalPath, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageTypeS3:
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// InlineStore keeps assets inside the template document as data URLs.
type InlineStore struct{}

func (InlineStore) Save(_ context.Context, _ string, asset string) (string, error) {
	return asset, nil
}

func (InlineStore) Remove(context.Context, string) error { return nil }

// decoded is a data URL split into what object stores need.
type decoded struct {
	key         string
	contentType string
	data        []byte
}

// decodeAsset parses a data URL and assigns it a fresh object key under the
// restaurant's prefix. ok is false when asset is not a data URL.
func decodeAsset(restaurantID, asset string) (d decoded, ok bool, err error) {
	if !strings.HasPrefix(asset, "data:") {
		return decoded{}, false, nil
	}
	du, err := dataurl.DecodeString(asset)
	if err != nil {
		return decoded{}, true, fmt.Errorf("decode data url: %w", err)
	}
	contentType := du.MediaType.ContentType()
	key := path.Join("templates", restaurantID, uuid.NewString()+extensionFor(contentType))
	return decoded{key: key, contentType: contentType, data: du.Data}, true, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".bin"
	}
}

// keyFromURL strips base from assetURL. ok is false for foreign URLs.
func keyFromURL(base, assetURL string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if base == "" || !strings.HasPrefix(assetURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(assetURL, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
