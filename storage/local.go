package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes assets below basePath and serves them from publicBaseURL.
type LocalStore struct {
	basePath      string
	publicBaseURL string
}

// NewLocalStore creates a new local storage instance
func NewLocalStore(basePath, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "/assets"
	}
	return &LocalStore{
		basePath:      basePath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// BasePath is the directory assets are written to.
func (s *LocalStore) BasePath() string { return s.basePath }

// PublicBaseURL is the prefix of every URL Save returns.
func (s *LocalStore) PublicBaseURL() string { return s.publicBaseURL }

func (s *LocalStore) Save(_ context.Context, restaurantID, asset string) (string, error) {
	d, ok, err := decodeAsset(restaurantID, asset)
	if err != nil || !ok {
		return asset, err
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(d.key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, d.data, 0644); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.publicBaseURL + "/" + d.key, nil
}

func (s *LocalStore) Remove(_ context.Context, assetURL string) error {
	key, ok := keyFromURL(s.publicBaseURL, assetURL)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
