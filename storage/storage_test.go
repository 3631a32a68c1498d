package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"restaurant-menu-api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const restaurantID = "5f0c7c1e-3a55-4d3c-9a3b-6f1d2f0b9a11"

func pngDataURL(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestInlineStoreKeepsAsset(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Type: "inline"})
	require.NoError(t, err)

	asset := pngDataURL("png-bytes")
	got, err := store.Save(context.Background(), restaurantID, asset)
	require.NoError(t, err)
	assert.Equal(t, asset, got)
	assert.NoError(t, store.Remove(context.Background(), got))
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestLocalStoreSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/assets/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Save(ctx, restaurantID, pngDataURL("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/assets/templates/"+restaurantID+"/"), url)
	require.True(t, strings.HasSuffix(url, ".png"), url)

	key := strings.TrimPrefix(url, "/assets/")
	written, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(written))

	require.NoError(t, store.Remove(ctx, url))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// Removing twice or removing a foreign URL is a no-op.
	assert.NoError(t, store.Remove(ctx, url))
	assert.NoError(t, store.Remove(ctx, "https://cdn.example.com/x.png"))
}

func TestLocalStorePassesThroughPlainURLs(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	got, err := store.Save(context.Background(), restaurantID, "https://cdn.example.com/menu.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/menu.pdf", got)
}

func TestLocalStoreRejectsBrokenDataURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), restaurantID, "data:image/png;base64")
	assert.Error(t, err)
}

type fakeS3 struct {
	puts    map[string][]byte
	types   map[string]string
	deletes []string
	failPut bool
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut {
		return nil, errors.New("access denied")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StoreSaveAndRemove(t *testing.T) {
	fake := &fakeS3{puts: map[string][]byte{}, types: map[string]string{}}
	store := NewS3StoreWithClient(fake, "menus", "https://menus.s3.us-east-1.amazonaws.com/")
	ctx := context.Background()

	pdf := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))
	url, err := store.Save(ctx, restaurantID, pdf)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://menus.s3.us-east-1.amazonaws.com/templates/"), url)

	key := strings.TrimPrefix(url, "https://menus.s3.us-east-1.amazonaws.com/")
	assert.Equal(t, "%PDF-1.4", string(fake.puts[key]))
	assert.Equal(t, "application/pdf", fake.types[key])

	require.NoError(t, store.Remove(ctx, url))
	require.NoError(t, store.Remove(ctx, "data:image/png;base64,AAAA"))
	assert.Equal(t, []string{key}, fake.deletes)
}

func TestS3StoreUploadFailure(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{failPut: true}, "menus", "https://cdn.example.com")
	_, err := store.Save(context.Background(), restaurantID, pngDataURL("x"))
	assert.Error(t, err)
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		base, url string
		wantKey   string
		wantOK    bool
	}{
		{"/assets", "/assets/templates/a/b.png", "templates/a/b.png", true},
		{"/assets", "/other/b.png", "", false},
		{"/assets", "/assets/../etc/passwd", "", false},
		{"", "/assets/x", "", false},
		{"https://cdn.example.com", "https://cdn.example.com/", "", false},
	}
	for _, tt := range tests {
		key, ok := keyFromURL(tt.base, tt.url)
		if key != tt.wantKey || ok != tt.wantOK {
			t.Errorf("keyFromURL(%q, %q) = (%q, %v), want (%q, %v)", tt.base, tt.url, key, ok, tt.wantKey, tt.wantOK)
		}
	}
}
