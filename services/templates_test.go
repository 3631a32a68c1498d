package services

import (
	"context"
	"testing"

	"restaurant-menu-api/apperr"
	"restaurant-menu-api/models"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pngDataURL = "data:image/png;base64,iVBORw0KGgo="

func TestResolveAssetFields(t *testing.T) {
	tests := []struct {
		name      string
		url, typ  string
		wantURL   string
		wantType  string
		wantError bool
	}{
		{name: "none", url: "", typ: ""},
		{name: "image inferred", url: pngDataURL, wantURL: pngDataURL, wantType: models.AssetTypeImage},
		{name: "pdf inferred", url: "data:application/pdf;base64,JVBER", wantURL: "data:application/pdf;base64,JVBER", wantType: models.AssetTypePDF},
		{name: "explicit type normalized", url: "https://cdn/x.png", typ: " IMAGE ", wantURL: "https://cdn/x.png", wantType: models.AssetTypeImage},
		{name: "uninferable url", url: "https://cdn/x.png", wantError: true},
		{name: "type without url", typ: "pdf", wantError: true},
		{name: "unknown type", url: pngDataURL, typ: "video", wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotURL, gotType, err := ResolveAssetFields(tt.url, tt.typ)
			if tt.wantError {
				assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, gotURL)
			assert.Equal(t, tt.wantType, gotType)
		})
	}
}

func TestBuiltinTemplatesAreSharedAndImmutable(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	ctx := context.Background()
	a := newRestaurant(t, db, "a@example.com")
	b := newRestaurant(t, db, "b@example.com")

	for _, builtin := range BuiltinTemplates() {
		fromA, err := svc.Resolve(ctx, a.ID, builtin.ID)
		require.NoError(t, err)
		fromB, err := svc.Resolve(ctx, b.ID, builtin.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(fromA, fromB); diff != "" {
			t.Errorf("builtin %s differs across restaurants (-a +b):\n%s", builtin.ID, diff)
		}
		assert.False(t, fromA.IsCustom)
	}

	list := BuiltinTemplates()
	list[0].Name = "mutated"
	assert.Equal(t, "Classic Blue", DefaultTemplate().Name)
	assert.Equal(t, models.DefaultTemplateID, DefaultTemplate().ID)
}

func TestTemplateCreateAndList(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	ctx := context.Background()
	owner := newRestaurant(t, db, "a@example.com")
	other := newRestaurant(t, db, "b@example.com")

	_, err := svc.Create(ctx, owner.ID, TemplateInput{Name: "Zebra", AssetURL: pngDataURL})
	require.NoError(t, err)
	tpl, err := svc.Create(ctx, owner.ID, TemplateInput{Name: "  Autumn   Specials ", AssetURL: pngDataURL})
	require.NoError(t, err)
	assert.Equal(t, "Autumn Specials", tpl.Name)
	assert.True(t, tpl.IsCustom)
	assert.Equal(t, models.CustomStyleID, tpl.StyleID)
	assert.Equal(t, models.AssetTypeImage, tpl.AssetType)

	_, err = svc.Create(ctx, owner.ID, TemplateInput{Name: "autumn specials"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Create(ctx, other.ID, TemplateInput{Name: "Autumn Specials"})
	assert.NoError(t, err)

	list, err := svc.ListForRestaurant(ctx, owner.ID)
	require.NoError(t, err)
	builtins := BuiltinTemplates()
	require.Len(t, list, len(builtins)+2)
	assert.Equal(t, builtins, list[:len(builtins)])
	assert.Equal(t, "Autumn Specials", list[len(builtins)].Name)
	assert.Equal(t, "Zebra", list[len(builtins)+1].Name)
}

func TestTemplateCrossTenantIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	ctx := context.Background()
	owner := newRestaurant(t, db, "a@example.com")
	intruder := newRestaurant(t, db, "b@example.com")
	tpl, err := svc.Create(ctx, owner.ID, TemplateInput{Name: "Mine"})
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, intruder.ID, tpl.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Update(ctx, intruder.ID, tpl.ID, TemplateInput{Name: "Stolen"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Delete(ctx, intruder, tpl.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Select(ctx, intruder, tpl.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestTemplateUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	ctx := context.Background()
	owner := newRestaurant(t, db, "a@example.com")
	tpl, err := svc.Create(ctx, owner.ID, TemplateInput{Name: "Spring"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, TemplateInput{Name: "Summer"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner.ID, tpl.ID, TemplateInput{Name: "Spring 2", Description: "new", AssetURL: pngDataURL})
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, updated.ID)
	assert.Equal(t, "Spring 2", updated.Name)
	assert.Equal(t, pngDataURL, updated.AssetURL)

	_, err = svc.Update(ctx, owner.ID, tpl.ID, TemplateInput{Name: "SUMMER"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestTemplateDeleteResetsSelectionOnlyWhenSelected(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	ctx := context.Background()
	owner := newRestaurant(t, db, "a@example.com")

	selected, err := svc.Create(ctx, owner.ID, TemplateInput{Name: "Selected"})
	require.NoError(t, err)
	spare, err := svc.Create(ctx, owner.ID, TemplateInput{Name: "Spare"})
	require.NoError(t, err)

	user, err := svc.Select(ctx, owner, selected.ID)
	require.NoError(t, err)
	assert.Equal(t, selected.ID, user.TemplateID)

	user, err = svc.Delete(ctx, user, spare.ID)
	require.NoError(t, err)
	assert.Equal(t, selected.ID, user.TemplateID)

	user, err = svc.Delete(ctx, user, selected.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTemplateID, user.TemplateID)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", owner.ID).Error)
	assert.Equal(t, models.DefaultTemplateID, stored.TemplateID)
}

func TestTemplateSelect(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	ctx := context.Background()
	owner := newRestaurant(t, db, "a@example.com")

	user, err := svc.Select(ctx, owner, "warm-paper")
	require.NoError(t, err)
	assert.Equal(t, "warm-paper", user.TemplateID)

	for _, bad := range []string{"", "no-such-template", uuid.NewString()} {
		_, err := svc.Select(ctx, owner, bad)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "select %q: %v", bad, err)
		assert.Equal(t, "Invalid template id", apperr.Message(err))
	}
}

func TestResolveOrDefaultFallsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	ctx := context.Background()
	owner := newRestaurant(t, db, "a@example.com")

	tpl, err := svc.ResolveOrDefault(ctx, owner.ID, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate(), tpl)

	tpl, err = svc.ResolveOrDefault(ctx, owner.ID, "garbage")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate(), tpl)

	tpl, err = svc.ResolveOrDefault(ctx, owner.ID, "slate-minimal")
	require.NoError(t, err)
	assert.Equal(t, "slate-minimal", tpl.ID)
}

type recordingStore struct {
	saved   []string
	removed []string
}

func (r *recordingStore) Save(_ context.Context, _ string, asset string) (string, error) {
	if asset == "" {
		return "", nil
	}
	url := "https://assets.example.com/" + uuid.NewString()
	r.saved = append(r.saved, url)
	return url, nil
}

func (r *recordingStore) Remove(_ context.Context, url string) error {
	r.removed = append(r.removed, url)
	return nil
}

func TestTemplateAssetLifecycle(t *testing.T) {
	db := newTestDB(t)
	store := &recordingStore{}
	svc := NewTemplateService(db, WithAssetStore(store))
	ctx := context.Background()
	owner := newRestaurant(t, db, "a@example.com")

	tpl, err := svc.Create(ctx, owner.ID, TemplateInput{Name: "Poster", AssetURL: pngDataURL})
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Equal(t, store.saved[0], tpl.AssetURL)

	// A duplicate name discards the freshly stored asset.
	_, err = svc.Create(ctx, owner.ID, TemplateInput{Name: "poster", AssetURL: pngDataURL})
	require.True(t, apperr.Is(err, apperr.KindConflict))
	require.Len(t, store.saved, 2)
	assert.Equal(t, []string{store.saved[1]}, store.removed)

	updated, err := svc.Update(ctx, owner.ID, tpl.ID, TemplateInput{Name: "Poster", AssetURL: "data:application/pdf;base64,JVBER"})
	require.NoError(t, err)
	assert.Equal(t, models.AssetTypePDF, updated.AssetType)
	assert.Contains(t, store.removed, tpl.AssetURL)

	_, err = svc.Delete(ctx, owner, tpl.ID)
	require.NoError(t, err)
	assert.Contains(t, store.removed, updated.AssetURL)
}
