package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
)

func TestAdapter_ProfileRoundTrip(t *testing.T) {
	store := NewMemoryDocumentStore()
	a := NewAdapter(store)
	ctx := context.Background()

	p := &models.UserProfile{
		OwnerID:              "u1",
		CreatedAt:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		FreeActionsUsedToday: 2,
		DayKey:               "2024-06-01",
	}
	require.NoError(t, a.SaveProfile(ctx, p))

	got, err := a.FetchProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p.OwnerID, got.OwnerID)
	assert.Equal(t, 2, got.FreeActionsUsedToday)
	assert.Equal(t, "2024-06-01", got.DayKey)
}

func TestAdapter_FetchProfile_Missing(t *testing.T) {
	a := NewAdapter(NewMemoryDocumentStore())

	_, err := a.FetchProfile(context.Background(), "nobody")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestAdapter_SaveQuota_MergesIntoProfile(t *testing.T) {
	store := NewMemoryDocumentStore()
	a := NewAdapter(store)
	ctx := context.Background()

	require.NoError(t, a.SaveProfile(ctx, &models.UserProfile{
		OwnerID:            "u1",
		HasUnlimitedAccess: true,
		DayKey:             "2024-06-01",
	}))

	require.NoError(t, a.SaveQuota(ctx, "u1", 3, "2024-06-02"))

	got, err := a.FetchProfile(ctx, "u1")
	require.NoError(t, err)
	// the merge touched only the counter pair
	assert.True(t, got.HasUnlimitedAccess)
	assert.Equal(t, 3, got.FreeActionsUsedToday)
	assert.Equal(t, "2024-06-02", got.DayKey)
}

func TestAdapter_FacesLifecycle(t *testing.T) {
	store := NewMemoryDocumentStore()
	a := NewAdapter(store)
	ctx := context.Background()

	f := models.NewFace("u1", "Bowling", "🎳", models.CategoryActivity, 4)
	require.NoError(t, a.SaveFace(ctx, &f))

	faces, err := a.FetchOwnFaces(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.True(t, faces[0].IsActive)

	// soft delete first
	require.NoError(t, a.DeactivateFace(ctx, "u1", f.ID))
	faces, err = a.FetchOwnFaces(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.False(t, faces[0].IsActive)

	// hard delete is a separate explicit operation
	require.NoError(t, a.DeleteFace(ctx, "u1", f.ID))
	faces, err = a.FetchOwnFaces(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestAdapter_HistoryOrderedNewestFirst(t *testing.T) {
	store := NewMemoryDocumentStore()
	a := NewAdapter(store)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := models.NewRollRecord("u1", map[models.Category]string{
			models.CategoryPayer: "Moi",
		}, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, a.AppendHistory(ctx, &rec))
	}

	records, err := a.FetchHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].RolledAt.After(records[1].RolledAt))
	assert.True(t, records[1].RolledAt.After(records[2].RolledAt))
}

func TestAdapter_RemoteConfig(t *testing.T) {
	store := NewMemoryDocumentStore()
	store.Seed("app_config", "features", map[string]any{
		"daily_free_limit": 5,
		"max_custom_faces": 30,
	})
	a := NewAdapter(store)

	cfg, err := a.FetchRemoteConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.DailyFreeLimit)
	assert.Equal(t, 30, cfg.MaxCustomFaces)
}

func TestAdapter_CatalogSeparateFromOwnFaces(t *testing.T) {
	store := NewMemoryDocumentStore()
	require.NoError(t, store.SeedJSON("catalog_faces", "c1",
		models.Face{ID: "c1", Label: "Restaurant", Category: models.CategoryPlace, Weight: 5, IsActive: true}))
	a := NewAdapter(store)
	ctx := context.Background()

	catalog, err := a.FetchCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 1)

	own, err := a.FetchOwnFaces(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, own)
}
