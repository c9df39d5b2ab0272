package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/franciskouaho/love-dice-sub000/internal/cache"
	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/logging"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
	"github.com/franciskouaho/love-dice-sub000/internal/quota"
	"github.com/franciskouaho/love-dice-sub000/internal/remote"
	"github.com/franciskouaho/love-dice-sub000/internal/syncer"
	"github.com/franciskouaho/love-dice-sub000/internal/timex"
)

var testDefaults = models.RemoteConfig{DailyFreeLimit: 3, MaxCustomFaces: 2}

func ownerToken(t *testing.T, ownerID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": ownerID})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func seedCatalog(t *testing.T, store *remote.MemoryDocumentStore) {
	t.Helper()
	faces := []models.Face{
		{ID: "c-p1", Label: "Toi", Category: models.CategoryPayer, Weight: 1, IsActive: true},
		{ID: "c-p2", Label: "Moi", Category: models.CategoryPayer, Weight: 1, IsActive: true},
		{ID: "c-l1", Label: "Restaurant", Category: models.CategoryPlace, Weight: 1, IsActive: true},
		{ID: "c-l2", Label: "Maison", Category: models.CategoryPlace, Weight: 1, IsActive: true},
		{ID: "c-a1", Label: "Cinéma", Category: models.CategoryActivity, Weight: 1, IsActive: true},
		{ID: "c-a2", Label: "Balade", Category: models.CategoryActivity, Weight: 1, IsActive: true},
	}
	for _, f := range faces {
		require.NoError(t, store.SeedJSON("catalog_faces", f.ID, f))
	}
}

func seedProfile(t *testing.T, store *remote.MemoryDocumentStore, ownerID string, used int, dayKey string) {
	t.Helper()
	require.NoError(t, store.SeedJSON("users", ownerID, models.UserProfile{
		OwnerID:              ownerID,
		FreeActionsUsedToday: used,
		DayKey:               dayKey,
	}))
}

func setupService(t *testing.T, store *remote.MemoryDocumentStore) *LoveDiceService {
	t.Helper()
	ctx := context.Background()

	db, err := cache.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := timex.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	log := logging.NewNopLogger()
	cs := cache.NewSQLiteStore(db, clock, log)
	adapter := remote.NewAdapter(store)
	coord := syncer.New(cs, adapter, clock, log, testDefaults)
	engine := quota.New(coord, adapter, nil, clock, log)

	return NewLoveDiceService(coord, engine, adapter, cs, nil, clock, log)
}

func login(t *testing.T, svc *LoveDiceService, ownerID string) {
	t.Helper()
	_, err := svc.Login(context.Background(), ownerToken(t, ownerID))
	require.NoError(t, err)
}

func remoteProfile(t *testing.T, store *remote.MemoryDocumentStore, ownerID string) models.UserProfile {
	t.Helper()
	raw, err := store.GetDocument(context.Background(), "users", ownerID)
	require.NoError(t, err)
	var p models.UserProfile
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestLogin_SetsSession(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedCatalog(t, store)
	svc := setupService(t, store)

	sess, err := svc.Login(context.Background(), ownerToken(t, "owner-1"))
	require.NoError(t, err)
	assert.Equal(t, "owner-1", sess.OwnerID)
	require.NotNil(t, svc.Session())

	svc.Logout()
	assert.Nil(t, svc.Session())
}

func TestLogin_InvalidToken(t *testing.T) {
	svc := setupService(t, remote.NewMemoryDocumentStore())

	_, err := svc.Login(context.Background(), "garbage")
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
	assert.Nil(t, svc.Session())
}

func TestRoll_RequiresSession(t *testing.T) {
	svc := setupService(t, remote.NewMemoryDocumentStore())

	_, err := svc.Roll(context.Background())
	assert.True(t, errors.Is(err, common.ErrorNoSession))
}

func TestRoll_ConsumesQuotaAndRecordsHistory(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedCatalog(t, store)
	seedProfile(t, store, "owner-1", 0, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")
	ctx := context.Background()

	out, err := svc.Roll(ctx)
	require.NoError(t, err)
	require.Len(t, out.Faces, 3)
	for _, cat := range models.Categories() {
		assert.Equal(t, cat, out.Faces[cat].Category)
	}
	assert.True(t, out.Quota.Success)
	assert.Equal(t, 2, out.Quota.Remaining)

	assert.Equal(t, 1, remoteProfile(t, store, "owner-1").FreeActionsUsedToday)

	history := svc.History(ctx)
	require.Len(t, history, 1)
	assert.Equal(t, out.Record.ID, history[0].ID)
}

func TestRoll_ExhaustedQuota(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedCatalog(t, store)
	seedProfile(t, store, "owner-1", 3, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")

	_, err := svc.Roll(context.Background())
	assert.True(t, errors.Is(err, common.ErrorQuotaExhausted))
	assert.Equal(t, 3, remoteProfile(t, store, "owner-1").FreeActionsUsedToday)
}

func TestRoll_EmptyCategoryBurnsNoQuota(t *testing.T) {
	store := remote.NewMemoryDocumentStore() // no catalog at all
	seedProfile(t, store, "owner-1", 0, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")

	_, err := svc.Roll(context.Background())
	assert.True(t, errors.Is(err, common.ErrorEmptyCategory))
	assert.Equal(t, 0, remoteProfile(t, store, "owner-1").FreeActionsUsedToday)
}

func TestRoll_UnlimitedAfterSetUnlimited(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedCatalog(t, store)
	seedProfile(t, store, "owner-1", 3, "2024-06-01") // already exhausted
	svc := setupService(t, store)
	login(t, svc, "owner-1")
	ctx := context.Background()

	require.NoError(t, svc.SetUnlimited(ctx, true))

	out, err := svc.Roll(ctx)
	require.NoError(t, err)
	assert.True(t, out.Quota.Unlimited)
	assert.Equal(t, 3, remoteProfile(t, store, "owner-1").FreeActionsUsedToday)
}

func TestAddFace_ValidatesBeforeAnyWrite(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedProfile(t, store, "owner-1", 0, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")
	puts := store.Calls["put"]

	_, err := svc.AddFace(context.Background(), "", "🎲", models.CategoryActivity, 1)
	assert.True(t, errors.Is(err, common.ErrorValidation))
	assert.Equal(t, puts, store.Calls["put"])

	_, err = svc.AddFace(context.Background(), "Karaoké", "🎤", models.CategoryActivity, 11)
	assert.True(t, errors.Is(err, common.ErrorValidation))
	assert.Equal(t, puts, store.Calls["put"])
}

func TestAddFace_AppearsInActiveFaces(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedCatalog(t, store)
	seedProfile(t, store, "owner-1", 0, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")
	ctx := context.Background()

	f, err := svc.AddFace(ctx, "Karaoké", "🎤", models.CategoryActivity, 5)
	require.NoError(t, err)
	require.NotEmpty(t, f.ID)

	ids := map[string]bool{}
	for _, af := range svc.ActiveFaces(ctx) {
		ids[af.ID] = true
	}
	assert.True(t, ids[f.ID])
}

func TestAddFace_LimitFromRemoteConfig(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedProfile(t, store, "owner-1", 0, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")
	ctx := context.Background()

	// testDefaults caps custom faces at 2
	_, err := svc.AddFace(ctx, "Un", "", models.CategoryActivity, 1)
	require.NoError(t, err)
	_, err = svc.AddFace(ctx, "Deux", "", models.CategoryActivity, 1)
	require.NoError(t, err)

	_, err = svc.AddFace(ctx, "Trois", "", models.CategoryActivity, 1)
	assert.True(t, errors.Is(err, common.ErrorFaceLimit))
}

func TestDeactivateFace_DropsOutOfDraws(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedProfile(t, store, "owner-1", 0, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")
	ctx := context.Background()

	f, err := svc.AddFace(ctx, "Karaoké", "🎤", models.CategoryActivity, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateFace(ctx, f.ID))

	for _, af := range svc.ActiveFaces(ctx) {
		require.NotEqual(t, f.ID, af.ID)
	}
}

func TestDeleteFace_RemovesRemoteDocument(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedProfile(t, store, "owner-1", 0, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")
	ctx := context.Background()

	f, err := svc.AddFace(ctx, "Karaoké", "🎤", models.CategoryActivity, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFace(ctx, f.ID))

	_, err = store.GetDocument(ctx, "users/owner-1/faces", f.ID)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestClearCache_ForcesRemoteRefetch(t *testing.T) {
	store := remote.NewMemoryDocumentStore()
	seedCatalog(t, store)
	seedProfile(t, store, "owner-1", 0, "2024-06-01")
	svc := setupService(t, store)
	login(t, svc, "owner-1")
	ctx := context.Background()

	require.NotZero(t, svc.CacheStats(ctx).Entries)

	svc.ClearCache(ctx)
	assert.Zero(t, svc.CacheStats(ctx).Entries)

	gets := store.Calls["get"]
	_ = svc.QuotaSummary(ctx)
	assert.Greater(t, store.Calls["get"], gets)
}
