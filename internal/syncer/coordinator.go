package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/franciskouaho/love-dice-sub000/internal/cache"
	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/logging"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
	"github.com/franciskouaho/love-dice-sub000/internal/remote"
	"github.com/franciskouaho/love-dice-sub000/internal/timex"
)

// Coordinator orchestrates cache-first reads with remote fallback. It is
// safe for concurrent use; several UI surfaces requesting the same entity
// within one render pass share a single remote fetch.
type Coordinator struct {
	cache      cache.Store
	adapter    *remote.Adapter
	clock      timex.Clock
	log        logging.Logger
	defaultCfg models.RemoteConfig

	group singleflight.Group
}

func New(store cache.Store, adapter *remote.Adapter, clock timex.Clock, log logging.Logger, defaultCfg models.RemoteConfig) *Coordinator {
	return &Coordinator{
		cache:      store,
		adapter:    adapter,
		clock:      clock,
		log:        log,
		defaultCfg: defaultCfg,
	}
}

// syncValue is the shared sync algorithm. Concurrent calls for the same key
// coalesce into one execution via the singleflight group, which also clears
// the in-flight marker on every exit path. Inside the flight: serve a fresh
// cache hit unless forced, otherwise fetch, write through and return; on
// remote failure accept a stale cached value, and only then the static
// fallback. Read paths never surface an error to the caller.
func syncValue[T any](ctx context.Context, c *Coordinator, key SyncKey, force bool, fetch func(context.Context) (T, error), fallback func() T) T {
	res, _, _ := c.group.Do(key.String(), func() (any, error) {
		if !force {
			if v, ok := readCached[T](ctx, c, key, key.Kind.TTL()); ok {
				return v, nil
			}
		}

		v, err := fetch(ctx)
		if err == nil {
			if payload, mErr := json.Marshal(v); mErr == nil {
				c.cache.Write(ctx, key.String(), payload, cache.OriginRemote)
			} else {
				c.log.Warn(ctx, "failed to encode payload for cache", "key", key.String(), "error", mErr)
			}
			return v, nil
		}

		c.log.Warn(ctx, "remote fetch failed", "key", key.String(), "error", err)

		if v, ok := readCached[T](ctx, c, key, cache.TTLInfinite); ok {
			c.log.Info(ctx, "serving stale cache", "key", key.String())
			return v, nil
		}

		c.log.Info(ctx, "serving static fallback", "key", key.String())
		return fallback(), nil
	})

	if v, ok := res.(T); ok {
		return v
	}
	return fallback()
}

func readCached[T any](ctx context.Context, c *Coordinator, key SyncKey, ttl time.Duration) (T, bool) {
	var v T
	payload, err := c.cache.Read(ctx, key.String(), ttl)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		c.log.Warn(ctx, "corrupt cache payload", "key", key.String(), "error", err)
		return v, false
	}
	return v, true
}

// Profile syncs the user profile. A missing remote document is bootstrapped
// with a default profile so every signed-in owner has one. The only error
// conditions are the absence of a session and the total absence of data
// (remote down, nothing cached) — the quota engine fails closed on both.
func (c *Coordinator) Profile(ctx context.Context, ownerID string, force bool) (*models.UserProfile, error) {
	if ownerID == "" {
		return nil, common.ErrorNoSession
	}

	p := syncValue(ctx, c, ProfileKey(ownerID), force,
		func(ctx context.Context) (*models.UserProfile, error) {
			p, err := c.adapter.FetchProfile(ctx, ownerID)
			if errors.Is(err, common.ErrorNotFound) {
				fresh := &models.UserProfile{
					OwnerID:   ownerID,
					CreatedAt: c.clock.Now(),
					DayKey:    c.clock.Now().Format(common.DayKeyLayout),
				}
				if sErr := c.adapter.SaveProfile(ctx, fresh); sErr != nil {
					c.log.Warn(ctx, "failed to bootstrap remote profile", "owner", ownerID, "error", sErr)
				}
				return fresh, nil
			}
			return p, err
		},
		func() *models.UserProfile { return nil },
	)
	if p == nil {
		return nil, common.ErrorRemoteUnavailable
	}
	return p, nil
}

// Catalog syncs the global face catalog. Owner-less; readable without a
// session. Falls back to the built-in catalog.
func (c *Coordinator) Catalog(ctx context.Context, force bool) []models.Face {
	return syncValue(ctx, c, CatalogKey(), force,
		func(ctx context.Context) ([]models.Face, error) { return c.adapter.FetchCatalog(ctx) },
		defaultCatalog,
	)
}

// OwnFaces syncs the user's custom faces. Without a session the result is
// empty rather than an error.
func (c *Coordinator) OwnFaces(ctx context.Context, ownerID string, force bool) []models.Face {
	if ownerID == "" {
		return nil
	}
	return syncValue(ctx, c, OwnFacesKey(ownerID), force,
		func(ctx context.Context) ([]models.Face, error) { return c.adapter.FetchOwnFaces(ctx, ownerID) },
		func() []models.Face { return nil },
	)
}

// History syncs the roll history, newest first.
func (c *Coordinator) History(ctx context.Context, ownerID string, force bool) []models.RollRecord {
	if ownerID == "" {
		return nil
	}
	return syncValue(ctx, c, HistoryKey(ownerID), force,
		func(ctx context.Context) ([]models.RollRecord, error) { return c.adapter.FetchHistory(ctx, ownerID) },
		func() []models.RollRecord { return nil },
	)
}

// RemoteConfig syncs the feature configuration, falling back to the built-in
// defaults when unreachable.
func (c *Coordinator) RemoteConfig(ctx context.Context, force bool) models.RemoteConfig {
	return syncValue(ctx, c, ConfigKey(), force,
		func(ctx context.Context) (models.RemoteConfig, error) {
			cfg, err := c.adapter.FetchRemoteConfig(ctx)
			if err != nil {
				return models.RemoteConfig{}, err
			}
			return *cfg, nil
		},
		func() models.RemoteConfig { return c.defaultCfg },
	)
}

// ActiveFaces fetches the global catalog and the user's own faces in
// parallel and concatenates the active ones. A failure in either branch is
// absorbed by that branch's own fallback chain; the other is unaffected.
func (c *Coordinator) ActiveFaces(ctx context.Context, ownerID string) []models.Face {
	var catalog, own []models.Face

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		catalog = c.Catalog(gctx, false)
		return nil
	})
	g.Go(func() error {
		own = c.OwnFaces(gctx, ownerID, false)
		return nil
	})
	_ = g.Wait()

	return models.ActiveOnly(append(catalog, own...))
}

// RefreshAll force-refreshes every kind for the owner concurrently, e.g.
// after the app returns from the background. Per-kind failures are logged
// inside each branch's fallback chain; they never fail the whole refresh.
func (c *Coordinator) RefreshAll(ctx context.Context, ownerID string) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { c.Catalog(gctx, true); return nil })
	g.Go(func() error { c.RemoteConfig(gctx, true); return nil })
	if ownerID != "" {
		g.Go(func() error { _, err := c.Profile(gctx, ownerID, true); logIgnored(gctx, c.log, err); return nil })
		g.Go(func() error { c.OwnFaces(gctx, ownerID, true); return nil })
		g.Go(func() error { c.History(gctx, ownerID, true); return nil })
	}
	_ = g.Wait()
	c.log.Info(ctx, "full refresh completed", "owner", ownerID)
}

// StoreProfileLocal write-throughs a locally mutated profile so subsequent
// reads see it without a round trip. Origin is recorded as local.
func (c *Coordinator) StoreProfileLocal(ctx context.Context, p *models.UserProfile) {
	payload, err := json.Marshal(p)
	if err != nil {
		c.log.Warn(ctx, "failed to encode profile for cache", "owner", p.OwnerID, "error", err)
		return
	}
	c.cache.Write(ctx, ProfileKey(p.OwnerID).String(), payload, cache.OriginLocal)
}

// InvalidateOwnFaces drops the cached face list after a local mutation, so
// the next read fetches the authoritative state.
func (c *Coordinator) InvalidateOwnFaces(ctx context.Context, ownerID string) {
	c.cache.Invalidate(ctx, OwnFacesKey(ownerID).String())
}

// InvalidateHistory drops the cached history after a roll was recorded.
func (c *Coordinator) InvalidateHistory(ctx context.Context, ownerID string) {
	c.cache.Invalidate(ctx, HistoryKey(ownerID).String())
}

func logIgnored(ctx context.Context, log logging.Logger, err error) {
	if err != nil {
		log.Warn(ctx, "refresh branch degraded", "error", err)
	}
}
