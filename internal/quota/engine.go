// Package quota enforces the daily free-action allowance. The remote profile
// document is the source of truth; the local cache is a fast-path replica.
//
// Two write-ordering rules encode a deliberate asymmetry between the two
// kinds of state:
//   - the numeric counter only ever advances after a confirmed remote write,
//     so offline retries can never inflate the quota;
//   - the unlimited flag commits to the local cache first and unconditionally,
//     so a remote failure never reverts a state the UI already showed.
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/logging"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
	"github.com/franciskouaho/love-dice-sub000/internal/remote"
	"github.com/franciskouaho/love-dice-sub000/internal/syncer"
	"github.com/franciskouaho/love-dice-sub000/internal/timex"
)

// EntitlementProvider reports the purchase provider's "unlimited access"
// snapshot. It may be stale by design; it is reconciled opportunistically.
type EntitlementProvider interface {
	HasUnlimitedAccess() bool
}

// EntitlementFunc adapts a plain function to an EntitlementProvider.
type EntitlementFunc func() bool

func (f EntitlementFunc) HasUnlimitedAccess() bool { return f() }

// Engine computes and mutates the daily allowance. Consumption is
// serialized per owner; concurrent taps cannot both pass the remaining>0
// checkpoint.
type Engine struct {
	sync        *syncer.Coordinator
	adapter     *remote.Adapter
	entitlement EntitlementProvider
	clock       timex.Clock
	log         logging.Logger

	locks sync.Map // ownerID -> *sync.Mutex
}

func New(coord *syncer.Coordinator, adapter *remote.Adapter, ent EntitlementProvider, clock timex.Clock, log logging.Logger) *Engine {
	return &Engine{
		sync:        coord,
		adapter:     adapter,
		entitlement: ent,
		clock:       clock,
		log:         log,
	}
}

func (e *Engine) ownerLock(ownerID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(ownerID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (e *Engine) dayKey() string {
	return e.clock.Now().Format(common.DayKeyLayout)
}

// Summary derives the current quota view. Unauthenticated sessions fail
// closed. When the profile is unreachable in every way, only the
// entitlement override can still grant access: the unlimited flag is
// fail-open, the numeric quota never is.
func (e *Engine) Summary(ctx context.Context, ownerID string) models.QuotaSummary {
	s, _ := e.resolve(ctx, ownerID)
	return s
}

// resolve computes the summary and returns the backing profile (nil when
// none could be obtained).
func (e *Engine) resolve(ctx context.Context, ownerID string) (models.QuotaSummary, *models.UserProfile) {
	limit := e.sync.RemoteConfig(ctx, false).DailyFreeLimit

	if ownerID == "" {
		return models.QuotaSummary{Limit: limit}, nil
	}

	override := e.entitlement != nil && e.entitlement.HasUnlimitedAccess()

	profile, err := e.sync.Profile(ctx, ownerID, false)
	if err != nil {
		e.log.Warn(ctx, "quota check without profile", "owner", ownerID, "error", err)
		return models.QuotaSummary{
			HasUnlimitedAccess: override,
			Limit:              limit,
			CanConsume:         override,
		}, nil
	}

	unlimited := override || profile.HasUnlimitedAccess || limit < 0
	used := profile.UsedFor(e.dayKey())

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}

	return models.QuotaSummary{
		HasUnlimitedAccess: unlimited,
		Limit:              limit,
		Used:               used,
		Remaining:          remaining,
		CanConsume:         unlimited || remaining > 0,
	}, profile
}

// Consume spends one free action. It re-derives the allowance under the
// per-owner lock, persists the advanced counter to the remote profile and
// only then updates the local cache. A failed remote write leaves every
// counter untouched and reports a failure the UI must surface as "try
// again".
func (e *Engine) Consume(ctx context.Context, ownerID string) (models.ConsumeResult, error) {
	if ownerID == "" {
		return models.ConsumeResult{}, common.ErrorNoSession
	}

	mu := e.ownerLock(ownerID)
	mu.Lock()
	defer mu.Unlock()

	s, profile := e.resolve(ctx, ownerID)

	if s.HasUnlimitedAccess {
		// the numeric counter is never touched on the unlimited path
		return models.ConsumeResult{Success: true, Unlimited: true, Remaining: s.Remaining}, nil
	}

	if !s.CanConsume || profile == nil {
		return models.ConsumeResult{Success: false, Remaining: 0}, nil
	}

	dayKey := e.dayKey()
	newUsed := s.Used + 1

	if err := e.adapter.SaveQuota(ctx, ownerID, newUsed, dayKey); err != nil {
		e.log.Warn(ctx, "quota consumption not confirmed", "owner", ownerID, "error", err)
		return models.ConsumeResult{Success: false, Remaining: s.Remaining},
			fmt.Errorf("quota not consumed: %w", err)
	}

	// remote write confirmed; the local replica may now advance
	profile.FreeActionsUsedToday = newUsed
	profile.DayKey = dayKey
	e.sync.StoreProfileLocal(ctx, profile)

	remaining := s.Limit - newUsed
	if remaining < 0 {
		remaining = 0
	}
	return models.ConsumeResult{Success: true, Remaining: remaining}, nil
}

// SetUnlimited records the entitlement flag. The local cache commits first
// and unconditionally; the remote write is best-effort and its failure is
// reported without reverting the local state.
func (e *Engine) SetUnlimited(ctx context.Context, ownerID string, unlimited bool) error {
	if ownerID == "" {
		return common.ErrorNoSession
	}

	mu := e.ownerLock(ownerID)
	mu.Lock()
	defer mu.Unlock()

	profile, err := e.sync.Profile(ctx, ownerID, false)
	if err != nil {
		profile = &models.UserProfile{
			OwnerID:   ownerID,
			CreatedAt: e.clock.Now(),
			DayKey:    e.dayKey(),
		}
	}

	profile.HasUnlimitedAccess = unlimited
	e.sync.StoreProfileLocal(ctx, profile)

	if err := e.adapter.SaveUnlimited(ctx, ownerID, unlimited); err != nil {
		e.log.Warn(ctx, "unlimited flag not persisted remotely", "owner", ownerID, "error", err)
		return fmt.Errorf("unlimited flag not persisted remotely: %w", err)
	}
	return nil
}

// ReconcileNow force-refreshes the remote profile under the per-owner lock,
// so it cannot interleave with an in-progress Consume. Idempotent.
func (e *Engine) ReconcileNow(ctx context.Context, ownerID string) {
	if ownerID == "" {
		return
	}

	mu := e.ownerLock(ownerID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := e.sync.Profile(ctx, ownerID, true); err != nil {
		e.log.Warn(ctx, "quota reconcile degraded", "owner", ownerID, "error", err)
	}
}

// StartReconcile runs ReconcileNow every interval until ctx is cancelled.
func (e *Engine) StartReconcile(ctx context.Context, ownerID string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.ReconcileNow(ctx, ownerID)
		case <-ctx.Done():
			return
		}
	}
}
