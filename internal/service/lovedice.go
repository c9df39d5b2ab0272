package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/franciskouaho/love-dice-sub000/internal/cache"
	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/dice"
	"github.com/franciskouaho/love-dice-sub000/internal/identity"
	"github.com/franciskouaho/love-dice-sub000/internal/logging"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
	"github.com/franciskouaho/love-dice-sub000/internal/quota"
	"github.com/franciskouaho/love-dice-sub000/internal/remote"
	"github.com/franciskouaho/love-dice-sub000/internal/syncer"
	"github.com/franciskouaho/love-dice-sub000/internal/timex"
)

// TokenSetter is implemented by transports that attach a bearer token to
// outgoing requests. The in-memory test store does not need one.
type TokenSetter interface {
	SetToken(token string)
}

// LoveDiceService wires the subsystems together and tracks the current
// session plus the previous roll for anti-repetition.
type LoveDiceService struct {
	sync    *syncer.Coordinator
	quota   *quota.Engine
	adapter *remote.Adapter
	store   cache.Store
	tokens  TokenSetter
	clock   timex.Clock
	log     logging.Logger

	mu       sync.Mutex
	session  *identity.Session
	lastRoll map[models.Category]string
}

var _ Service = (*LoveDiceService)(nil)

func NewLoveDiceService(
	coord *syncer.Coordinator,
	engine *quota.Engine,
	adapter *remote.Adapter,
	store cache.Store,
	tokens TokenSetter,
	clock timex.Clock,
	log logging.Logger,
) *LoveDiceService {
	return &LoveDiceService{
		sync:     coord,
		quota:    engine,
		adapter:  adapter,
		store:    store,
		tokens:   tokens,
		clock:    clock,
		log:      log,
		lastRoll: make(map[models.Category]string),
	}
}

// Login derives the owner from the ID token, attaches the token to the
// transport and force-refreshes the owner's caches before returning, so the
// first reads after login are warm.
func (s *LoveDiceService) Login(ctx context.Context, idToken string) (*identity.Session, error) {
	sess, err := identity.FromIDToken(idToken)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if s.tokens != nil {
		s.tokens.SetToken(sess.Token)
	}

	s.mu.Lock()
	s.session = sess
	s.lastRoll = make(map[models.Category]string)
	s.mu.Unlock()

	s.sync.RefreshAll(ctx, sess.OwnerID)
	return sess, nil
}

func (s *LoveDiceService) Logout() {
	if s.tokens != nil {
		s.tokens.SetToken("")
	}

	s.mu.Lock()
	s.session = nil
	s.lastRoll = make(map[models.Category]string)
	s.mu.Unlock()
}

func (s *LoveDiceService) Session() *identity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *LoveDiceService) ownerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.OwnerID
}

func (s *LoveDiceService) ActiveFaces(ctx context.Context) []models.Face {
	return s.sync.ActiveFaces(ctx, s.ownerID())
}

func (s *LoveDiceService) History(ctx context.Context) []models.RollRecord {
	return s.sync.History(ctx, s.ownerID(), false)
}

func (s *LoveDiceService) QuotaSummary(ctx context.Context) models.QuotaSummary {
	return s.quota.Summary(ctx, s.ownerID())
}

func (s *LoveDiceService) ConsumeQuota(ctx context.Context) (models.ConsumeResult, error) {
	return s.quota.Consume(ctx, s.ownerID())
}

func (s *LoveDiceService) SetUnlimited(ctx context.Context, unlimited bool) error {
	return s.quota.SetUnlimited(ctx, s.ownerID(), unlimited)
}

// Roll performs one quota-gated draw. The draw itself is computed first so an
// empty category never burns an action; the quota is then consumed (confirmed
// remotely) before the outcome is released. History persistence is
// best-effort.
func (s *LoveDiceService) Roll(ctx context.Context) (*RollOutcome, error) {
	ownerID := s.ownerID()
	if ownerID == "" {
		return nil, common.ErrorNoSession
	}

	faces := s.sync.ActiveFaces(ctx, ownerID)

	s.mu.Lock()
	last := make(map[models.Category]string, len(s.lastRoll))
	for cat, id := range s.lastRoll {
		last[cat] = id
	}
	s.mu.Unlock()

	drawn, err := dice.RollAll(faces, last)
	if err != nil {
		return nil, fmt.Errorf("roll failed: %w", err)
	}

	res, err := s.quota.Consume(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, common.ErrorQuotaExhausted
	}

	labels := make(map[models.Category]string, len(drawn))
	for cat, f := range drawn {
		labels[cat] = f.Label
	}
	rec := models.NewRollRecord(ownerID, labels, s.clock.Now())

	if err := s.adapter.AppendHistory(ctx, &rec); err != nil {
		s.log.Warn(ctx, "roll history not persisted", "owner", ownerID, "error", err)
	} else {
		s.sync.InvalidateHistory(ctx, ownerID)
	}

	s.mu.Lock()
	for cat, f := range drawn {
		s.lastRoll[cat] = f.ID
	}
	s.mu.Unlock()

	return &RollOutcome{Faces: drawn, Record: rec, Quota: res}, nil
}

// AddFace validates, enforces the custom-face limit from remote config, and
// persists before invalidating the own-faces cache. Nothing is written when
// validation fails.
func (s *LoveDiceService) AddFace(ctx context.Context, label, emoji string, category models.Category, weight int) (*models.Face, error) {
	ownerID := s.ownerID()
	if ownerID == "" {
		return nil, common.ErrorNoSession
	}

	f := models.NewFace(ownerID, label, emoji, category, weight)
	if err := models.ValidateFace(&f); err != nil {
		return nil, err
	}

	if max := s.sync.RemoteConfig(ctx, false).MaxCustomFaces; max > 0 {
		own := s.sync.OwnFaces(ctx, ownerID, false)
		if len(own) >= max {
			return nil, fmt.Errorf("%w: %d of %d", common.ErrorFaceLimit, len(own), max)
		}
	}

	if err := s.adapter.SaveFace(ctx, &f); err != nil {
		return nil, fmt.Errorf("face not saved: %w", err)
	}
	s.sync.InvalidateOwnFaces(ctx, ownerID)

	return &f, nil
}

// DeactivateFace soft-deletes: the face stays in the remote store with
// is_active=false and drops out of future draws.
func (s *LoveDiceService) DeactivateFace(ctx context.Context, faceID string) error {
	ownerID := s.ownerID()
	if ownerID == "" {
		return common.ErrorNoSession
	}

	if err := s.adapter.DeactivateFace(ctx, ownerID, faceID); err != nil {
		return fmt.Errorf("face not deactivated: %w", err)
	}
	s.sync.InvalidateOwnFaces(ctx, ownerID)
	return nil
}

func (s *LoveDiceService) DeleteFace(ctx context.Context, faceID string) error {
	ownerID := s.ownerID()
	if ownerID == "" {
		return common.ErrorNoSession
	}

	if err := s.adapter.DeleteFace(ctx, ownerID, faceID); err != nil {
		return fmt.Errorf("face not deleted: %w", err)
	}
	s.sync.InvalidateOwnFaces(ctx, ownerID)
	return nil
}

func (s *LoveDiceService) RefreshAll(ctx context.Context) {
	s.sync.RefreshAll(ctx, s.ownerID())
}

func (s *LoveDiceService) ClearCache(ctx context.Context) {
	s.store.InvalidateAll(ctx)
}

func (s *LoveDiceService) CacheStats(ctx context.Context) cache.Stats {
	return s.store.Stats(ctx)
}
