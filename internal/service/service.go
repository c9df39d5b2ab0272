// Package service is the application facade: it binds the sync coordinator,
// the quota engine and the selection engine behind one interface the CLI
// talks to.
package service

import (
	"context"

	"github.com/franciskouaho/love-dice-sub000/internal/cache"
	"github.com/franciskouaho/love-dice-sub000/internal/identity"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
)

// RollOutcome is one completed quota-gated roll.
type RollOutcome struct {
	Faces  map[models.Category]models.Face
	Record models.RollRecord
	Quota  models.ConsumeResult
}

type Service interface {
	Login(ctx context.Context, idToken string) (*identity.Session, error)
	Logout()
	Session() *identity.Session

	ActiveFaces(ctx context.Context) []models.Face
	History(ctx context.Context) []models.RollRecord

	QuotaSummary(ctx context.Context) models.QuotaSummary
	ConsumeQuota(ctx context.Context) (models.ConsumeResult, error)
	SetUnlimited(ctx context.Context, unlimited bool) error

	Roll(ctx context.Context) (*RollOutcome, error)

	AddFace(ctx context.Context, label, emoji string, category models.Category, weight int) (*models.Face, error)
	DeactivateFace(ctx context.Context, faceID string) error
	DeleteFace(ctx context.Context, faceID string) error

	RefreshAll(ctx context.Context)
	ClearCache(ctx context.Context)
	CacheStats(ctx context.Context) cache.Stats
}
