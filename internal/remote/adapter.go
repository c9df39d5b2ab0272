package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/franciskouaho/love-dice-sub000/internal/models"
)

// Collection layout of the remote store. User-owned entities live under the
// owner's document by ownership key, not by embedding.
const (
	usersCollection   = "users"
	catalogCollection = "catalog_faces"
	configCollection  = "app_config"
	configDocID       = "features"

	historyFetchLimit = 50
)

func facesCollection(ownerID string) string   { return fmt.Sprintf("users/%s/faces", ownerID) }
func historyCollection(ownerID string) string { return fmt.Sprintf("users/%s/history", ownerID) }

// Adapter exposes the document store as typed per-entity operations. It does
// no caching and no fallbacks; that is the sync coordinator's job.
type Adapter struct {
	store DocumentStore
}

func NewAdapter(store DocumentStore) *Adapter {
	return &Adapter{store: store}
}

func (a *Adapter) FetchProfile(ctx context.Context, ownerID string) (*models.UserProfile, error) {
	raw, err := a.store.GetDocument(ctx, usersCollection, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	var p models.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

func (a *Adapter) FetchCatalog(ctx context.Context) ([]models.Face, error) {
	return a.fetchFaces(ctx, catalogCollection)
}

func (a *Adapter) FetchOwnFaces(ctx context.Context, ownerID string) ([]models.Face, error) {
	return a.fetchFaces(ctx, facesCollection(ownerID))
}

func (a *Adapter) fetchFaces(ctx context.Context, collection string) ([]models.Face, error) {
	docs, err := a.store.QueryOrdered(ctx, collection, "label", Ascending, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch faces: %w", err)
	}
	faces := make([]models.Face, 0, len(docs))
	for _, doc := range docs {
		var f models.Face
		if err := json.Unmarshal(doc, &f); err != nil {
			return nil, fmt.Errorf("failed to decode face: %w", err)
		}
		faces = append(faces, f)
	}
	return faces, nil
}

func (a *Adapter) FetchHistory(ctx context.Context, ownerID string) ([]models.RollRecord, error) {
	docs, err := a.store.QueryOrdered(ctx, historyCollection(ownerID), "rolled_at", Descending, historyFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	records := make([]models.RollRecord, 0, len(docs))
	for _, doc := range docs {
		var r models.RollRecord
		if err := json.Unmarshal(doc, &r); err != nil {
			return nil, fmt.Errorf("failed to decode roll record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (a *Adapter) FetchRemoteConfig(ctx context.Context) (*models.RemoteConfig, error) {
	raw, err := a.store.GetDocument(ctx, configCollection, configDocID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote config: %w", err)
	}
	var cfg models.RemoteConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode remote config: %w", err)
	}
	return &cfg, nil
}

// SaveProfile overwrites the whole profile document.
func (a *Adapter) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	fields, err := toFields(p)
	if err != nil {
		return err
	}
	if err := a.store.PutDocument(ctx, usersCollection, p.OwnerID, fields, false); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// SaveQuota merge-writes only the consumed counter and its day key. The
// caller advances no local state until this returns nil.
func (a *Adapter) SaveQuota(ctx context.Context, ownerID string, used int, dayKey string) error {
	fields := map[string]any{
		"free_actions_used_today": used,
		"day_key":                 dayKey,
	}
	if err := a.store.PutDocument(ctx, usersCollection, ownerID, fields, true); err != nil {
		return fmt.Errorf("failed to save quota: %w", err)
	}
	return nil
}

// SaveUnlimited merge-writes the entitlement flag.
func (a *Adapter) SaveUnlimited(ctx context.Context, ownerID string, unlimited bool) error {
	fields := map[string]any{"has_unlimited_access": unlimited}
	if err := a.store.PutDocument(ctx, usersCollection, ownerID, fields, true); err != nil {
		return fmt.Errorf("failed to save unlimited flag: %w", err)
	}
	return nil
}

// SaveFace upserts a user-created face.
func (a *Adapter) SaveFace(ctx context.Context, f *models.Face) error {
	fields, err := toFields(f)
	if err != nil {
		return err
	}
	if err := a.store.PutDocument(ctx, facesCollection(f.OwnerID), f.ID, fields, false); err != nil {
		return fmt.Errorf("failed to save face: %w", err)
	}
	return nil
}

// DeactivateFace soft-deletes a face.
func (a *Adapter) DeactivateFace(ctx context.Context, ownerID, faceID string) error {
	fields := map[string]any{"is_active": false}
	if err := a.store.PutDocument(ctx, facesCollection(ownerID), faceID, fields, true); err != nil {
		return fmt.Errorf("failed to deactivate face: %w", err)
	}
	return nil
}

// DeleteFace hard-deletes a face. Explicit operation; normal removal is the
// soft delete above.
func (a *Adapter) DeleteFace(ctx context.Context, ownerID, faceID string) error {
	if err := a.store.DeleteDocument(ctx, facesCollection(ownerID), faceID); err != nil {
		return fmt.Errorf("failed to delete face: %w", err)
	}
	return nil
}

// AppendHistory stores one roll record. Records are keyed by their own id,
// so a retried append is an idempotent overwrite.
func (a *Adapter) AppendHistory(ctx context.Context, rec *models.RollRecord) error {
	fields, err := toFields(rec)
	if err != nil {
		return err
	}
	if err := a.store.PutDocument(ctx, historyCollection(rec.OwnerID), rec.ID, fields, false); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

func toFields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return fields, nil
}
