// Package syncer implements the synchronization coordinator: cache-first
// reads with kind-specific TTLs, single-flight de-duplication of concurrent
// identical requests, write-through after successful remote fetches, and a
// degraded fallback chain (stale cache, then a static per-kind default) when
// the remote store is unreachable.
package syncer

import "time"

// Kind identifies a category of synchronized entity.
type Kind string

const (
	KindCatalog  Kind = "catalog"
	KindProfile  Kind = "profile"
	KindOwnFaces Kind = "faces"
	KindHistory  Kind = "history"
	KindConfig   Kind = "config"
)

// TTL is the freshness requirement per kind, balancing server load against
// staleness tolerance. The global catalog barely changes; activity history
// drives a visible screen and goes stale fast.
func (k Kind) TTL() time.Duration {
	switch k {
	case KindCatalog:
		return 24 * time.Hour
	case KindProfile:
		return 5 * time.Minute
	case KindOwnFaces:
		return 10 * time.Minute
	case KindHistory:
		return 2 * time.Minute
	case KindConfig:
		return 30 * time.Minute
	}
	return 5 * time.Minute
}

// SyncKey is the composite identifier used both as the cache key and as the
// in-flight de-duplication key. Owner-less kinds leave OwnerID empty.
type SyncKey struct {
	Kind    Kind
	OwnerID string
}

func (k SyncKey) String() string {
	if k.OwnerID == "" {
		return string(k.Kind)
	}
	return string(k.Kind) + ":" + k.OwnerID
}

func CatalogKey() SyncKey                { return SyncKey{Kind: KindCatalog} }
func ConfigKey() SyncKey                 { return SyncKey{Kind: KindConfig} }
func ProfileKey(ownerID string) SyncKey  { return SyncKey{Kind: KindProfile, OwnerID: ownerID} }
func OwnFacesKey(ownerID string) SyncKey { return SyncKey{Kind: KindOwnFaces, OwnerID: ownerID} }
func HistoryKey(ownerID string) SyncKey  { return SyncKey{Kind: KindHistory, OwnerID: ownerID} }
