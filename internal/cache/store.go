// Package cache implements the durable local cache store: a SQLite-backed
// key/value table with per-entry metadata (write timestamp, schema version,
// origin).
//
// All operations are best-effort. A storage fault degrades to "nothing
// cached" and is logged; it never surfaces as a control-flow error, so a
// broken disk can cost freshness but not crash a caller.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/dbx"
	"github.com/franciskouaho/love-dice-sub000/internal/logging"
	"github.com/franciskouaho/love-dice-sub000/internal/timex"
)

// SchemaVersion is stamped on every entry at write time. A stored entry
// whose version differs from the running code's is treated as a miss.
const SchemaVersion = "1"

// TTLInfinite disables the freshness check on a read. Used for stale
// fallbacks after a remote failure.
const TTLInfinite = time.Duration(-1)

// Origin records where a cached payload came from. Diagnostics only; it
// never participates in validity decisions.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// Stats is an approximate view of the cache contents.
type Stats struct {
	Entries        int   `json:"entries"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
}

// Store is the durable key/value cache consumed by the sync coordinator and
// the quota engine. TTL is a property of the read, not of the entry: the
// same key can be read with different freshness requirements.
type Store interface {
	Write(ctx context.Context, key string, payload []byte, origin Origin)
	Read(ctx context.Context, key string, ttl time.Duration) ([]byte, error)
	Invalidate(ctx context.Context, key string)
	InvalidateAll(ctx context.Context)
	Stats(ctx context.Context) Stats
}

// SQLiteStore implements Store on top of a DBTX (either *sql.DB or *sql.Tx).
type SQLiteStore struct {
	db    dbx.DBTX
	clock timex.Clock
	log   logging.Logger
}

func NewSQLiteStore(db dbx.DBTX, clock timex.Clock, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, clock: clock, log: log}
}

// Write upserts the entry for key, stamping it with the current wall clock
// and the running schema version. Entries are never partially updated.
// Persistence failures are logged and swallowed.
func (s *SQLiteStore) Write(ctx context.Context, key string, payload []byte, origin Origin) {
	query := `INSERT INTO cache_entries (key, payload, written_at_ms, schema_version, origin)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET payload = excluded.payload,
				written_at_ms = excluded.written_at_ms,
				schema_version = excluded.schema_version,
				origin = excluded.origin
	`
	_, err := s.db.ExecContext(ctx, query,
		key, payload, s.clock.Now().UnixMilli(), SchemaVersion, string(origin))
	if err != nil {
		s.log.Warn(ctx, "cache write failed", "key", key, "error", err)
	}
}

// Read returns the payload for key when the stored entry is still valid:
// the schema version matches and now - writtenAt < ttl. Everything else,
// including storage faults, reads as common.ErrorNotFound.
func (s *SQLiteStore) Read(ctx context.Context, key string, ttl time.Duration) ([]byte, error) {
	query := `SELECT payload, written_at_ms, schema_version FROM cache_entries WHERE key = ?`

	var payload []byte
	var writtenAtMillis int64
	var version string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload, &writtenAtMillis, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		s.log.Warn(ctx, "cache read failed", "key", key, "error", err)
		return nil, common.ErrorNotFound
	}

	if version != SchemaVersion {
		s.log.Debug(ctx, "cache entry schema mismatch", "key", key, "stored", version, "want", SchemaVersion)
		return nil, common.ErrorNotFound
	}

	if ttl != TTLInfinite {
		elapsed := s.clock.Now().UnixMilli() - writtenAtMillis
		if elapsed >= ttl.Milliseconds() {
			return nil, common.ErrorNotFound
		}
	}

	return payload, nil
}

// Invalidate removes the entry for key, if any.
func (s *SQLiteStore) Invalidate(ctx context.Context, key string) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		s.log.Warn(ctx, "cache invalidate failed", "key", key, "error", err)
	}
}

// InvalidateAll clears every entry together with its metadata.
func (s *SQLiteStore) InvalidateAll(ctx context.Context) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		s.log.Warn(ctx, "cache clear failed", "error", err)
	}
}

// Stats reports the entry count and the approximate serialized size of all
// stored payloads. Best-effort: on storage faults it returns zeroes.
func (s *SQLiteStore) Stats(ctx context.Context) Stats {
	query := `SELECT COUNT(*), COALESCE(SUM(LENGTH(payload)), 0) FROM cache_entries`

	var st Stats
	if err := s.db.QueryRowContext(ctx, query).Scan(&st.Entries, &st.TotalSizeBytes); err != nil {
		s.log.Warn(ctx, "cache stats failed", "error", err)
		return Stats{}
	}
	return st
}
