// Package remote is the thin adapter over the remote document store. It
// exposes the store's generic CRUD surface as typed per-entity fetch and
// write functions, leaving caching, fallbacks and retries-on-read policy
// to the sync coordinator.
package remote

import (
	"context"
	"encoding/json"
)

// Direction orders a query.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// DocumentStore is the generic CRUD contract of the remote store. Server
// timestamps are opaque to this subsystem; only the document bodies travel
// through. Implementations must honor the context deadline.
type DocumentStore interface {
	// GetDocument returns the raw document body, or common.ErrorNotFound.
	GetDocument(ctx context.Context, collection, id string) (json.RawMessage, error)

	// PutDocument writes fields to the document. With merge=true only the
	// given fields are replaced; otherwise the whole document is.
	PutDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error

	// QueryOrdered lists documents of a collection ordered by orderField.
	// limit <= 0 means no limit.
	QueryOrdered(ctx context.Context, collection, orderField string, dir Direction, limit int) ([]json.RawMessage, error)

	// DeleteDocument removes the document. Deleting a missing document is
	// not an error.
	DeleteDocument(ctx context.Context, collection, id string) error
}
