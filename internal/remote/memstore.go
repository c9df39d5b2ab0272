package remote

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
)

// MemoryDocumentStore is an in-memory DocumentStore used by tests and by the
// CLI's offline demo mode. It can be told to fail to exercise the degraded
// paths.
type MemoryDocumentStore struct {
	mu   sync.Mutex
	docs map[string]map[string]map[string]any // collection -> id -> fields

	// FailAll makes every call return common.ErrorRemoteUnavailable.
	FailAll bool
	// Calls counts operations per method name, for single-flight assertions.
	Calls map[string]int
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		docs:  make(map[string]map[string]map[string]any),
		Calls: make(map[string]int),
	}
}

// Seed stores fields directly, bypassing failure injection.
func (m *MemoryDocumentStore) Seed(collection, id string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	m.docs[collection][id] = cloneFields(fields)
}

// SeedJSON is Seed for a struct payload.
func (m *MemoryDocumentStore) SeedJSON(collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	m.Seed(collection, id, fields)
	return nil
}

func (m *MemoryDocumentStore) GetDocument(ctx context.Context, collection, id string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["get"]++
	if m.FailAll {
		return nil, common.ErrorRemoteUnavailable
	}
	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return json.Marshal(doc)
}

func (m *MemoryDocumentStore) PutDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["put"]++
	if m.FailAll {
		return common.ErrorRemoteUnavailable
	}
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	if merge {
		existing, ok := m.docs[collection][id]
		if !ok {
			existing = make(map[string]any)
		} else {
			existing = cloneFields(existing)
		}
		for k, v := range fields {
			existing[k] = v
		}
		m.docs[collection][id] = existing
		return nil
	}
	m.docs[collection][id] = cloneFields(fields)
	return nil
}

func (m *MemoryDocumentStore) QueryOrdered(ctx context.Context, collection, orderField string, dir Direction, limit int) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["query"]++
	if m.FailAll {
		return nil, common.ErrorRemoteUnavailable
	}

	ids := make([]string, 0, len(m.docs[collection]))
	for id := range m.docs[collection] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a := stringField(m.docs[collection][ids[i]], orderField)
		b := stringField(m.docs[collection][ids[j]], orderField)
		if dir == Descending {
			return a > b
		}
		return a < b
	})

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	result := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		data, err := json.Marshal(m.docs[collection][id])
		if err != nil {
			return nil, err
		}
		result = append(result, data)
	}
	return result, nil
}

func (m *MemoryDocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["delete"]++
	if m.FailAll {
		return common.ErrorRemoteUnavailable
	}
	delete(m.docs[collection], id)
	return nil
}

func cloneFields(fields map[string]any) map[string]any {
	c := make(map[string]any, len(fields))
	for k, v := range fields {
		c[k] = v
	}
	return c
}

func stringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
