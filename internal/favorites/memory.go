package favorites

import (
	"context"
	"sync"
)

// MemoryStore is a Store that lives only as long as the process
type MemoryStore struct {
	mu  sync.Mutex
	ids []string
	set bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(ids ...string) *MemoryStore {
	m := &MemoryStore{}
	if len(ids) > 0 {
		m.ids = append([]string(nil), ids...)
		m.set = true
	}
	return m
}

func (m *MemoryStore) Load(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return []string{}, nil
	}
	return append([]string(nil), m.ids...), nil
}

func (m *MemoryStore) Save(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append([]string(nil), ids...)
	m.set = true
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = nil
	m.set = false
	return nil
}
