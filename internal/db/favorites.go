package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// FavoritesKey is the kv key holding the JSON array of favorite project ids
const FavoritesKey = "todoistFavorites"

// FavoriteStore persists favorite project ids as a single JSON array under
// FavoritesKey. It implements favorites.Store.
type FavoriteStore struct {
	db *DB
	mu sync.Mutex
}

// NewFavoriteStore creates a favorites store backed by db
func NewFavoriteStore(db *DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Load returns the stored ids. An absent key is an empty set.
func (s *FavoriteStore) Load(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *FavoriteStore) load(ctx context.Context) ([]string, error) {
	raw, ok, err := s.db.GetValue(ctx, FavoritesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	if !ok {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Save replaces the stored ids
func (s *FavoriteStore) Save(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, ids)
}

func (s *FavoriteStore) save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.db.SetValue(ctx, FavoritesKey, string(data)); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	return nil
}

// Update runs a read-modify-write of the stored ids under the store lock
func (s *FavoriteStore) Update(ctx context.Context, fn func([]string) []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, fn(ids))
}

// Clear removes the key entirely
func (s *FavoriteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteValue(ctx, FavoritesKey); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}
