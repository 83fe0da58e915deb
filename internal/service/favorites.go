package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dori/doist/internal/favorites"
	"github.com/dori/doist/internal/logger"
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/todoist"
)

// updater is implemented by stores that can do a locked read-modify-write
type updater interface {
	Update(ctx context.Context, fn func([]string) []string) error
}

func (s *Service) favoriteSet(ctx context.Context) (favorites.Set, error) {
	ids, err := s.favorites.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return favorites.NewSet(ids), nil
}

// IsFavorite reports whether p is a favorite, reading the local set fresh
func (s *Service) IsFavorite(ctx context.Context, p model.Project) (bool, error) {
	set, err := s.favoriteSet(ctx)
	if err != nil {
		return false, err
	}
	return favorites.IsFavorite(p, set), nil
}

// ListFavoriteProjects returns every favorite project once, tagged as favorite
func (s *Service) ListFavoriteProjects(ctx context.Context) ([]model.Project, error) {
	projects, err := s.remote.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	set, err := s.favoriteSet(ctx)
	if err != nil {
		return nil, err
	}
	return favorites.Merge(projects, set), nil
}

// FavoriteCandidate resolves a project for a favorite toggle. A locally
// favorited project that no longer exists remotely comes back as a bare entry
// carrying only its id, so the stale id can still be dropped.
func (s *Service) FavoriteCandidate(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err == nil || !todoist.IsNotFound(err) {
		return p, err
	}
	set, serr := s.favoriteSet(ctx)
	if serr != nil {
		return nil, serr
	}
	id = strings.TrimSpace(id)
	if !set.Has(id) {
		return nil, err
	}
	logger.Debug(ctx, "favorite project missing remotely", "project_id", id)
	return &model.Project{ID: id, IsFavorite: true}, nil
}

// ToggleProjectFavorite removes p from the local favorites when
// currentlyFavorite is true and adds it otherwise. Only local state changes.
// The returned project carries the flipped marker.
func (s *Service) ToggleProjectFavorite(ctx context.Context, p model.Project, currentlyFavorite bool) (*model.Project, error) {
	if err := checkID(p.ID); err != nil {
		return nil, err
	}

	apply := func(ids []string) []string {
		if currentlyFavorite {
			return favorites.Remove(ids, p.ID)
		}
		return favorites.Add(ids, p.ID)
	}

	if u, ok := s.favorites.(updater); ok {
		if err := u.Update(ctx, apply); err != nil {
			return nil, err
		}
	} else {
		ids, err := s.favorites.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load favorites: %w", err)
		}
		if err := s.favorites.Save(ctx, apply(ids)); err != nil {
			return nil, err
		}
	}

	p.IsFavorite = !currentlyFavorite
	return &p, nil
}

// ResetFavorites forgets every locally tracked favorite
func (s *Service) ResetFavorites(ctx context.Context) error {
	return s.favorites.Clear(ctx)
}

// FavoriteIDs returns the locally tracked favorite ids
func (s *Service) FavoriteIDs(ctx context.Context) ([]string, error) {
	return s.favorites.Load(ctx)
}
