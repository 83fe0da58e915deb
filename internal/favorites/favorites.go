// Package favorites merges the locally tracked favorite project ids with the
// naming heuristic. The merge is pure and recomputed on every call.
package favorites

import (
	"context"
	"strings"

	"github.com/dori/doist/internal/model"
)

// Store persists the set of project ids the user marked as favorite.
// Load on a store that was never written (or was cleared) returns an empty set.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
	Clear(ctx context.Context) error
}

// Set is a lookup over favorite project ids
type Set map[string]struct{}

// NewSet builds a Set from ids
func NewSet(ids []string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// MatchesName reports whether the project name carries the favorite marker
func MatchesName(name string) bool {
	return strings.Contains(strings.ToLower(name), "favorite")
}

// IsFavorite reports whether p is a favorite by either source
func IsFavorite(p model.Project, set Set) bool {
	return set.Has(p.ID) || MatchesName(p.Name)
}

// Merge returns the favorite projects, each once, tagged IsFavorite, in the
// order they appear in projects
func Merge(projects []model.Project, set Set) []model.Project {
	seen := make(map[string]bool, len(projects))
	out := make([]model.Project, 0)
	for _, p := range projects {
		if seen[p.ID] || !IsFavorite(p, set) {
			continue
		}
		seen[p.ID] = true
		p.IsFavorite = true
		out = append(out, p)
	}
	return out
}

// Tag returns a copy of projects with IsFavorite recomputed for each
func Tag(projects []model.Project, set Set) []model.Project {
	out := make([]model.Project, len(projects))
	for i, p := range projects {
		p.IsFavorite = IsFavorite(p, set)
		out[i] = p
	}
	return out
}

// Add returns ids with id appended unless already present
func Add(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Remove returns ids without any occurrence of id
func Remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
