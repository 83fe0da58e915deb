package favorites

import (
	"context"
	"testing"

	"github.com/dori/doist/internal/model"
)

func TestIsFavorite(t *testing.T) {
	set := NewSet([]string{"1"})

	tests := []struct {
		name    string
		project model.Project
		want    bool
	}{
		{"in local set", model.Project{ID: "1", Name: "Work"}, true},
		{"name heuristic", model.Project{ID: "2", Name: "My Favorites"}, true},
		{"name heuristic case-insensitive", model.Project{ID: "3", Name: "FAVORITE things"}, true},
		{"neither", model.Project{ID: "4", Name: "Home"}, false},
		{"british spelling does not match", model.Project{ID: "5", Name: "Favourites"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFavorite(tt.project, set); got != tt.want {
				t.Errorf("IsFavorite(%+v) = %v, want %v", tt.project, got, tt.want)
			}
		})
	}
}

func TestMergeDedupsAndTags(t *testing.T) {
	projects := []model.Project{
		{ID: "1", Name: "Favorite reads"}, // both sources
		{ID: "2", Name: "Home"},
		{ID: "3", Name: "Work"},
		{ID: "1", Name: "Favorite reads"}, // duplicate row
	}
	got := Merge(projects, NewSet([]string{"1", "3", "99"}))

	if len(got) != 2 {
		t.Fatalf("Merge returned %d projects, want 2: %+v", len(got), got)
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("order = %s,%s want 1,3", got[0].ID, got[1].ID)
	}
	for _, p := range got {
		if !p.IsFavorite {
			t.Errorf("project %s not tagged", p.ID)
		}
	}
	if projects[0].IsFavorite {
		t.Error("Merge must not mutate its input")
	}
}

func TestTag(t *testing.T) {
	projects := []model.Project{{ID: "1", Name: "A", IsFavorite: true}, {ID: "2", Name: "B"}}
	got := Tag(projects, NewSet([]string{"2"}))
	if got[0].IsFavorite || !got[1].IsFavorite {
		t.Errorf("Tag = %+v", got)
	}
}

func TestAddRemove(t *testing.T) {
	ids := Add(nil, "1")
	ids = Add(ids, "1")
	ids = Add(ids, "2")
	if len(ids) != 2 {
		t.Fatalf("Add should not duplicate: %v", ids)
	}
	ids = Remove(ids, "1")
	ids = Remove(ids, "1")
	if len(ids) != 1 || ids[0] != "2" {
		t.Errorf("Remove = %v", ids)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ids, err := s.Load(ctx)
	if err != nil || len(ids) != 0 {
		t.Fatalf("fresh Load = %v, %v", ids, err)
	}
	if err := s.Save(ctx, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	ids, _ = s.Load(ctx)
	if len(ids) != 2 {
		t.Errorf("Load after Save = %v", ids)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	ids, _ = s.Load(ctx)
	if len(ids) != 0 {
		t.Errorf("Load after Clear = %v", ids)
	}
}
