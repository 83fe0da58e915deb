package theme

import (
	"testing"

	"github.com/dori/doist/internal/model"
)

func TestByName(t *testing.T) {
	for _, want := range Available() {
		got, ok := ByName(want.Name)
		if !ok || got.Name != want.Name {
			t.Errorf("ByName(%q) = %q, %v", want.Name, got.Name, ok)
		}
		if want.Favorite == "" {
			t.Errorf("theme %q has no favorite color", want.Name)
		}
	}
	if _, ok := ByName("solarized"); ok {
		t.Error("unknown theme should not be found")
	}
}

func TestPriorityColor(t *testing.T) {
	if got := Nord.PriorityColor(model.PriorityUrgent); got != Nord.PriorityUrgent {
		t.Errorf("urgent = %v", got)
	}
	if got := Nord.PriorityColor(model.Priority(0)); got != Nord.PriorityLow {
		t.Errorf("unset priority = %v, want low", got)
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(Nord)
	SetTheme(Dracula)
	if Current.Theme.Name != "dracula" {
		t.Errorf("Current = %q", Current.Theme.Name)
	}
}
