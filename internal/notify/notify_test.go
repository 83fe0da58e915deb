package notify

import (
	"reflect"
	"testing"
	"time"
)

func TestArgs(t *testing.T) {
	got := Args(Notification{
		Title:   "Title",
		Body:    "Body",
		Urgency: UrgencyCritical,
		Timeout: 2 * time.Second,
		Icon:    "icon",
	})
	want := []string{"-u", "critical", "-t", "2000", "-i", "icon", "-a", "doist", "Title", "Body"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args = %v, want %v", got, want)
	}

	got = Args(Notification{Title: "Only title"})
	want = []string{"-u", "low", "-a", "doist", "Only title"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args = %v, want %v", got, want)
	}
}

func TestDisabledNotifierDoesNotRun(t *testing.T) {
	n := NewNotifier(false)
	called := false
	n.run = func(string, ...string) error {
		called = true
		return nil
	}
	if err := n.SendOrphanWarning("Buy milk"); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("disabled notifier ran notify-send")
	}

	n.SetEnabled(true)
	if err := n.SendOrphanWarning("Buy milk"); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("enabled notifier did not run notify-send")
	}
}
