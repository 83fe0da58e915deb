package app

import (
	"context"
	"strings"
	"testing"

	"github.com/dori/doist/internal/config"
	"github.com/dori/doist/internal/todoist/todoisttest"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.APIToken = todoisttest.Token
	cfg.DataDir = t.TempDir()
	cfg.Notifications = false
	return cfg
}

func TestNewRequiresToken(t *testing.T) {
	cfg := testConfig(t, "http://unused")
	cfg.APIToken = ""
	if _, err := New(cfg, Options{}); err != config.ErrMissingToken {
		t.Fatalf("err = %v, want ErrMissingToken", err)
	}
}

func TestExclusiveLock(t *testing.T) {
	cfg := testConfig(t, "http://unused")

	first, err := New(cfg, Options{Exclusive: true})
	if err != nil {
		t.Fatalf("first New: %v", err)
	}

	_, err = New(cfg, Options{Exclusive: true})
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("second exclusive New = %v, want lock error", err)
	}

	// Non-exclusive access (one-shot commands) still works
	shared, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("shared New: %v", err)
	}
	shared.Close()

	first.Close()
	again, err := New(cfg, Options{Exclusive: true})
	if err != nil {
		t.Fatalf("New after release: %v", err)
	}
	again.Close()
}

func TestServiceWiring(t *testing.T) {
	srv := todoisttest.NewServer()
	defer srv.Close()
	srv.AddProject("Inbox", true)

	a, err := New(testConfig(t, srv.URL), Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	projects, err := a.Service.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 || !projects[0].IsInbox() {
		t.Errorf("projects = %+v", projects)
	}
}
