package cli

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dori/doist/internal/config"
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/todoist/todoisttest"
)

type fixture struct {
	remote     *todoisttest.Server
	configPath string
	inbox      model.Project
	work       model.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	for _, key := range []string{"DOIST_API_TOKEN", "DOIST_API_URL", "DOIST_DATA_DIR", "TODOIST_API_TOKEN"} {
		t.Setenv(key, "")
	}

	remote := todoisttest.NewServer()
	t.Cleanup(remote.Close)

	cfg := config.Default()
	cfg.APIURL = remote.URL
	cfg.APIToken = todoisttest.Token
	cfg.DataDir = t.TempDir()
	cfg.Notifications = false

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.Write(path, cfg); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &fixture{
		remote:     remote,
		configPath: path,
		inbox:      remote.AddProject("Inbox", true),
		work:       remote.AddProject("Work", false),
	}
}

func (f *fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd("test")
	cmd.SetArgs(append([]string{"--config", f.configPath}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (f *fixture) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := f.run(t, args...)
	if err != nil {
		t.Fatalf("doist %s: %v (stderr %q)", strings.Join(args, " "), err, stderr)
	}
	return out
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	if out := f.mustRun(t, "version"); out != "doist test\n" {
		t.Errorf("version = %q", out)
	}
}

func TestProjects(t *testing.T) {
	f := newFixture(t)
	out := f.mustRun(t, "projects")
	if !strings.Contains(out, "Inbox") || !strings.Contains(out, "inbox") || !strings.Contains(out, "Work") {
		t.Errorf("projects output:\n%s", out)
	}
}

func TestAddAndListTasks(t *testing.T) {
	f := newFixture(t)

	out := f.mustRun(t, "add", "Buy", "milk")
	if !strings.HasPrefix(out, "Created task") {
		t.Errorf("add output = %q", out)
	}
	f.mustRun(t, "add", "Ship release", "--project", f.work.ID)

	out = f.mustRun(t, "tasks")
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Ship release") {
		t.Errorf("inbox tasks:\n%s", out)
	}
	out = f.mustRun(t, "tasks", "--project", f.work.ID)
	if !strings.Contains(out, "Ship release") {
		t.Errorf("work tasks:\n%s", out)
	}
}

func TestCompleteReopenDelete(t *testing.T) {
	f := newFixture(t)
	task := f.remote.AddTask(model.Task{Content: "Walk", ProjectID: f.inbox.ID})

	f.mustRun(t, "complete", task.ID)
	if !f.remote.IsClosed(task.ID) {
		t.Fatal("task should be closed")
	}
	f.mustRun(t, "reopen", task.ID)
	f.mustRun(t, "delete", task.ID)
	if _, ok := f.remote.Task(task.ID); ok {
		t.Error("task should be deleted")
	}

	if _, _, err := f.run(t, "delete", task.ID); err == nil {
		t.Error("deleting a missing task should fail")
	}
}

func TestMove(t *testing.T) {
	f := newFixture(t)
	task := f.remote.AddTask(model.Task{Content: "Write report", ProjectID: f.inbox.ID})

	out := f.mustRun(t, "move", task.ID, f.work.ID)
	if !strings.Contains(out, "new ID") {
		t.Errorf("move output = %q", out)
	}
	tasks := f.remote.Tasks()
	if len(tasks) != 1 || tasks[0].ProjectID != f.work.ID || tasks[0].ID == task.ID {
		t.Errorf("remote tasks = %+v", tasks)
	}
}

func TestMoveCreateFailure(t *testing.T) {
	f := newFixture(t)
	task := f.remote.AddTask(model.Task{Content: "Write report", ProjectID: f.inbox.ID})
	f.remote.Fail(http.MethodPost, "/tasks", http.StatusInternalServerError)

	_, _, err := f.run(t, "move", task.ID, f.work.ID)
	if err == nil || !strings.Contains(err.Error(), "create step") {
		t.Fatalf("err = %v, want create step failure", err)
	}
	if _, ok := f.remote.Task(task.ID); !ok {
		t.Error("original should be untouched")
	}
}

func TestMoveOrphanAndCleanup(t *testing.T) {
	f := newFixture(t)
	task := f.remote.AddTask(model.Task{Content: "Write report", ProjectID: f.inbox.ID})
	f.remote.Fail(http.MethodDelete, "/tasks/", http.StatusInternalServerError)

	_, stderr, err := f.run(t, "move", task.ID, f.work.ID)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !strings.Contains(stderr, "could not be deleted") {
		t.Errorf("stderr = %q, want orphan warning", stderr)
	}

	out := f.mustRun(t, "orphans")
	if !strings.Contains(out, task.ID) {
		t.Errorf("orphans output:\n%s", out)
	}

	f.remote.ClearFailures()
	out = f.mustRun(t, "orphans", "--cleanup")
	if !strings.Contains(out, "Removed original task "+task.ID) {
		t.Errorf("cleanup output = %q", out)
	}
	if out := f.mustRun(t, "orphans"); !strings.Contains(out, "No orphaned tasks") {
		t.Errorf("orphans after cleanup = %q", out)
	}
}

func TestFavoritesPersist(t *testing.T) {
	f := newFixture(t)

	out := f.mustRun(t, "favorite", f.work.ID)
	if !strings.Contains(out, "Work is now a favorite") {
		t.Errorf("favorite output = %q", out)
	}

	// A separate invocation reads the sqlite store
	if out := f.mustRun(t, "favorites"); !strings.Contains(out, "Work") {
		t.Errorf("favorites:\n%s", out)
	}

	out = f.mustRun(t, "favorite", f.work.ID, "--off")
	if !strings.Contains(out, "no longer") {
		t.Errorf("favorite --off output = %q", out)
	}

	f.mustRun(t, "favorite", f.work.ID)
	f.mustRun(t, "reset-favorites")
	if out := f.mustRun(t, "favorites"); !strings.Contains(out, "No favorite projects") {
		t.Errorf("favorites after reset = %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	f := newFixture(t)

	if _, _, err := f.run(t, "config", "init"); err == nil {
		t.Fatal("init over an existing file should fail without --force")
	}
	f.mustRun(t, "config", "init", "--force")

	out := f.mustRun(t, "config", "show")
	if !strings.Contains(out, "api_url: "+config.DefaultAPIURL) {
		t.Errorf("show output:\n%s", out)
	}
	if strings.Contains(out, todoisttest.Token) {
		t.Error("token must be masked")
	}
}

func TestMissingToken(t *testing.T) {
	f := newFixture(t)
	f.mustRun(t, "config", "init", "--force")

	_, _, err := f.run(t, "projects")
	if !errors.Is(err, config.ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}
}
