package service

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dori/doist/internal/db"
	"github.com/dori/doist/internal/favorites"
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/todoist"
	"github.com/dori/doist/internal/todoist/todoisttest"
)

type fixture struct {
	svc    *Service
	srv    *todoisttest.Server
	favs   *favorites.MemoryStore
	ledger *db.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := todoisttest.NewServer()
	t.Cleanup(srv.Close)

	ledger, err := db.Open(filepath.Join(t.TempDir(), "doist.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })

	favs := favorites.NewMemoryStore()
	client := todoist.New(todoist.Config{BaseURL: srv.URL, Token: todoisttest.Token})
	return &fixture{
		svc:    New(client, favs, ledger),
		srv:    srv,
		favs:   favs,
		ledger: ledger,
	}
}

func ptr[T any](v T) *T { return &v }

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if verr.Field != field {
		t.Errorf("Field = %q, want %q", verr.Field, field)
	}
}

func TestValidationSkipsRemote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTask(ctx, "", "   ", "")
	assertValidation(t, err, "content")

	_, err = f.svc.CreateProject(ctx, "")
	assertValidation(t, err, "name")

	_, err = f.svc.CreateProject(ctx, "INBOX")
	assertValidation(t, err, "name")

	_, err = f.svc.UpdateTask(ctx, "1", model.TaskPatch{Content: ptr(" ")})
	assertValidation(t, err, "content")

	_, err = f.svc.UpdateTask(ctx, "1", model.TaskPatch{Priority: ptr(model.Priority(7))})
	assertValidation(t, err, "priority")

	assertValidation(t, f.svc.DeleteTask(ctx, ""), "id")
	assertValidation(t, f.svc.CompleteTask(ctx, ""), "id")

	if n := len(f.srv.Requests("")); n != 0 {
		t.Errorf("validation failures sent %d remote requests", n)
	}
}

func TestCreateTaskInboxSentinel(t *testing.T) {
	f := newFixture(t)
	inbox := f.srv.AddProject("Inbox", true)

	task, err := f.svc.CreateTask(context.Background(), model.InboxDestination, "Call mum", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ProjectID != inbox.ID {
		t.Errorf("ProjectID = %q, want the inbox %q", task.ProjectID, inbox.ID)
	}
	reqs := f.srv.Requests(http.MethodPost)
	if len(reqs) != 1 || strings.Contains(reqs[0].Body, "project_id") {
		t.Errorf("inbox create should omit project_id, sent %+v", reqs)
	}
}

func TestDeleteProjectRejectsInbox(t *testing.T) {
	f := newFixture(t)
	inbox := f.srv.AddProject("Inbox", true)

	assertValidation(t, f.svc.DeleteProject(context.Background(), inbox.ID), "id")
	if len(f.srv.Requests(http.MethodDelete)) != 0 {
		t.Error("no delete should reach the remote")
	}
}

func TestProjectLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreateProject(ctx, "  Reading  ")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Name != "Reading" {
		t.Errorf("Name = %q, want trimmed", p.Name)
	}

	p, err = f.svc.UpdateProject(ctx, p.ID, model.ProjectPatch{Name: ptr("Favorite reads")})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if !p.IsFavorite {
		t.Error("renamed project should pick up the name heuristic")
	}

	if err := f.svc.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if err := f.svc.DeleteProject(ctx, p.ID); !todoist.IsNotFound(err) {
		t.Errorf("second delete = %v, want not found", err)
	}
}

func TestCompleteAndReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work := f.srv.AddProject("Work", false)
	task := f.srv.AddTask(model.Task{Content: "Ship it", ProjectID: work.ID})

	if err := f.svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	tasks, _ := f.svc.ListTasks(ctx, &work.ID)
	if len(tasks) != 0 {
		t.Errorf("completed task still listed: %+v", tasks)
	}

	if err := f.svc.ReopenTask(ctx, task.ID); err != nil {
		t.Fatalf("ReopenTask: %v", err)
	}
	tasks, _ = f.svc.ListTasks(ctx, &work.ID)
	if len(tasks) != 1 {
		t.Errorf("reopened task missing: %+v", tasks)
	}

	if err := f.svc.CompleteTask(ctx, "404"); !todoist.IsNotFound(err) {
		t.Errorf("CompleteTask(missing) = %v", err)
	}
}

func TestListTasksInboxSentinelResolves(t *testing.T) {
	f := newFixture(t)
	inbox := f.srv.AddProject("Inbox", true)
	in := f.srv.AddTask(model.Task{Content: "a", ProjectID: inbox.ID})

	tasks, err := f.svc.ListTasks(context.Background(), ptr(model.InboxDestination))
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != in.ID {
		t.Errorf("ListTasks(inbox) = %+v", tasks)
	}
}

func TestMoveTargetsExcludeCurrent(t *testing.T) {
	f := newFixture(t)
	f.srv.AddProject("Inbox", true)
	work := f.srv.AddProject("Work", false)
	home := f.srv.AddProject("Home", false)

	targets, err := f.svc.MoveTargets(context.Background(), work.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 2 {
		t.Fatalf("targets = %+v", targets)
	}
	for _, p := range targets {
		if p.ID == work.ID {
			t.Error("current project offered as target")
		}
	}

	targets, _ = f.svc.MoveTargets(context.Background(), "")
	if len(targets) != 2 || targets[0].ID != work.ID || targets[1].ID != home.ID {
		t.Errorf("from no project, inbox should be excluded: %+v", targets)
	}
}

func TestGetProjectReconcilesFavorite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	work := f.srv.AddProject("Work", false)
	if err := f.favs.Save(ctx, []string{work.ID}); err != nil {
		t.Fatal(err)
	}

	p, err := f.svc.GetProject(ctx, work.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if p.Name != "Work" || !p.IsFavorite {
		t.Errorf("got %+v, want favorite Work", p)
	}

	_, err = f.svc.GetProject(ctx, "missing")
	if !todoist.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}

	_, err = f.svc.GetProject(ctx, " ")
	assertValidation(t, err, "id")
}
