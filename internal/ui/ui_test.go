package ui

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/doist/internal/favorites"
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/service"
	"github.com/dori/doist/internal/todoist"
	"github.com/dori/doist/internal/todoist/todoisttest"
)

type recordingNotifier struct {
	sent []string
}

func (n *recordingNotifier) SendOrphanWarning(content string) error {
	n.sent = append(n.sent, content)
	return nil
}

type fixture struct {
	notes  *recordingNotifier
	remote *todoisttest.Server
	inbox  model.Project
	work   model.Project
	model  RootModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	remote := todoisttest.NewServer()
	t.Cleanup(remote.Close)

	f := &fixture{
		notes:  &recordingNotifier{},
		remote: remote,
		inbox:  remote.AddProject("Inbox", true),
		work:   remote.AddProject("Work", false),
	}
	client := todoist.New(todoist.Config{BaseURL: remote.URL, Token: todoisttest.Token})
	svc := service.New(client, favorites.NewMemoryStore(), nil)
	f.model = newRootModel(svc, f.notes)
	return f
}

// isAppMsg reports whether msg is one of ours. Spinner ticks and cursor
// blinks reschedule themselves and are never fed back.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case ProjectsLoadedMsg, TasksLoadedMsg, TaskCreatedMsg, TaskUpdatedMsg,
		TaskDeletedMsg, TaskCompletedMsg, MoveTargetsMsg, TaskMovedMsg,
		ProjectSavedMsg, ProjectDeletedMsg, FavoriteToggledMsg, ErrorMsg, StatusMsg:
		return true
	}
	return false
}

// drain runs cmd and every command it produces until the model settles
func drain(t *testing.T, m RootModel, cmd tea.Cmd) RootModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("model did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if !isAppMsg(msg) {
			continue
		}
		next, cmd := m.Update(msg)
		m = next.(RootModel)
		queue = append(queue, cmd)
	}
	return m
}

func press(t *testing.T, m RootModel, msg tea.KeyMsg) RootModel {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(RootModel), cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func (f *fixture) start(t *testing.T) RootModel {
	t.Helper()
	m := drain(t, f.model, f.model.Init())
	if m.pending != 0 {
		t.Fatalf("pending = %d after init", m.pending)
	}
	return m
}

func TestBuildSidebar(t *testing.T) {
	inbox := model.Project{ID: "1", Name: "Inbox", IsInboxProject: true}
	work := model.Project{ID: "2", Name: "Work", IsFavorite: true}
	home := model.Project{ID: "3", Name: "Home"}

	rows := buildSidebar([]model.Project{inbox, work, home}, []model.Project{work})

	var labels []string
	for _, r := range rows {
		labels = append(labels, r.label)
	}
	want := "Inbox,Favorites,Work,Projects,Work,Home"
	if got := strings.Join(labels, ","); got != want {
		t.Fatalf("rows = %s, want %s", got, want)
	}
	if rows[0].destination() != model.InboxDestination || rows[0].project.ID != "1" {
		t.Errorf("inbox row = %+v", rows[0])
	}

	// Headers are skipped in both directions
	if got := stepCursor(rows, 0, 1); got != 2 {
		t.Errorf("down from inbox = %d, want 2", got)
	}
	if got := stepCursor(rows, 4, -1); got != 2 {
		t.Errorf("up from Projects/Work = %d, want 2", got)
	}
	if got := stepCursor(rows, 5, 1); got != 5 {
		t.Errorf("down past the end = %d, want 5", got)
	}
	if got := findRow(rows, "3"); got != 5 {
		t.Errorf("findRow(home) = %d, want 5", got)
	}
	if got := destinationName(rows, "2"); got != "Work" {
		t.Errorf("destinationName = %q", got)
	}
}

func TestBuildSidebarWithoutFavorites(t *testing.T) {
	rows := buildSidebar([]model.Project{{ID: "2", Name: "Work"}}, nil)
	if len(rows) != 3 || rows[1].label != "Projects" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestInitLoadsInbox(t *testing.T) {
	f := newFixture(t)
	f.remote.AddTask(model.Task{Content: "Buy milk", ProjectID: f.inbox.ID})
	f.remote.AddTask(model.Task{Content: "Ship release", ProjectID: f.work.ID})

	m := f.start(t)

	if len(m.tasks) != 1 || m.tasks[0].Content != "Buy milk" {
		t.Fatalf("tasks = %+v", m.tasks)
	}
	if destinationName(m.rows, f.work.ID) != "Work" {
		t.Error("sidebar should list Work")
	}
}

func TestAddTask(t *testing.T) {
	f := newFixture(t)
	m := f.start(t)

	m = press(t, m, runes("a"))
	if m.mode != ModeAddTask {
		t.Fatalf("mode = %v, want add task", m.mode)
	}
	m = press(t, m, runes("Buy milk"))
	m = press(t, m, enter)

	if m.mode != ModeNormal {
		t.Errorf("mode = %v after enter", m.mode)
	}
	if len(m.tasks) != 1 || m.tasks[0].Content != "Buy milk" {
		t.Fatalf("tasks = %+v", m.tasks)
	}
	if m.tasks[0].ProjectID != f.inbox.ID {
		t.Errorf("project = %q, want inbox", m.tasks[0].ProjectID)
	}
	if !strings.Contains(m.statusMsg, "Added") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestAddEmptyTaskShowsValidation(t *testing.T) {
	f := newFixture(t)
	m := f.start(t)

	m = press(t, m, runes("a"))
	m = press(t, m, enter)

	if !strings.Contains(m.errorMsg, "content") {
		t.Errorf("error = %q, want content validation", m.errorMsg)
	}
	if len(f.remote.Requests(http.MethodPost)) != 0 {
		t.Error("no remote write expected")
	}
}

func TestMoveTask(t *testing.T) {
	f := newFixture(t)
	orig := f.remote.AddTask(model.Task{Content: "Write report", ProjectID: f.inbox.ID})
	m := f.start(t)

	m = press(t, m, runes("m"))
	if m.mode != ModeMove {
		t.Fatalf("mode = %v, want move", m.mode)
	}
	if len(m.targets) != 1 || m.targets[0].ID != f.work.ID {
		t.Fatalf("targets = %+v, want only Work", m.targets)
	}

	m = press(t, m, enter)

	if m.statusMsg != "Moved to Work" {
		t.Errorf("status = %q", m.statusMsg)
	}
	if len(m.tasks) != 0 {
		t.Errorf("inbox should be empty, got %+v", m.tasks)
	}
	if _, ok := f.remote.Task(orig.ID); ok {
		t.Error("original should be deleted")
	}
	tasks := f.remote.Tasks()
	if len(tasks) != 1 || tasks[0].ProjectID != f.work.ID {
		t.Errorf("remote tasks = %+v", tasks)
	}
}

func TestMoveOrphanWarns(t *testing.T) {
	f := newFixture(t)
	f.remote.AddTask(model.Task{Content: "Write report", ProjectID: f.inbox.ID})
	m := f.start(t)
	f.remote.Fail(http.MethodDelete, "/tasks/", http.StatusInternalServerError)

	m = press(t, m, runes("m"))
	m = press(t, m, enter)

	if !strings.Contains(m.errorMsg, "could not be removed") {
		t.Errorf("error = %q, want orphan warning", m.errorMsg)
	}
	if len(f.remote.Tasks()) != 2 {
		t.Errorf("want original and copy, got %d tasks", len(f.remote.Tasks()))
	}
	if len(f.notes.sent) != 1 || f.notes.sent[0] != "Write report" {
		t.Errorf("notifications = %v", f.notes.sent)
	}
}

func TestOrphanNotificationRunsAsCommand(t *testing.T) {
	f := newFixture(t)
	m := f.start(t)
	rel := &service.Relocation{
		OriginalID: "1",
		Task:       &model.Task{ID: "2", Content: "Write report"},
		State:      service.StateCompletedWithOrphan,
	}

	next, cmd := m.Update(TaskMovedMsg{Relocation: rel, Target: "Work"})
	if len(f.notes.sent) != 0 {
		t.Fatal("notification sent inside Update")
	}
	drain(t, next.(RootModel), cmd)
	if len(f.notes.sent) != 1 {
		t.Errorf("notifications = %v, want one", f.notes.sent)
	}
}

func TestMoveFailureNamesStep(t *testing.T) {
	f := newFixture(t)
	f.remote.AddTask(model.Task{Content: "Write report", ProjectID: f.inbox.ID})
	m := f.start(t)
	f.remote.Fail(http.MethodPost, "/tasks", http.StatusServiceUnavailable)

	m = press(t, m, runes("m"))
	m = press(t, m, enter)

	if !strings.Contains(m.errorMsg, "create step") {
		t.Errorf("error = %q, want create step", m.errorMsg)
	}
}

func TestToggleFavoriteFromSidebar(t *testing.T) {
	f := newFixture(t)
	m := f.start(t)

	m = press(t, m, tab)
	m = press(t, m, down)
	if row := m.rowAt(m.sidebarCursor); row.project.ID != f.work.ID {
		t.Fatalf("cursor on %+v, want Work", row)
	}

	m = press(t, m, runes("f"))

	if m.statusMsg != "Work added to favorites" {
		t.Errorf("status = %q", m.statusMsg)
	}
	if m.rows[1].label != "Favorites" || m.rows[2].project.ID != f.work.ID {
		t.Errorf("rows = %+v", m.rows)
	}
	if row := m.rowAt(m.sidebarCursor); row.project.ID != f.work.ID {
		t.Errorf("cursor moved off Work: %+v", row)
	}

	m = press(t, m, runes("f"))
	if m.statusMsg != "Work removed from favorites" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestOpenProject(t *testing.T) {
	f := newFixture(t)
	f.remote.AddTask(model.Task{Content: "Ship release", ProjectID: f.work.ID})
	m := f.start(t)

	m = press(t, m, tab)
	m = press(t, m, down)
	m = press(t, m, enter)

	if m.dest != f.work.ID || m.focus != PaneTasks {
		t.Fatalf("dest = %q focus = %v", m.dest, m.focus)
	}
	if len(m.tasks) != 1 || m.tasks[0].Content != "Ship release" {
		t.Errorf("tasks = %+v", m.tasks)
	}
}

func TestInboxCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	m := f.start(t)

	m = press(t, m, tab)
	m = press(t, m, runes("d"))

	if m.mode != ModeNormal || m.errorMsg == "" {
		t.Errorf("mode = %v error = %q", m.mode, m.errorMsg)
	}
}

func TestDeleteTaskConfirm(t *testing.T) {
	f := newFixture(t)
	task := f.remote.AddTask(model.Task{Content: "Old", ProjectID: f.inbox.ID})
	m := f.start(t)

	m = press(t, m, runes("d"))
	if m.mode != ModeConfirmDelete {
		t.Fatalf("mode = %v", m.mode)
	}
	m = press(t, m, runes("n"))
	if _, ok := f.remote.Task(task.ID); !ok {
		t.Fatal("task deleted without confirmation")
	}

	m = press(t, m, runes("d"))
	m = press(t, m, runes("y"))
	if _, ok := f.remote.Task(task.ID); ok {
		t.Error("task should be deleted")
	}
	if len(m.tasks) != 0 {
		t.Errorf("tasks = %+v", m.tasks)
	}
}

func TestStaleTasksIgnored(t *testing.T) {
	f := newFixture(t)
	f.remote.AddTask(model.Task{Content: "Buy milk", ProjectID: f.inbox.ID})
	m := f.start(t)

	next, _ := m.Update(TasksLoadedMsg{Destination: f.work.ID, Tasks: []model.Task{{ID: "x"}}})
	m = next.(RootModel)
	if len(m.tasks) != 1 || m.tasks[0].Content != "Buy milk" {
		t.Errorf("tasks replaced by a stale load: %+v", m.tasks)
	}
}

func TestViewRenders(t *testing.T) {
	f := newFixture(t)
	f.remote.AddTask(model.Task{Content: "Buy milk", ProjectID: f.inbox.ID, Description: "**two** litres"})
	m := f.start(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(RootModel)
	m = press(t, m, enter)
	if !m.showDetail {
		t.Fatal("enter should toggle details")
	}

	out := m.View()
	for _, want := range []string{"doist", "Inbox", "Work", "Buy milk", "two"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("short = %q", got)
	}
	if got := truncate("hello world", 6); got != "hello…" {
		t.Errorf("long = %q", got)
	}
}
