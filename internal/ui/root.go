package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/doist/internal/app"
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/service"
	"github.com/dori/doist/internal/ui/theme"
)

// sidebarWidth is the outer width of the project sidebar
const sidebarWidth = 30

// pendingDelete is the task or project awaiting delete confirmation
type pendingDelete struct {
	taskID    string
	projectID string
	label     string
}

// Notifier delivers desktop notifications
type Notifier interface {
	SendOrphanWarning(content string) error
}

// RootModel is the main application model: a project sidebar next to the
// task list of the selected destination
type RootModel struct {
	svc      *service.Service
	notifier Notifier
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	input    textinput.Model
	width    int
	height   int

	focus       Pane
	mode        Mode
	helpVisible bool
	showDetail  bool

	// Sidebar
	rows          []sidebarRow
	sidebarCursor int
	dest          string // "inbox" or a project ID

	// Task list
	tasks  []model.Task
	cursor int

	// Move picker
	moving       *model.Task
	targets      []model.Project
	targetCursor int

	deleting  *pendingDelete
	editingID string

	// Outstanding remote calls (drives the spinner)
	pending int

	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	return newRootModel(application.Service, application.Notifier)
}

func newRootModel(svc *service.Service, notifier Notifier) RootModel {
	ti := textinput.New()
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	h := help.New()
	h.ShowAll = true

	return RootModel{
		svc:      svc,
		notifier: notifier,
		keys:     DefaultKeyMap(),
		help:     h,
		spinner:  sp,
		input:    ti,
		focus:    PaneTasks,
		rows:     buildSidebar(nil, nil),
		dest:     model.InboxDestination,
		pending:  2,
	}
}

// Init loads the sidebar and the inbox
func (m RootModel) Init() tea.Cmd {
	return tea.Batch(loadProjects(m.svc), loadTasks(m.svc, m.dest), m.spinner.Tick)
}

// start counts cmds as outstanding remote calls and restarts the spinner
// when it was idle
func (m *RootModel) start(cmds ...tea.Cmd) tea.Cmd {
	idle := m.pending == 0
	m.pending += len(cmds)
	if idle {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *RootModel) done() {
	if m.pending > 0 {
		m.pending--
	}
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - sidebarWidth - 8
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProjectsLoadedMsg:
		m.done()
		if msg.Err != nil {
			m.errorMsg = fmt.Sprintf("Failed to load projects: %v", msg.Err)
			return m, nil
		}
		highlighted := m.rowAt(m.sidebarCursor)
		m.rows = buildSidebar(msg.Projects, msg.Favorites)
		if m.dest != model.InboxDestination && findRow(m.rows, m.dest) == 0 {
			// The open project is gone
			m.dest = model.InboxDestination
			m.sidebarCursor = 0
			return m, m.start(loadTasks(m.svc, m.dest))
		}
		if highlighted.selectable() {
			m.sidebarCursor = findRow(m.rows, highlighted.destination())
		} else {
			m.sidebarCursor = findRow(m.rows, m.dest)
		}
		return m, nil

	case TasksLoadedMsg:
		m.done()
		if msg.Destination != m.dest {
			return m, nil
		}
		if msg.Err != nil {
			m.errorMsg = fmt.Sprintf("Failed to load tasks: %v", msg.Err)
			return m, nil
		}
		m.tasks = msg.Tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case TaskCreatedMsg:
		m.done()
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Added %q", msg.Task.Content)
		return m, m.start(loadTasks(m.svc, m.dest))

	case TaskUpdatedMsg:
		m.done()
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Updated %q", msg.Task.Content)
		return m, m.start(loadTasks(m.svc, m.dest))

	case TaskDeletedMsg:
		m.done()
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.statusMsg = "Task deleted"
		return m, m.start(loadTasks(m.svc, m.dest))

	case TaskCompletedMsg:
		m.done()
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.statusMsg = "Task completed"
		return m, m.start(loadTasks(m.svc, m.dest))

	case MoveTargetsMsg:
		m.done()
		if msg.Err != nil {
			m.moving = nil
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		if len(msg.Targets) == 0 {
			m.moving = nil
			m.statusMsg = "No other project to move to"
			return m, nil
		}
		m.targets = msg.Targets
		m.targetCursor = 0
		m.mode = ModeMove
		return m, nil

	case TaskMovedMsg:
		m.done()
		m.moving = nil
		notifyCmd := m.handleMoved(msg)
		return m, tea.Batch(m.start(loadTasks(m.svc, m.dest)), notifyCmd)

	case ProjectSavedMsg:
		m.done()
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		if msg.Created {
			m.statusMsg = fmt.Sprintf("Created project %q", msg.Project.Name)
		} else {
			m.statusMsg = fmt.Sprintf("Renamed project to %q", msg.Project.Name)
		}
		return m, m.start(loadProjects(m.svc))

	case ProjectDeletedMsg:
		m.done()
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.statusMsg = "Project deleted"
		if msg.ProjectID == m.dest {
			m.dest = model.InboxDestination
			m.tasks = nil
			m.cursor = 0
			return m, m.start(loadProjects(m.svc), loadTasks(m.svc, m.dest))
		}
		return m, m.start(loadProjects(m.svc))

	case FavoriteToggledMsg:
		m.done()
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		if msg.Project.IsFavorite {
			m.statusMsg = fmt.Sprintf("%s added to favorites", msg.Project.Name)
		} else {
			m.statusMsg = fmt.Sprintf("%s removed from favorites", msg.Project.Name)
		}
		return m, m.start(loadProjects(m.svc))

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Keep the cursor blinking while typing
	if m.mode.IsInput() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleMoved reports a relocation outcome. A left-behind original is a
// warning: the move itself succeeded. The returned command sends the desktop
// notification for that case.
func (m *RootModel) handleMoved(msg TaskMovedMsg) tea.Cmd {
	if msg.Err != nil {
		var rerr *service.RelocationError
		if errors.As(msg.Err, &rerr) {
			m.errorMsg = fmt.Sprintf("Move failed at %s step: %v", rerr.Step, rerr.Err)
		} else {
			m.errorMsg = msg.Err.Error()
		}
		return nil
	}

	rel := msg.Relocation
	if rel.Orphaned() {
		m.errorMsg = fmt.Sprintf("Moved to %s, but the original could not be removed (run `doist orphans --cleanup`)", msg.Target)
		return notifyOrphan(m.notifier, rel.Task.Content)
	}
	m.statusMsg = fmt.Sprintf("Moved to %s", msg.Target)
	return nil
}

func (m RootModel) rowAt(i int) sidebarRow {
	if i < 0 || i >= len(m.rows) {
		return sidebarRow{kind: rowHeader}
	}
	return m.rows[i]
}

func (m RootModel) selectedTask() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// handleKey routes a keypress by mode, then by focused pane
func (m RootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Clear status/error on any keypress
	m.statusMsg = ""
	m.errorMsg = ""

	switch {
	case m.mode.IsInput():
		return m.handleInput(msg)
	case m.mode == ModeConfirmDelete:
		return m.handleConfirmDelete(msg)
	case m.mode == ModeMove:
		return m.handleMovePicker(msg)
	}

	if m.helpVisible {
		if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
			m.helpVisible = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
		return m, nil
	case key.Matches(msg, m.keys.ThemeCycle):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.start(loadProjects(m.svc), loadTasks(m.svc, m.dest))
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == PaneSidebar {
			m.focus = PaneTasks
		} else {
			m.focus = PaneSidebar
		}
		return m, nil
	case key.Matches(msg, m.keys.Left):
		m.focus = PaneSidebar
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.focus = PaneTasks
		return m, nil
	case key.Matches(msg, m.keys.Add):
		return m.beginInput(ModeAddTask, "New task in "+destinationName(m.rows, m.dest), "")
	case key.Matches(msg, m.keys.NewProject):
		return m.beginInput(ModeAddProject, "Project name", "")
	}

	if m.focus == PaneSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleTaskKey(msg)
}

func (m RootModel) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row := m.rowAt(m.sidebarCursor)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebarCursor = stepCursor(m.rows, m.sidebarCursor, -1)
	case key.Matches(msg, m.keys.Down):
		m.sidebarCursor = stepCursor(m.rows, m.sidebarCursor, 1)
	case key.Matches(msg, m.keys.Top):
		m.sidebarCursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.sidebarCursor = stepCursor(m.rows, len(m.rows), -1)

	case key.Matches(msg, m.keys.Open):
		if !row.selectable() {
			return m, nil
		}
		m.dest = row.destination()
		m.tasks = nil
		m.cursor = 0
		m.showDetail = false
		m.focus = PaneTasks
		return m, m.start(loadTasks(m.svc, m.dest))

	case key.Matches(msg, m.keys.Favorite):
		if row.kind != rowProject {
			m.errorMsg = "Only projects can be favorites"
			return m, nil
		}
		return m, m.start(toggleFavorite(m.svc, row.project))

	case key.Matches(msg, m.keys.RenameProject):
		if row.kind != rowProject {
			m.errorMsg = "The inbox cannot be renamed"
			return m, nil
		}
		m.editingID = row.project.ID
		return m.beginInput(ModeRenameProject, "Project name", row.project.Name)

	case key.Matches(msg, m.keys.Delete):
		if row.kind != rowProject {
			m.errorMsg = "The inbox cannot be deleted"
			return m, nil
		}
		m.deleting = &pendingDelete{projectID: row.project.ID, label: row.project.Name}
		m.mode = ModeConfirmDelete
	}
	return m, nil
}

func (m RootModel) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(0, len(m.tasks)-1)
		return m, nil
	}

	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
	case key.Matches(msg, m.keys.Complete):
		return m, m.start(completeTask(m.svc, task.ID))
	case key.Matches(msg, m.keys.Priority):
		next := task.Priority%model.PriorityUrgent + 1
		return m, m.start(updateTask(m.svc, task.ID, model.TaskPatch{Priority: &next}))
	case key.Matches(msg, m.keys.Edit):
		m.editingID = task.ID
		return m.beginInput(ModeEditTask, "Task", task.Content)
	case key.Matches(msg, m.keys.Delete):
		m.deleting = &pendingDelete{taskID: task.ID, label: task.Content}
		m.mode = ModeConfirmDelete
	case key.Matches(msg, m.keys.Move):
		m.moving = &task
		return m, m.start(loadMoveTargets(m.svc, task.ProjectID))
	}
	return m, nil
}

func (m RootModel) beginInput(mode Mode, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m, textinput.Blink
}

func (m *RootModel) endInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.SetValue("")
	m.editingID = ""
}

// handleInput handles keypresses while typing. Empty values go through to
// the service so its validation message is shown.
func (m RootModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endInput()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		mode, id := m.mode, m.editingID
		m.endInput()

		switch mode {
		case ModeAddTask:
			return m, m.start(createTask(m.svc, m.dest, value))
		case ModeEditTask:
			return m, m.start(updateTask(m.svc, id, model.TaskPatch{Content: &value}))
		case ModeAddProject:
			return m, m.start(createProject(m.svc, value))
		case ModeRenameProject:
			return m, m.start(renameProject(m.svc, id, value))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m RootModel) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := m.deleting
		m.mode = ModeNormal
		m.deleting = nil
		if target == nil {
			return m, nil
		}
		if target.taskID != "" {
			return m, m.start(deleteTask(m.svc, target.taskID))
		}
		return m, m.start(deleteProject(m.svc, target.projectID))
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.deleting = nil
	}
	return m, nil
}

// handleMovePicker handles the destination picker
func (m RootModel) handleMovePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.targets)
	switch msg.String() {
	case "up", "k":
		if m.targetCursor > 0 {
			m.targetCursor--
		} else if n > 0 {
			m.targetCursor = n - 1 // Wrap to bottom
		}
	case "down", "j":
		if m.targetCursor < n-1 {
			m.targetCursor++
		} else {
			m.targetCursor = 0 // Wrap to top
		}
	case "enter":
		if m.targetCursor < n && m.moving != nil {
			target := m.targets[m.targetCursor]
			m.mode = ModeNormal
			m.targets = nil
			return m, m.start(moveTask(m.svc, m.moving.ID, target))
		}
	case "esc":
		m.mode = ModeNormal
		m.targets = nil
		m.moving = nil
	}
	return m, nil
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}
