package ui

import (
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/service"
)

// Pane is the panel that has keyboard focus
type Pane int

const (
	PaneSidebar Pane = iota
	PaneTasks
)

// Mode is the current input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeAddProject
	ModeRenameProject
	ModeConfirmDelete
	ModeMove
)

// String returns the display name for a mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeAddTask:
		return "Add task"
	case ModeEditTask:
		return "Edit task"
	case ModeAddProject:
		return "New project"
	case ModeRenameProject:
		return "Rename project"
	case ModeConfirmDelete:
		return "Delete"
	case ModeMove:
		return "Move"
	default:
		return "Unknown"
	}
}

// IsInput returns true for modes that capture typed text
func (m Mode) IsInput() bool {
	return m == ModeAddTask || m == ModeEditTask || m == ModeAddProject || m == ModeRenameProject
}

// Messages for inter-component communication

// ProjectsLoadedMsg contains the sidebar data. Favorites are recomputed on
// every load.
type ProjectsLoadedMsg struct {
	Projects  []model.Project
	Favorites []model.Project
	Err       error
}

// TasksLoadedMsg contains the tasks of the selected destination
type TasksLoadedMsg struct {
	Destination string
	Tasks       []model.Task
	Err         error
}

// TaskCreatedMsg indicates a task was created
type TaskCreatedMsg struct {
	Task *model.Task
	Err  error
}

// TaskUpdatedMsg indicates a task was updated
type TaskUpdatedMsg struct {
	Task *model.Task
	Err  error
}

// TaskDeletedMsg indicates a task was deleted
type TaskDeletedMsg struct {
	TaskID string
	Err    error
}

// TaskCompletedMsg indicates a task was closed
type TaskCompletedMsg struct {
	TaskID string
	Err    error
}

// MoveTargetsMsg contains the projects offered by the move picker
type MoveTargetsMsg struct {
	Targets []model.Project
	Err     error
}

// TaskMovedMsg carries the outcome of a relocation
type TaskMovedMsg struct {
	Relocation *service.Relocation
	Target     string
	Err        error
}

// ProjectSavedMsg indicates a project was created or renamed
type ProjectSavedMsg struct {
	Project *model.Project
	Created bool
	Err     error
}

// ProjectDeletedMsg indicates a project was deleted
type ProjectDeletedMsg struct {
	ProjectID string
	Err       error
}

// FavoriteToggledMsg indicates a favorite marker flipped
type FavoriteToggledMsg struct {
	Project *model.Project
	Err     error
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}
