package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/doist/internal/logger"
	"github.com/dori/doist/internal/model"
	"github.com/dori/doist/internal/service"
)

// requestTimeout bounds each background call from the UI
const requestTimeout = 30 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// loadProjects fetches projects and recomputes favorites
func loadProjects(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		projects, err := svc.ListProjects(ctx)
		if err != nil {
			return ProjectsLoadedMsg{Err: err}
		}
		favs, err := svc.ListFavoriteProjects(ctx)
		return ProjectsLoadedMsg{Projects: projects, Favorites: favs, Err: err}
	}
}

// loadTasks fetches the tasks of dest ("inbox" or a project ID)
func loadTasks(svc *service.Service, dest string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		var projectID *string
		if dest != model.InboxDestination {
			projectID = &dest
		}
		tasks, err := svc.ListTasks(ctx, projectID)
		return TasksLoadedMsg{Destination: dest, Tasks: tasks, Err: err}
	}
}

func createTask(svc *service.Service, dest, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		t, err := svc.CreateTask(ctx, dest, content, "")
		return TaskCreatedMsg{Task: t, Err: err}
	}
}

func updateTask(svc *service.Service, id string, patch model.TaskPatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		t, err := svc.UpdateTask(ctx, id, patch)
		return TaskUpdatedMsg{Task: t, Err: err}
	}
}

func deleteTask(svc *service.Service, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return TaskDeletedMsg{TaskID: id, Err: svc.DeleteTask(ctx, id)}
	}
}

func completeTask(svc *service.Service, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return TaskCompletedMsg{TaskID: id, Err: svc.CompleteTask(ctx, id)}
	}
}

func loadMoveTargets(svc *service.Service, currentProjectID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		targets, err := svc.MoveTargets(ctx, currentProjectID)
		return MoveTargetsMsg{Targets: targets, Err: err}
	}
}

// moveTask relocates a task. Moving to the inbox project uses the inbox
// sentinel so the copy lands without a project association.
func moveTask(svc *service.Service, taskID string, target model.Project) tea.Cmd {
	return func() tea.Msg {
		dest := target.ID
		if target.IsInbox() {
			dest = model.InboxDestination
		}
		ctx, cancel := withTimeout()
		defer cancel()
		rel, err := svc.RelocateTask(ctx, taskID, dest)
		return TaskMovedMsg{Relocation: rel, Target: target.Name, Err: err}
	}
}

func createProject(svc *service.Service, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		p, err := svc.CreateProject(ctx, name)
		return ProjectSavedMsg{Project: p, Created: true, Err: err}
	}
}

func renameProject(svc *service.Service, id, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		p, err := svc.UpdateProject(ctx, id, model.ProjectPatch{Name: &name})
		return ProjectSavedMsg{Project: p, Err: err}
	}
}

func deleteProject(svc *service.Service, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return ProjectDeletedMsg{ProjectID: id, Err: svc.DeleteProject(ctx, id)}
	}
}

func toggleFavorite(svc *service.Service, p model.Project) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		// Re-read the marker so a stale sidebar cannot double-toggle
		current, err := svc.IsFavorite(ctx, p)
		if err != nil {
			return FavoriteToggledMsg{Err: err}
		}
		toggled, err := svc.ToggleProjectFavorite(ctx, p, current)
		return FavoriteToggledMsg{Project: toggled, Err: err}
	}
}

// notifyOrphan sends the orphan warning off the event loop
func notifyOrphan(n Notifier, content string) tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		if err := n.SendOrphanWarning(content); err != nil {
			logger.Warn(context.Background(), "failed to send orphan notification", "err", err)
		}
		return nil
	}
}
