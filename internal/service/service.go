// Package service is the operation surface the TUI, the HTTP server and the
// CLI share. It validates input, forwards single-step operations to the
// Todoist adapter, and implements task relocation and the favorites overlay.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dori/doist/internal/db"
	"github.com/dori/doist/internal/favorites"
	"github.com/dori/doist/internal/model"
)

// Remote is the Todoist adapter as the service uses it
type Remote interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	CreateProject(ctx context.Context, name string) (*model.Project, error)
	UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListTasks(ctx context.Context, projectID *string) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CompleteTask(ctx context.Context, id string) error
	ReopenTask(ctx context.Context, id string) error
}

// OrphanLedger records relocation originals that could not be deleted
type OrphanLedger interface {
	RecordOrphan(ctx context.Context, o db.Orphan) error
	Orphans(ctx context.Context) ([]db.Orphan, error)
	ForgetOrphan(ctx context.Context, originalID string) error
}

// Service holds the remote adapter and the local stores
type Service struct {
	remote    Remote
	favorites favorites.Store
	orphans   OrphanLedger
}

// New creates a service. orphans may be nil, in which case orphaned originals
// are only logged.
func New(remote Remote, favs favorites.Store, orphans OrphanLedger) *Service {
	return &Service{
		remote:    remote,
		favorites: favs,
		orphans:   orphans,
	}
}

type projectInput struct {
	Name string `validate:"required,max=120"`
}

type idInput struct {
	ID string `validate:"required"`
}

func checkID(id string) error {
	return check(idInput{ID: strings.TrimSpace(id)})
}

// ListProjects returns all projects with the favorite marker reconciled
func (s *Service) ListProjects(ctx context.Context) ([]model.Project, error) {
	projects, err := s.remote.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	set, err := s.favoriteSet(ctx)
	if err != nil {
		return nil, err
	}
	return favorites.Tag(projects, set), nil
}

// GetProject fetches a single project with the favorite marker reconciled
func (s *Service) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.remote.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	set, err := s.favoriteSet(ctx)
	if err != nil {
		return nil, err
	}
	p.IsFavorite = favorites.IsFavorite(*p, set)
	return p, nil
}

// MoveTargets returns the projects a task in currentProjectID can be moved to
func (s *Service) MoveTargets(ctx context.Context, currentProjectID string) ([]model.Project, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	targets := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.ID == currentProjectID || (currentProjectID == "" && p.IsInbox()) {
			continue
		}
		targets = append(targets, p)
	}
	return targets, nil
}

// CreateProject creates a project. The inbox name is reserved.
func (s *Service) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if err := check(projectInput{Name: name}); err != nil {
		return nil, err
	}
	if strings.EqualFold(name, model.InboxDestination) {
		return nil, &ValidationError{Field: "name", Reason: "the inbox cannot be created"}
	}
	p, err := s.remote.CreateProject(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// UpdateProject renames or recolors a project
func (s *Service) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := check(projectInput{Name: name}); err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	p, err := s.remote.UpdateProject(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	set, err := s.favoriteSet(ctx)
	if err != nil {
		return nil, err
	}
	p.IsFavorite = favorites.IsFavorite(*p, set)
	return p, nil
}

// DeleteProject deletes a project. The inbox cannot be deleted.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	p, err := s.remote.GetProject(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if p.IsInbox() {
		return &ValidationError{Field: "id", Reason: "the inbox cannot be deleted"}
	}
	if err := s.remote.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListTasks returns the active tasks of a project, or of the inbox when
// projectID is nil
func (s *Service) ListTasks(ctx context.Context, projectID *string) ([]model.Task, error) {
	if projectID != nil && *projectID == model.InboxDestination {
		projectID = nil
	}
	return s.remote.ListTasks(ctx, projectID)
}

// CreateTask creates a task. An empty projectID or "inbox" files it in the inbox.
func (s *Service) CreateTask(ctx context.Context, projectID, content, description string) (*model.Task, error) {
	req := model.CreateTaskRequest{
		Content:     strings.TrimSpace(content),
		Description: description,
		ProjectID:   projectID,
	}
	if req.ProjectID == model.InboxDestination {
		req.ProjectID = ""
	}
	if err := check(req); err != nil {
		return nil, err
	}
	t, err := s.remote.CreateTask(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// UpdateTask applies patch to a task, keeping unspecified fields
func (s *Service) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
		}
		patch.Content = &content
	}
	if patch.Priority != nil && (*patch.Priority < model.PriorityNormal || *patch.Priority > model.PriorityUrgent) {
		return nil, &ValidationError{Field: "priority", Reason: "must be between 1 and 4"}
	}
	t, err := s.remote.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// DeleteTask deletes a task
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.remote.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// CompleteTask closes a task
func (s *Service) CompleteTask(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.remote.CompleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

// ReopenTask reopens a completed task
func (s *Service) ReopenTask(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.remote.ReopenTask(ctx, id); err != nil {
		return fmt.Errorf("failed to reopen task: %w", err)
	}
	return nil
}
