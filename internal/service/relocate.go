package service

import (
	"context"
	"strings"

	"github.com/dori/doist/internal/db"
	"github.com/dori/doist/internal/logger"
	"github.com/dori/doist/internal/model"
)

// State is where a relocation ended up
type State int

const (
	StatePending State = iota
	StateFetched
	StateCreated
	StateCompleted
	StateFailedAtFetch
	StateFailedAtCreate
	StateCompletedWithOrphan
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFetched:
		return "fetched"
	case StateCreated:
		return "created"
	case StateCompleted:
		return "completed"
	case StateFailedAtFetch:
		return "failed-at-fetch"
	case StateFailedAtCreate:
		return "failed-at-create"
	case StateCompletedWithOrphan:
		return "completed-with-orphan"
	default:
		return "unknown"
	}
}

// Relocation is the outcome of moving a task to another project.
// Task is the new entity; the original ID no longer resolves once the
// relocation completes, so callers must switch to Task.ID.
type Relocation struct {
	OriginalID  string
	Destination string
	Original    *model.Task
	Task        *model.Task
	State       State

	// Warning is set when the new task exists but the original could not be removed
	Warning *RelocationError
}

// Succeeded reports whether the task now exists in the destination
func (r *Relocation) Succeeded() bool {
	return r.State == StateCompleted || r.State == StateCompletedWithOrphan
}

// Orphaned reports whether the original was left behind
func (r *Relocation) Orphaned() bool {
	return r.State == StateCompletedWithOrphan
}

type relocateInput struct {
	ID          string `validate:"required"`
	Destination string `validate:"required"`
}

// RelocateTask moves a task to destination ("inbox" for no project) by
// fetching it, creating a copy in the destination and deleting the original.
//
// A fetch or create failure returns a *RelocationError and leaves the
// original untouched. A delete failure still succeeds: the returned
// Relocation has State StateCompletedWithOrphan and a Warning.
// The returned Relocation is never nil.
func (s *Service) RelocateTask(ctx context.Context, taskID, destination string) (*Relocation, error) {
	taskID = strings.TrimSpace(taskID)
	destination = strings.TrimSpace(destination)
	rel := &Relocation{OriginalID: taskID, Destination: destination, State: StatePending}

	if err := check(relocateInput{ID: taskID, Destination: destination}); err != nil {
		return rel, err
	}

	original, err := s.remote.GetTask(ctx, taskID)
	if err != nil {
		rel.State = StateFailedAtFetch
		return rel, &RelocationError{Step: StepFetch, TaskID: taskID, Err: err}
	}
	rel.Original = original
	rel.State = StateFetched

	created, err := s.remote.CreateTask(ctx, copyRequest(original, destination))
	if err != nil {
		rel.State = StateFailedAtCreate
		return rel, &RelocationError{Step: StepCreate, TaskID: taskID, Err: err}
	}
	rel.Task = created
	rel.State = StateCreated

	// Past this point a duplicate exists; finish the delete even if the caller gave up
	delCtx := context.WithoutCancel(ctx)
	if err := s.remote.DeleteTask(delCtx, taskID); err != nil {
		rel.State = StateCompletedWithOrphan
		rel.Warning = &RelocationError{Step: StepDeleteOriginal, TaskID: taskID, Err: err}
		logger.Warn(ctx, "original task could not be deleted", "task_id", taskID, "replacement_id", created.ID, "err", err)
		s.recordOrphan(delCtx, taskID, created.ID, err)
		return rel, nil
	}

	rel.State = StateCompleted
	logger.Info(ctx, "task relocated", "task_id", taskID, "replacement_id", created.ID, "destination", destination)
	return rel, nil
}

// copyRequest builds the create request for the relocated copy
func copyRequest(t *model.Task, destination string) model.CreateTaskRequest {
	projectID := destination
	if projectID == model.InboxDestination {
		projectID = ""
	}
	labels := make([]string, len(t.Labels))
	copy(labels, t.Labels)
	return model.CreateTaskRequest{
		Content:     t.Content,
		Description: t.Description,
		ProjectID:   projectID,
		Priority:    t.Priority,
		DueString:   t.DueString(),
		Labels:      labels,
	}
}

func (s *Service) recordOrphan(ctx context.Context, originalID, replacementID string, cause error) {
	if s.orphans == nil {
		return
	}
	err := s.orphans.RecordOrphan(ctx, db.Orphan{
		OriginalID:    originalID,
		ReplacementID: replacementID,
		Reason:        cause.Error(),
	})
	if err != nil {
		logger.Error(ctx, err, "failed to record orphaned task", "task_id", originalID)
	}
}
