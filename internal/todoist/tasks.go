package todoist

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dori/doist/internal/model"
)

// ListTasks returns the active tasks of one project. A nil projectID means the
// inbox: the project the API flags as inbox (or names "Inbox"), falling back to
// tasks with no project when no such project is reported. Resolving the inbox
// costs an extra request for the project list.
func (c *Client) ListTasks(ctx context.Context, projectID *string) ([]model.Task, error) {
	all, err := c.listAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	if projectID != nil {
		return filterTasks(all, *projectID), nil
	}

	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve inbox: %w", err)
	}
	if inbox := model.FindInbox(projects); inbox != nil {
		return filterTasks(all, inbox.ID), nil
	}
	return filterTasks(all, ""), nil
}

func (c *Client) listAllTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.do(ctx, request{
		op:       "list tasks",
		method:   http.MethodGet,
		endpoint: "/tasks",
		path:     "/tasks",
	}, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// filterTasks keeps tasks whose project matches projectID ("" matches tasks
// with no project association)
func filterTasks(tasks []model.Task, projectID string) []model.Task {
	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID == projectID {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// GetTask returns a single active task by ID
func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	err := c.do(ctx, request{
		op:       "get task",
		method:   http.MethodGet,
		endpoint: "/tasks/{id}",
		path:     "/tasks/" + url.PathEscape(id),
	}, &t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask creates a new task. An empty ProjectID leaves the project out of
// the request so the API files the task in the inbox.
func (c *Client) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	var t model.Task
	err := c.do(ctx, request{
		op:       "create task",
		method:   http.MethodPost,
		endpoint: "/tasks",
		path:     "/tasks",
		body:     req,
	}, &t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// clearDue is the due_string the API takes as "remove the due date"
const clearDue = "no date"

// updateTaskBody is the full body sent on update
type updateTaskBody struct {
	Content     string         `json:"content"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority,omitempty"`
	Labels      []string       `json:"labels"`
	DueString   *string        `json:"due_string,omitempty"`
	ProjectID   *string        `json:"project_id,omitempty"`
}

// mergeTaskPatch lays patch over the current task so fields the caller did not
// specify keep their current values
func mergeTaskPatch(current *model.Task, patch model.TaskPatch) updateTaskBody {
	body := updateTaskBody{
		Content:     current.Content,
		Description: current.Description,
		Priority:    current.Priority,
		Labels:      current.Labels,
	}
	if due := current.DueString(); due != "" {
		body.DueString = &due
	}
	if patch.Content != nil && *patch.Content != "" {
		body.Content = *patch.Content
	}
	if patch.Description != nil {
		body.Description = *patch.Description
	}
	if patch.Priority != nil {
		body.Priority = *patch.Priority
	}
	if patch.Labels != nil {
		body.Labels = *patch.Labels
	}
	if patch.DueString != nil {
		due := *patch.DueString
		if due == "" {
			due = clearDue
		}
		body.DueString = &due
	}
	if patch.ProjectID != nil {
		pid := *patch.ProjectID
		if pid == model.InboxDestination {
			pid = ""
		}
		body.ProjectID = &pid
	}
	if body.Labels == nil {
		body.Labels = []string{}
	}
	return body
}

// UpdateTask applies patch to a task. The current task is fetched first and
// the patch merged over it, so unspecified fields are preserved.
func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	current, err := c.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load task before update: %w", err)
	}

	body := mergeTaskPatch(current, patch)

	var t model.Task
	err = c.do(ctx, request{
		op:       "update task",
		method:   http.MethodPost,
		endpoint: "/tasks/{id}",
		path:     "/tasks/" + url.PathEscape(id),
		body:     body,
	}, &t)
	if err != nil {
		return nil, err
	}

	// The API echoes the old project; report the one we asked for
	if body.ProjectID != nil {
		t.ProjectID = *body.ProjectID
	}
	return &t, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:       "delete task",
		method:   http.MethodDelete,
		endpoint: "/tasks/{id}",
		path:     "/tasks/" + url.PathEscape(id),
	}, nil)
}

// CompleteTask closes a task
func (c *Client) CompleteTask(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:       "complete task",
		method:   http.MethodPost,
		endpoint: "/tasks/{id}/close",
		path:     "/tasks/" + url.PathEscape(id) + "/close",
	}, nil)
}

// ReopenTask reopens a completed task
func (c *Client) ReopenTask(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:       "reopen task",
		method:   http.MethodPost,
		endpoint: "/tasks/{id}/reopen",
		path:     "/tasks/" + url.PathEscape(id) + "/reopen",
	}, nil)
}
