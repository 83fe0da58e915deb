package todoist

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dori/doist/internal/model"
)

// ListProjects returns all projects in the order the API reports them
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := c.do(ctx, request{
		op:       "list projects",
		method:   http.MethodGet,
		endpoint: "/projects",
		path:     "/projects",
	}, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns a single project by ID
func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := c.do(ctx, request{
		op:       "get project",
		method:   http.MethodGet,
		endpoint: "/projects/{id}",
		path:     "/projects/" + url.PathEscape(id),
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a new project
func (c *Client) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	var p model.Project
	err := c.do(ctx, request{
		op:       "create project",
		method:   http.MethodPost,
		endpoint: "/projects",
		path:     "/projects",
		body:     map[string]string{"name": name},
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject applies patch to a project and returns the updated project
func (c *Client) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	var p model.Project
	err := c.do(ctx, request{
		op:       "update project",
		method:   http.MethodPost,
		endpoint: "/projects/{id}",
		path:     "/projects/" + url.PathEscape(id),
		body:     patch,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject deletes a project (the API deletes its tasks too)
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:       "delete project",
		method:   http.MethodDelete,
		endpoint: "/projects/{id}",
		path:     "/projects/" + url.PathEscape(id),
	}, nil)
}
