package api

import (
	"context"
	"net/http"

	"github.com/existflow/rbacconsole/internal/model"
)

// ListProjects returns the projects visible to the caller
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project and returns the backend's copy when sent
func (c *Client) CreateProject(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	if req.AssignedEmployees == nil {
		req.AssignedEmployees = []string{}
	}
	var p model.Project
	if err := c.do(ctx, http.MethodPost, "/projects/create", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
