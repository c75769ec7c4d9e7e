package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/existflow/rbacconsole/internal/model"
)

// ListTasksByProject returns the tasks of projectID
func (c *Client) ListTasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	var tasks []model.Task
	path := "/tasks?project_id=" + url.QueryEscape(projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task and returns the backend's copy when sent
func (c *Client) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/create", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTaskStatus moves task id to status
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status model.Status) error {
	return c.do(ctx, http.MethodPost, "/tasks/update", model.UpdateTaskStatusRequest{ID: id, Status: status}, nil)
}
