package api

import (
	"context"
	"net/http"

	"github.com/existflow/rbacconsole/internal/model"
)

// ListUsers returns every user (ADMIN only on the backend)
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var result struct {
		Users []model.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &result); err != nil {
		return nil, err
	}
	return result.Users, nil
}

// CreateUser creates an account; the response body only signals success
func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/create-user", req, nil)
}
