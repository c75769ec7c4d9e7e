package model

import "time"

// Role names as the backend issues them.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleEditor  = "EDITOR"
	RoleViewer  = "VIEWER"
)

// Roles lists every role a user can be created with, in display order.
var Roles = []string{RoleAdmin, RoleManager, RoleEditor, RoleViewer}

// User is an account managed by the backend
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the best human label for the user
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.ID
	}
}

// CreateUserRequest is the body of POST /admin/create-user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserDirectory maps user ids to display names
type UserDirectory map[string]string

// NewUserDirectory indexes users by id
func NewUserDirectory(users []User) UserDirectory {
	dir := make(UserDirectory, len(users))
	for _, u := range users {
		dir[u.ID] = u.DisplayName()
	}
	return dir
}

// Name resolves an id, falling back to the id itself
func (d UserDirectory) Name(id string) string {
	if name, ok := d[id]; ok && name != "" {
		return name
	}
	return id
}
