package model

import (
	"strings"
	"time"
)

// Status is a task's position on the board
type Status string

// Board statuses, in column order
const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusDone       Status = "DONE"
)

// Statuses is the fixed column order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Valid reports whether s is one of the four board statuses
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns the column heading, e.g. "IN PROGRESS"
func (s Status) Label() string {
	return strings.Replace(string(s), "_", " ", 1)
}

// Short returns the button label, e.g. "IN"
func (s Status) Short() string {
	return strings.SplitN(string(s), "_", 2)[0]
}

// ParseStatus accepts any case and spaces or dashes for underscores
func ParseStatus(raw string) (Status, bool) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	s := Status(norm)
	return s, s.Valid()
}

// Task is a unit of work inside a project
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Assignees   []string   `json:"assignees,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// HasAssignee reports whether id is assigned to the task
func (t Task) HasAssignee(id string) bool {
	for _, a := range t.Assignees {
		if a == id {
			return true
		}
	}
	return false
}

// CreateTaskRequest is the body of POST /tasks/create
type CreateTaskRequest struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Assignees   []string `json:"assignees,omitempty"`
}

// UpdateTaskStatusRequest is the body of POST /tasks/update
type UpdateTaskStatusRequest struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}
