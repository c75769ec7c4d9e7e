package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/rbacconsole/internal/model"
)

const taskColumns = `id, project_id, title, description, status, assignees, created_by,
	started_at, completed_at, created_at, updated_at`

// CreateTask inserts t. Timestamps default to now.
func (db *DB) CreateTask(ctx context.Context, t *model.Task) error {
	now := time.Now().UTC()
	if t.CreatedAt == nil {
		t.CreatedAt = &now
	}
	if t.UpdatedAt == nil {
		t.UpdatedAt = &now
	}

	assignees, err := encodeAssignees(t.Assignees)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Description, string(t.Status), assignees, t.CreatedBy,
		nullTime(t.StartedAt), nullTime(t.CompletedAt), formatTime(*t.CreatedAt), formatTime(*t.UpdatedAt))
	return err
}

// GetTask returns the task with id
func (db *DB) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// ListTasksByProject returns the tasks of a project, newest first
func (db *DB) ListTasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at DESC, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus moves a task. Entering IN_PROGRESS stamps started_at once;
// entering DONE stamps completed_at.
func (db *DB) UpdateTaskStatus(ctx context.Context, id string, status model.Status) (*model.Task, error) {
	now := formatTime(time.Now())

	var query string
	switch status {
	case model.StatusInProgress:
		query = `UPDATE tasks SET status = ?, started_at = COALESCE(started_at, ?), updated_at = ? WHERE id = ?`
	case model.StatusDone:
		query = `UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?`
	default:
		query = `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`
	}

	args := []any{string(status), now, now, id}
	if status != model.StatusInProgress && status != model.StatusDone {
		args = []any{string(status), now, id}
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return db.GetTask(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*model.Task, error) {
	var (
		t                  model.Task
		status             string
		assignees          sql.NullString
		started, completed sql.NullString
		created, updated   string
	)
	err := s.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status, &assignees, &t.CreatedBy,
		&started, &completed, &created, &updated)
	if err != nil {
		return nil, err
	}

	t.Status = model.Status(status)
	t.StartedAt = parseNullTime(started)
	t.CompletedAt = parseNullTime(completed)
	createdAt, updatedAt := parseTime(created), parseTime(updated)
	t.CreatedAt, t.UpdatedAt = &createdAt, &updatedAt

	if assignees.Valid && assignees.String != "" {
		if err := json.Unmarshal([]byte(assignees.String), &t.Assignees); err != nil {
			return nil, fmt.Errorf("task %s has corrupt assignees: %w", t.ID, err)
		}
	}
	return &t, nil
}

// Assignees are kept as a JSON array in one column.
func encodeAssignees(ids []string) (sql.NullString, error) {
	if len(ids) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
