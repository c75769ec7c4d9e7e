package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/rbacconsole/internal/model"
)

// CreateProject inserts p and its employee assignments in one transaction
func (db *DB) CreateProject(ctx context.Context, p model.Project) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, created_by, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.CreatedBy, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	for _, uid := range p.AssignedEmployees {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO project_assignments (project_id, user_id) VALUES (?, ?)`, p.ID, uid)
		if err != nil {
			return fmt.Errorf("failed to assign %s: %w", uid, err)
		}
	}

	return tx.Commit()
}

// ProjectExists reports whether a project with id exists
func (db *DB) ProjectExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ListProjects returns every project with its assigned employees
func (db *DB) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, created_by FROM projects ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}

	projects := []model.Project{}
	index := make(map[string]int)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedBy); err != nil {
			rows.Close()
			return nil, err
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// Assignments are read after the projects cursor is closed; the pool
	// holds a single connection.
	rows, err = db.QueryContext(ctx,
		`SELECT project_id, user_id FROM project_assignments ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pid, uid string
		if err := rows.Scan(&pid, &uid); err != nil {
			return nil, err
		}
		if i, ok := index[pid]; ok {
			projects[i].AssignedEmployees = append(projects[i].AssignedEmployees, uid)
		}
	}
	return projects, rows.Err()
}
