package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/rbacconsole/internal/model"
)

// UserRecord is a user row including its password hash
type UserRecord struct {
	model.User
	PasswordHash string
}

// CreateUser inserts u. An email already in use returns ErrDuplicate.
func (db *DB) CreateUser(ctx context.Context, u UserRecord) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, formatTime(u.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
	}
	return err
}

// SeedUser inserts u unless its email is already taken. It reports whether
// a row was added.
func (db *DB) SeedUser(ctx context.Context, u UserRecord) (bool, error) {
	res, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, name, email, password_hash, role, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, formatTime(time.Now()))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetActiveUserByEmail returns the active user with email
func (db *DB) GetActiveUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, is_active, created_at
		 FROM users WHERE email = ? AND is_active = 1`, email)

	var u UserRecord
	var created string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

// ListUsers returns every user, oldest first
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, role, is_active, created_at FROM users ORDER BY created_at, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		var created string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &created); err != nil {
			return nil, err
		}
		u.CreatedAt = parseTime(created)
		users = append(users, u)
	}
	return users, rows.Err()
}
