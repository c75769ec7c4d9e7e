package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/existflow/rbacconsole/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUsers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u := UserRecord{
		User:         model.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: model.RoleEditor, IsActive: true},
		PasswordHash: "hash",
	}
	if err := db.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	u.ID = "u2"
	if err := db.CreateUser(ctx, u); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email error = %v, want ErrDuplicate", err)
	}

	got, err := db.GetActiveUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "u1" || got.PasswordHash != "hash" || got.Role != model.RoleEditor || !got.IsActive {
		t.Errorf("GetActiveUserByEmail() = %+v", got)
	}

	if _, err := db.GetActiveUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user error = %v", err)
	}

	users, err := db.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Email != "ada@example.com" {
		t.Errorf("ListUsers() = %+v", users)
	}
}

func TestSeedUserIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	admin := UserRecord{User: model.User{ID: "a", Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}, PasswordHash: "h"}

	added, err := db.SeedUser(ctx, admin)
	if err != nil || !added {
		t.Fatalf("first SeedUser() = %v, %v", added, err)
	}

	admin.ID = "b"
	added, err = db.SeedUser(ctx, admin)
	if err != nil || added {
		t.Errorf("second SeedUser() = %v, %v", added, err)
	}
}

func TestProjectsWithAssignments(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.CreateProject(ctx, model.Project{ID: "p1", Name: "Apollo", AssignedEmployees: []string{"u1", "u2"}}); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateProject(ctx, model.Project{ID: "p2", Name: "Gemini", Description: "d"}); err != nil {
		t.Fatal(err)
	}

	projects, err := db.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 {
		t.Fatalf("ListProjects() len = %d", len(projects))
	}

	byID := map[string]model.Project{}
	for _, p := range projects {
		byID[p.ID] = p
	}
	if got := byID["p1"].AssignedEmployees; len(got) != 2 || got[0] != "u1" || got[1] != "u2" {
		t.Errorf("p1 assignees = %v", got)
	}
	if got := byID["p2"]; got.Description != "d" || len(got.AssignedEmployees) != 0 {
		t.Errorf("p2 = %+v", got)
	}

	ok, err := db.ProjectExists(ctx, "p2")
	if err != nil || !ok {
		t.Errorf("ProjectExists(p2) = %v, %v", ok, err)
	}
	ok, err = db.ProjectExists(ctx, "nope")
	if err != nil || ok {
		t.Errorf("ProjectExists(nope) = %v, %v", ok, err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.CreateProject(ctx, model.Project{ID: "p1", Name: "Apollo"}); err != nil {
		t.Fatal(err)
	}

	task := &model.Task{ID: "t1", ProjectID: "p1", Title: "Launch", Status: model.StatusTodo, Assignees: []string{"u1"}}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	orphan := &model.Task{ID: "t2", ProjectID: "missing", Title: "x", Status: model.StatusTodo}
	if err := db.CreateTask(ctx, orphan); err == nil {
		t.Error("CreateTask() for a missing project succeeded")
	}

	moved, err := db.UpdateTaskStatus(ctx, "t1", model.StatusInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if moved.Status != model.StatusInProgress || moved.StartedAt == nil || moved.CompletedAt != nil {
		t.Errorf("after IN_PROGRESS = %+v", moved)
	}
	started := *moved.StartedAt

	moved, err = db.UpdateTaskStatus(ctx, "t1", model.StatusDone)
	if err != nil {
		t.Fatal(err)
	}
	if moved.CompletedAt == nil || !moved.StartedAt.Equal(started) {
		t.Errorf("after DONE = %+v", moved)
	}

	if _, err := db.UpdateTaskStatus(ctx, "nope", model.StatusDone); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task error = %v", err)
	}

	tasks, err := db.ListTasksByProject(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Status != model.StatusDone || !tasks[0].HasAssignee("u1") {
		t.Errorf("ListTasksByProject() = %+v", tasks)
	}

	empty, err := db.ListTasksByProject(ctx, "other")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty project = %v, %v", empty, err)
	}
}
