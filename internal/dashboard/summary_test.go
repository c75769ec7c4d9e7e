package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/existflow/rbacconsole/internal/model"
	"github.com/existflow/rbacconsole/internal/rolegate"
)

type fakeSource struct {
	users      []model.User
	usersErr   error
	projects   []model.Project
	projErr    error
	tasks      map[string][]model.Task
	failing    map[string]bool
	usersCalls atomic.Int32
}

func (f *fakeSource) ListUsers(ctx context.Context) ([]model.User, error) {
	f.usersCalls.Add(1)
	return f.users, f.usersErr
}

func (f *fakeSource) ListProjects(ctx context.Context) ([]model.Project, error) {
	return f.projects, f.projErr
}

func (f *fakeSource) ListTasksByProject(ctx context.Context, id string) ([]model.Task, error) {
	if f.failing[id] {
		return nil, errors.New("forbidden")
	}
	return f.tasks[id], nil
}

func newSource() *fakeSource {
	return &fakeSource{
		users: []model.User{{ID: "u1", Name: "Ada"}, {ID: "u2", Email: "bob@example.com"}},
		projects: []model.Project{
			{ID: "p1", Name: "Alpha", AssignedEmployees: []string{"u1", "u2"}},
			{ID: "p2", Name: "Beta", AssignedEmployees: []string{"u2", "u3"}},
			{ID: "p3", Name: "Gamma"},
		},
		tasks: map[string][]model.Task{
			"p1": {{ID: "t1"}, {ID: "t2"}},
			"p2": {{ID: "t3"}},
			"p3": {{ID: "t4"}, {ID: "t5"}, {ID: "t6"}},
		},
		failing: map[string]bool{},
	}
}

func TestLoadAdmin(t *testing.T) {
	src := newSource()
	s, err := Load(context.Background(), src, rolegate.DisplayRole(model.RoleAdmin))
	if err != nil {
		t.Fatal(err)
	}
	if !s.UsersShown || len(s.Users) != 2 {
		t.Errorf("users shown=%v n=%d", s.UsersShown, len(s.Users))
	}
	if s.TotalTasks != 6 {
		t.Errorf("total tasks = %d, want 6", s.TotalTasks)
	}
	if s.Assignees != 3 {
		t.Errorf("assignees = %d, want 3", s.Assignees)
	}
	if s.TaskCounts["p3"] != 3 {
		t.Errorf("p3 count = %d", s.TaskCounts["p3"])
	}
}

func TestLoadSkipsUsersForNonAdmin(t *testing.T) {
	for _, role := range []rolegate.DisplayRole{
		rolegate.DisplayRole(model.RoleManager),
		rolegate.DisplayRole(model.RoleEditor),
		rolegate.DisplayRole(model.RoleViewer),
		rolegate.None,
	} {
		src := newSource()
		s, err := Load(context.Background(), src, role)
		if err != nil {
			t.Fatalf("%s: %v", role, err)
		}
		if s.UsersShown || src.usersCalls.Load() != 0 {
			t.Errorf("%s: users fetched", role)
		}
		if len(s.Projects) != 3 {
			t.Errorf("%s: projects = %d", role, len(s.Projects))
		}
	}
}

func TestFailingProjectCountsZero(t *testing.T) {
	src := newSource()
	src.failing["p3"] = true

	s, err := Load(context.Background(), src, rolegate.None)
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalTasks != 3 {
		t.Errorf("total = %d, want 3", s.TotalTasks)
	}
	if n, ok := s.TaskCounts["p3"]; !ok || n != 0 {
		t.Errorf("p3 = %d,%v", n, ok)
	}
}

func TestUsersFailureKeepsSummary(t *testing.T) {
	src := newSource()
	src.usersErr = errors.New("forbidden")

	s, err := Load(context.Background(), src, rolegate.DisplayRole(model.RoleAdmin))
	if err != nil {
		t.Fatal(err)
	}
	if s.UsersErr == nil || s.TotalTasks != 6 {
		t.Errorf("usersErr=%v total=%d", s.UsersErr, s.TotalTasks)
	}
}

func TestProjectsFailure(t *testing.T) {
	src := newSource()
	boom := errors.New("down")
	src.projErr = boom

	if _, err := Load(context.Background(), src, rolegate.None); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestResolveAssignees(t *testing.T) {
	src := newSource()
	got := ResolveAssignees(src.projects[1], src.users)
	if len(got) != 2 {
		t.Fatalf("got %d", len(got))
	}
	if !got[0].Known || got[0].Name != "bob@example.com" {
		t.Errorf("u2 = %+v", got[0])
	}
	if got[1].Known || got[1].Name != "u3" {
		t.Errorf("u3 = %+v", got[1])
	}
}
