// Package dashboard gathers the figures shown on the console's landing
// screen.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
	"github.com/existflow/rbacconsole/internal/rolegate"
)

// maxConcurrentCounts bounds the per-project task fetches in flight
const maxConcurrentCounts = 8

// Source is the subset of the API client the dashboard reads from
type Source interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]model.Task, error)
}

// Summary is everything the dashboard renders
type Summary struct {
	Users      []model.User
	UsersShown bool
	Projects   []model.Project
	TaskCounts map[string]int
	TotalTasks int
	Assignees  int

	// UsersErr is set when the users panel could not be loaded. The rest
	// of the summary is still valid.
	UsersErr error
}

// Load fetches the projects, counts their tasks and, for ADMIN, lists users.
// Only a failure to list projects fails the whole summary.
func Load(ctx context.Context, src Source, role rolegate.DisplayRole) (*Summary, error) {
	s := &Summary{TaskCounts: make(map[string]int)}

	if rolegate.For(role).ViewUsers {
		s.UsersShown = true
		users, err := src.ListUsers(ctx)
		if err != nil {
			s.UsersErr = err
			logger.Warn("dashboard users failed", logger.F("error", err))
		} else {
			s.Users = users
		}
	}

	projects, err := src.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	s.Projects = projects
	s.Assignees = model.UniqueAssignees(projects)
	s.TaskCounts = CountTasks(ctx, src, projects)
	for _, n := range s.TaskCounts {
		s.TotalTasks += n
	}
	return s, nil
}

// CountTasks lists every project's tasks concurrently. A project whose
// listing fails counts as zero.
func CountTasks(ctx context.Context, src Source, projects []model.Project) map[string]int {
	counts := make(map[string]int, len(projects))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCounts)
	for _, p := range projects {
		p := p
		g.Go(func() error {
			n := 0
			tasks, err := src.ListTasksByProject(gctx, p.ID)
			if err != nil {
				logger.Warn("count tasks failed", logger.F("project", p.ID), logger.F("error", err))
			} else {
				n = len(tasks)
			}
			mu.Lock()
			counts[p.ID] = n
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return counts
}

// Assignee is a project member resolved against the user list
type Assignee struct {
	ID    string
	Name  string
	Email string
	Known bool
}

// ResolveAssignees maps a project's member ids to users where known
func ResolveAssignees(p model.Project, users []model.User) []Assignee {
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]Assignee, 0, len(p.AssignedEmployees))
	for _, id := range p.AssignedEmployees {
		if u, ok := byID[id]; ok {
			out = append(out, Assignee{ID: id, Name: u.DisplayName(), Email: u.Email, Known: true})
			continue
		}
		out = append(out, Assignee{ID: id, Name: id})
	}
	return out
}
