package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/dashboard"
	"github.com/existflow/rbacconsole/internal/kanban"
	"github.com/existflow/rbacconsole/internal/model"
)

var errProjectNotFound = errors.New("project not found or not accessible")

// Every command captures the generation at creation time so its result can
// be matched to the mount that asked for it.

func (m Model) loginCmd(email, password string) tea.Cmd {
	gen, ctx, b := m.gen, m.ctx, m.backend
	return func() tea.Msg {
		_, err := b.Login(ctx, email, password)
		return loginMsg{mounted{gen}, err}
	}
}

func (m Model) loadSummaryCmd() tea.Cmd {
	gen, ctx, b, role := m.gen, m.ctx, m.backend, m.role
	return func() tea.Msg {
		s, err := dashboard.Load(ctx, b, role)
		return summaryMsg{mounted{gen}, s, err}
	}
}

func (m Model) loadUsersCmd() tea.Cmd {
	gen, ctx, b := m.gen, m.ctx, m.backend
	return func() tea.Msg {
		users, err := b.ListUsers(ctx)
		return usersMsg{mounted{gen}, users, err}
	}
}

func (m Model) findProjectCmd(id string) tea.Cmd {
	gen, ctx, b := m.gen, m.ctx, m.backend
	return func() tea.Msg {
		projects, err := b.ListProjects(ctx)
		if err != nil {
			return projectMsg{mounted{gen}, nil, err}
		}
		p, ok := model.FindProject(projects, id)
		if !ok {
			return projectMsg{mounted{gen}, nil, errProjectNotFound}
		}
		return projectMsg{mounted{gen}, &p, nil}
	}
}

func (m Model) loadBoardCmd(projectID string) tea.Cmd {
	gen, ctx, b := m.gen, m.ctx, m.backend
	return func() tea.Msg {
		tasks, err := b.ListTasksByProject(ctx, projectID)
		return boardMsg{mounted{gen}, projectID, tasks, err}
	}
}

func (m Model) moveTaskCmd(tr kanban.Transition) tea.Cmd {
	gen, ctx, b := m.gen, m.ctx, m.backend
	return func() tea.Msg {
		return taskMovedMsg{mounted{gen}, tr, kanban.Send(ctx, b, tr)}
	}
}

func (m Model) createUserCmd(req model.CreateUserRequest) tea.Cmd {
	gen, ctx, b := m.gen, m.ctx, m.backend
	return func() tea.Msg {
		return userCreatedMsg{mounted{gen}, b.CreateUser(ctx, req)}
	}
}

func (m Model) createProjectCmd(req model.CreateProjectRequest) tea.Cmd {
	gen, ctx, b := m.gen, m.ctx, m.backend
	return func() tea.Msg {
		p, err := b.CreateProject(ctx, req)
		return projectCreatedMsg{mounted{gen}, p, err}
	}
}

func (m Model) createTaskCmd(req model.CreateTaskRequest) tea.Cmd {
	gen, ctx, b := m.gen, m.ctx, m.backend
	return func() tea.Msg {
		t, err := b.CreateTask(ctx, req)
		return taskCreatedMsg{mounted{gen}, t, err}
	}
}

// redirectCmd navigates to to after the success banner has been shown
func (m Model) redirectCmd(to Route) tea.Cmd {
	gen := m.gen
	return tea.Tick(m.successDelay, func(time.Time) tea.Msg {
		return redirectMsg{mounted{gen}, to}
	})
}
