package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
)

const (
	detailTitle = iota
	detailDescription
	detailAssignees
	detailSubmit
	detailBoard
	detailSlots
)

// selection is an ordered set of user ids
type selection []string

func (s selection) has(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

func (s selection) toggle(id string) selection {
	for i, v := range s {
		if v == id {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return append(s, id)
}

type projectScreen struct {
	id        string
	project   *model.Project
	loading   bool
	loadErr   string
	canCreate bool
	users     []model.User

	form      form
	assignees selection
	cursor    int
	focus     int
	busy      bool
	err       string

	board boardView
}

func newProjectScreen(id string, canCreate bool) projectScreen {
	s := projectScreen{
		id:        id,
		loading:   true,
		canCreate: canCreate,
		form: newForm(
			newField("Title", "Title", 256),
			newField("Description", "Description", 1024),
		),
	}
	if canCreate {
		s.form.focusOn(detailTitle)
	} else {
		s.focus = detailBoard
	}
	return s
}

func (m Model) handleProject(msg projectMsg) (tea.Model, tea.Cmd) {
	s := &m.project
	s.loading = false
	if msg.err != nil {
		logger.Warn("Project lookup failed", logger.F("project", s.id), logger.F("error", msg.err))
		s.loadErr = api.Message(msg.err)
		return m, nil
	}

	s.project = msg.project
	s.board.reset(msg.project.ID)
	return m, tea.Batch(m.loadUsersCmd(), m.loadBoardCmd(msg.project.ID))
}

// handleProjectUsers fills the assignee choices. Without a users listing
// the project's own member ids stand in for names.
func (m Model) handleProjectUsers(msg usersMsg) (tea.Model, tea.Cmd) {
	s := &m.project
	users := msg.users
	if msg.err != nil || len(users) == 0 {
		if msg.err != nil {
			logger.Warn("Listing users for project failed", logger.F("error", msg.err))
		}
		users = nil
		if s.project != nil {
			for _, id := range s.project.AssignedEmployees {
				users = append(users, model.User{ID: id, Name: id})
			}
		}
	}
	s.users = users
	s.board.dir = model.NewUserDirectory(users)
	return m, nil
}

func (m Model) updateProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.project
	if s.project == nil {
		if key.Matches(msg, keys.Back) {
			return m, m.back()
		}
		return m, nil
	}

	if s.focus == detailBoard && !key.Matches(msg, keys.Tab) {
		if key.Matches(msg, keys.Back) && !s.board.picking {
			return m, m.back()
		}
		return m, m.updateBoard(&s.board, msg)
	}

	switch {
	case key.Matches(msg, keys.Back):
		return m, m.back()

	case key.Matches(msg, keys.Tab):
		if !s.canCreate {
			return m, nil
		}
		s.focus = cycle(s.focus, detailSlots, msg.String() == "shift+tab")
		s.form.focusOn(s.focus)
		return m, nil

	case s.focus == detailAssignees:
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor = clamp(s.cursor-1, len(s.users))
		case key.Matches(msg, keys.Down):
			s.cursor = clamp(s.cursor+1, len(s.users))
		case key.Matches(msg, keys.Space), key.Matches(msg, keys.Enter):
			if len(s.users) > 0 {
				s.assignees = s.assignees.toggle(s.users[clamp(s.cursor, len(s.users))].ID)
			}
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		if s.focus == detailSubmit {
			return m.submitProjectTask()
		}
		s.focus++
		s.form.focusOn(s.focus)
		return m, nil
	}

	if s.busy {
		return m, nil
	}
	return m, s.form.update(s.focus, msg)
}

func (m Model) submitProjectTask() (tea.Model, tea.Cmd) {
	s := &m.project
	if s.busy || s.project == nil {
		return m, nil
	}
	s.err = ""

	req, err := forms.CreateTask{
		ProjectID:   s.project.ID,
		Title:       s.form.value(detailTitle),
		Description: s.form.value(detailDescription),
		Assignees:   append([]string(nil), s.assignees...),
	}.Request()
	if err != nil {
		s.err = err.Error()
		return m, nil
	}

	s.busy = true
	logger.Info("Creating task", logger.F("project", req.ProjectID), logger.F("assignees", len(req.Assignees)))
	return m, m.createTaskCmd(req)
}

func (m Model) viewProject() string {
	s := m.project
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Project Details") + "\n")
	b.WriteString(SubtitleStyle.Render("View tasks and information for this project") + "\n\n")

	switch {
	case s.loading:
		b.WriteString(HelpStyle.Render("Loading...") + "\n")
		return b.String()
	case s.loadErr != "":
		b.WriteString(banner(s.loadErr, ""))
		b.WriteString(HelpStyle.Render("esc to go back") + "\n")
		return b.String()
	case s.project == nil:
		return b.String()
	}

	p := s.project
	b.WriteString(TitleStyle.Render(p.Name) + "\n")
	desc := p.Description
	if desc == "" {
		desc = "No description"
	}
	b.WriteString(SubtitleStyle.Render(desc) + "\n")
	b.WriteString(HelpStyle.Render(fmt.Sprintf("%d assignees · Created by %s", len(p.AssignedEmployees), p.Creator())) + "\n\n")

	if s.canCreate {
		b.WriteString(TitleStyle.Render("Create Task") + "\n")
		b.WriteString(s.form.view(s.focus))

		label := LabelStyle
		if s.focus == detailAssignees {
			label = FocusedLabelStyle
		}
		b.WriteString(label.Render(fmt.Sprintf("Assignees (%d selected)", len(s.assignees))) + "\n")
		if len(s.users) == 0 {
			b.WriteString(HelpStyle.Render("  No users available") + "\n")
		}
		b.WriteString(checklist(s.users, s.assignees.has, s.cursor, s.focus == detailAssignees))
		b.WriteString("\n" + button("Create", s.focus == detailSubmit, s.busy, "Creating...") + "\n\n")
		b.WriteString(banner(s.err, ""))
	}

	b.WriteString(s.board.view(s.focus == detailBoard, m.width))
	return b.String()
}
