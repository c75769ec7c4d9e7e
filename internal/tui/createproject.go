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
	projName = iota
	projDescription
	projEmployees
	projSubmit
	projSlots
)

type createProjectScreen struct {
	form      form
	employees forms.CreateProject
	users     []model.User
	usersErr  string
	loading   bool
	cursor    int
	focus     int
	busy      bool
	err       string
	success   string
}

func newCreateProjectScreen() createProjectScreen {
	s := createProjectScreen{
		form: newForm(
			newField("Name", "Apollo", 128),
			newField("Description", "What is this project about?", 512),
		),
		loading: true,
	}
	s.form.focusOn(projName)
	return s
}

func (m Model) updateCreateProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.createProject
	if s.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		return m, m.back()

	case key.Matches(msg, keys.Tab):
		s.focus = cycle(s.focus, projSlots, msg.String() == "shift+tab")
		s.form.focusOn(s.focus)
		return m, nil

	case s.focus == projEmployees:
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor = clamp(s.cursor-1, len(s.users))
		case key.Matches(msg, keys.Down):
			s.cursor = clamp(s.cursor+1, len(s.users))
		case key.Matches(msg, keys.Space), key.Matches(msg, keys.Enter):
			if len(s.users) > 0 {
				s.employees.Toggle(s.users[clamp(s.cursor, len(s.users))].ID)
			}
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		if s.focus < projSubmit {
			s.focus++
			s.form.focusOn(s.focus)
			return m, nil
		}
		return m.submitCreateProject()
	}

	return m, s.form.update(s.focus, msg)
}

func (m Model) submitCreateProject() (tea.Model, tea.Cmd) {
	s := &m.createProject
	s.err, s.success = "", ""

	f := s.employees
	f.Name = s.form.value(projName)
	f.Description = s.form.value(projDescription)
	req, err := f.Request()
	if err != nil {
		s.err = err.Error()
		return m, nil
	}

	s.busy = true
	logger.Info("Creating project", logger.F("name", req.Name), logger.F("assigned", len(req.AssignedEmployees)))
	return m, m.createProjectCmd(req)
}

func (m Model) handleProjectCreated(msg projectCreatedMsg) (tea.Model, tea.Cmd) {
	s := &m.createProject
	s.busy = false
	if msg.err != nil {
		logger.Warn("Create project failed", logger.F("error", msg.err))
		s.err = api.Message(msg.err)
		return m, nil
	}

	s.success = "Project created"
	s.form.set(projName, "")
	s.form.set(projDescription, "")
	s.employees = forms.CreateProject{}
	return m, m.redirectCmd(PathDashboard)
}

func (m Model) handleCreateProjectUsers(msg usersMsg) (tea.Model, tea.Cmd) {
	s := &m.createProject
	s.loading = false
	if msg.err != nil {
		logger.Warn("Listing users for project form failed", logger.F("error", msg.err))
		s.usersErr = api.Message(msg.err)
		return m, nil
	}
	s.users = msg.users
	return m, nil
}

func (m Model) viewCreateProject() string {
	s := m.createProject
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Create Project") + "\n")
	b.WriteString(SubtitleStyle.Render("Name the project and assign employees") + "\n\n")
	b.WriteString(s.form.view(s.focus))

	label := LabelStyle
	if s.focus == projEmployees {
		label = FocusedLabelStyle
	}
	b.WriteString(label.Render(fmt.Sprintf("Assign employees (%d selected)", len(s.employees.Employees))) +
		HelpStyle.Render("  space to toggle") + "\n")
	switch {
	case s.loading:
		b.WriteString(HelpStyle.Render("  Loading users...") + "\n")
	case s.usersErr != "":
		b.WriteString(ErrorStyle.Render("  "+s.usersErr) + "\n")
	case len(s.users) == 0:
		b.WriteString(HelpStyle.Render("  No users available") + "\n")
	}
	b.WriteString(checklist(s.users, s.employees.Has, s.cursor, s.focus == projEmployees))
	b.WriteString("\n")

	b.WriteString(button("Create Project", s.focus == projSubmit, s.busy, "Creating...") + "\n\n")
	b.WriteString(banner(s.err, s.success))
	return b.String()
}

// checklist renders users with a checkbox each
func checklist(users []model.User, checked func(string) bool, cursor int, focused bool) string {
	var b strings.Builder
	for i, u := range users {
		box := "[ ]"
		if checked(u.ID) {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, u.DisplayName())
		if u.Email != "" && u.Email != u.DisplayName() {
			line += HelpStyle.Render(" " + u.Email)
		}
		style := ItemStyle
		if focused && i == cursor {
			style = ItemSelectedStyle
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
