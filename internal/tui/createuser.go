package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
)

const (
	userName = iota
	userEmail
	userPassword
	userConfirm
	userRole
	userSubmit
	userSlots
)

type createUserScreen struct {
	form    form
	role    int
	focus   int
	busy    bool
	err     string
	success string
}

func newCreateUserScreen() createUserScreen {
	s := createUserScreen{
		form: newForm(
			newField("Name", "Jane Doe", 128),
			newField("Email", "jane@example.com", 254),
			newPasswordField("Password"),
			newPasswordField("Confirm password"),
		),
	}
	s.role = roleIndex(forms.NewCreateUser().Role)
	s.form.focusOn(userName)
	return s
}

func roleIndex(role string) int {
	for i, r := range model.Roles {
		if r == role {
			return i
		}
	}
	return 0
}

func (m Model) updateCreateUser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.createUser
	if s.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		return m, m.back()

	case key.Matches(msg, keys.Tab), msg.String() == "down" || msg.String() == "up":
		s.focus = cycle(s.focus, userSlots, msg.String() == "shift+tab" || msg.String() == "up")
		s.form.focusOn(s.focus)
		return m, nil

	case s.focus == userRole && (key.Matches(msg, keys.Left) || key.Matches(msg, keys.Right)):
		s.role = cycle(s.role, len(model.Roles), key.Matches(msg, keys.Left))
		return m, nil

	case key.Matches(msg, keys.Enter):
		if s.focus < userSubmit {
			s.focus++
			s.form.focusOn(s.focus)
			return m, nil
		}
		return m.submitCreateUser()
	}

	return m, s.form.update(s.focus, msg)
}

func (m Model) submitCreateUser() (tea.Model, tea.Cmd) {
	s := &m.createUser
	s.err, s.success = "", ""

	f := forms.CreateUser{
		Name:     s.form.value(userName),
		Email:    s.form.value(userEmail),
		Password: s.form.value(userPassword),
		Confirm:  s.form.value(userConfirm),
		Role:     model.Roles[s.role],
	}
	req, err := f.Request()
	if err != nil {
		s.err = err.Error()
		return m, nil
	}

	s.busy = true
	logger.Info("Creating user", logger.F("email", req.Email), logger.F("role", req.Role))
	return m, m.createUserCmd(req)
}

func (m Model) handleUserCreated(msg userCreatedMsg) (tea.Model, tea.Cmd) {
	s := &m.createUser
	s.busy = false
	if msg.err != nil {
		logger.Warn("Create user failed", logger.F("error", msg.err))
		s.err = api.Message(msg.err)
		return m, nil
	}

	s.success = "User created successfully!"
	for _, i := range []int{userName, userEmail, userPassword, userConfirm} {
		s.form.set(i, "")
	}
	s.role = roleIndex(model.RoleViewer)
	return m, m.redirectCmd(PathDashboard)
}

func (m Model) viewCreateUser() string {
	s := m.createUser
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Create User") + "\n")
	b.WriteString(SubtitleStyle.Render("Add a new account and choose its role") + "\n\n")
	b.WriteString(s.form.view(s.focus))

	label := LabelStyle
	if s.focus == userRole {
		label = FocusedLabelStyle
	}
	b.WriteString(label.Render("Role") + HelpStyle.Render("  ←/→ to change") + "\n")
	var roles []string
	for i, r := range model.Roles {
		if i == s.role {
			roles = append(roles, "["+FormatRole(r)+"]")
		} else {
			roles = append(roles, " "+HelpStyle.Render(r)+" ")
		}
	}
	b.WriteString(strings.Join(roles, " ") + "\n\n")

	b.WriteString(button("Create User", s.focus == userSubmit, s.busy, "Creating...") + "\n\n")
	b.WriteString(banner(s.err, s.success))
	return b.String()
}
