package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/logger"
)

const (
	loginEmail = iota
	loginPassword
	loginSubmit
	loginSlots
)

type loginScreen struct {
	form  form
	focus int
	busy  bool
	err   string
}

func newLoginScreen() loginScreen {
	s := loginScreen{
		form: newForm(
			newField("Email", "admin@example.com", 254),
			newPasswordField("Password"),
		),
	}
	s.form.focusOn(loginEmail)
	return s
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.login
	if s.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Tab), msg.String() == "down" || msg.String() == "up":
		s.focus = cycle(s.focus, loginSlots, msg.String() == "shift+tab" || msg.String() == "up")
		s.form.focusOn(s.focus)
		return m, nil

	case key.Matches(msg, keys.Enter):
		if s.focus == loginEmail {
			s.focus = loginPassword
			s.form.focusOn(s.focus)
			return m, nil
		}
		return m.submitLogin()
	}

	return m, s.form.update(s.focus, msg)
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	s := &m.login
	f := forms.Login{Email: s.form.value(loginEmail), Password: s.form.value(loginPassword)}
	if err := f.Validate(); err != nil {
		s.err = err.Error()
		return m, nil
	}

	s.err = ""
	s.busy = true
	logger.Info("Logging in", logger.F("email", f.Email))
	return m, m.loginCmd(f.Email, f.Password)
}

func (m Model) handleLoginResult(msg loginMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if msg.err != nil {
		logger.Warn("Login failed", logger.F("error", msg.err))
		m.login.err = api.Message(msg.err)
		m.login.form.set(loginPassword, "")
		return m, nil
	}
	logger.Info("Logged in")
	return m, m.navigate(PathDashboard, true)
}

func (m Model) viewLogin() string {
	s := m.login
	var b strings.Builder
	b.WriteString(TitleStyle.Render("RBAC Console") + "\n")
	b.WriteString(SubtitleStyle.Render("Sign in to manage users, projects and tasks") + "\n\n")
	b.WriteString(s.form.view(s.focus))
	b.WriteString(button("Sign in", s.focus == loginSubmit, s.busy, "Signing in...") + "\n\n")
	b.WriteString(banner(s.err, ""))
	return ModalStyle.Render(b.String())
}
