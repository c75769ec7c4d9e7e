package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.route.Screen() {
	case ScreenLogin:
		body = m.viewLogin()
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
		}
		return body
	case ScreenDashboard:
		body = m.viewDashboard()
	case ScreenCreateUser:
		body = m.viewCreateUser()
	case ScreenCreateProject:
		body = m.viewCreateProject()
	case ScreenTasks:
		body = m.viewTasks()
	case ScreenProject:
		body = m.viewProject()
	default:
		body = ErrorStyle.Render("Nothing at "+string(m.route)) + "\n" + HelpStyle.Render("esc to go back")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderNavbar(),
		PageStyle.Render(body),
		m.renderStatusBar(),
	)
}

// renderNavbar shows the links the current role may use
func (m Model) renderNavbar() string {
	aff := m.affordances()
	screen := m.route.Screen()

	item := func(label string, b key.Binding, active bool) string {
		text := label + " " + HelpStyle.Render(b.Help().Key)
		if active {
			return NavItemActiveStyle.Render(text)
		}
		return NavItemStyle.Render(text)
	}

	parts := []string{NavTitleStyle.Render("RBAC Console")}
	parts = append(parts, item("Dashboard", keys.Dashboard, screen == ScreenDashboard))
	if aff.CreateUser {
		parts = append(parts, item("Create User", keys.CreateUser, screen == ScreenCreateUser))
	}
	if aff.CreateProject {
		parts = append(parts, item("Create Project", keys.CreateProject, screen == ScreenCreateProject))
	}
	parts = append(parts, item("Tasks", keys.Tasks, screen == ScreenTasks))
	parts = append(parts, item("Logout", keys.Logout, false))
	parts = append(parts, FormatRole(string(m.role)))

	return NavbarStyle.Render(strings.Join(parts, " "))
}

func (m Model) renderStatusBar() string {
	left := string(m.route)
	if m.message != "" {
		left += " · " + m.message
	}
	return StatusBarStyle.Render(left + "   " + HelpStyle.Render("f1 help · esc back · ctrl+c quit"))
}

func (m Model) renderHelp() string {
	groups := [][]key.Binding{
		{keys.Dashboard, keys.CreateUser, keys.CreateProject, keys.Tasks, keys.Logout},
		{keys.Tab, keys.Enter, keys.Space, keys.Back},
		{keys.Up, keys.Down, keys.Left, keys.Right, keys.Move, keys.Refresh},
		{keys.Help, keys.Quit},
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Keyboard Shortcuts") + "\n\n")
	for _, g := range groups {
		for _, k := range g {
			h := k.Help()
			b.WriteString("  " + lipgloss.NewStyle().Width(10).Foreground(Primary).Render(h.Key) + h.Desc + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("On a board, 1-4 move the selected task to TODO, IN PROGRESS, REVIEW or DONE.") + "\n")
	b.WriteString(HelpStyle.Render("Press any key to close"))
	return ModalStyle.Render(b.String())
}
