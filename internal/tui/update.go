package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/logger"
)

// Init runs the commands of the first mount
func (m Model) Init() tea.Cmd {
	return m.startup
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results of an earlier mount are abandoned
	if g, ok := msg.(generational); ok && g.generation() != m.gen {
		logger.Debug("Dropping stale result",
			logger.F("type", fmt.Sprintf("%T", msg)),
			logger.F("gen", g.generation()),
			logger.F("current", m.gen))
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginMsg:
		return m.handleLoginResult(msg)

	case summaryMsg:
		return m.handleSummary(msg)

	case usersMsg:
		switch m.route.Screen() {
		case ScreenCreateProject:
			return m.handleCreateProjectUsers(msg)
		case ScreenProject:
			return m.handleProjectUsers(msg)
		}

	case projectMsg:
		return m.handleProject(msg)

	case boardMsg:
		if b := m.activeBoard(); b != nil {
			b.loaded(msg)
		}

	case taskMovedMsg:
		if b := m.activeBoard(); b != nil {
			b.settle(msg)
		}

	case userCreatedMsg:
		return m.handleUserCreated(msg)

	case projectCreatedMsg:
		return m.handleProjectCreated(msg)

	case taskCreatedMsg:
		return m.handleTaskCreated(msg)

	case redirectMsg:
		return m, m.navigate(msg.to, false)
	}

	return m, nil
}

// handleKey applies the global keys, then hands the key to the screen
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, keys.Help) {
		m.showHelp = true
		return m, nil
	}

	// Navbar
	if m.route.Gated() {
		aff := m.affordances()
		switch {
		case key.Matches(msg, keys.Dashboard):
			return m, m.navigate(PathDashboard, false)
		case key.Matches(msg, keys.CreateUser) && aff.CreateUser:
			return m, m.navigate(PathCreateUser, false)
		case key.Matches(msg, keys.CreateProject) && aff.CreateProject:
			return m, m.navigate(PathCreateProject, false)
		case key.Matches(msg, keys.Tasks):
			return m, m.navigate(PathTasks, false)
		case key.Matches(msg, keys.Logout):
			return m, m.logout()
		}
	}

	switch m.route.Screen() {
	case ScreenLogin:
		return m.updateLogin(msg)
	case ScreenDashboard:
		return m.updateDashboard(msg)
	case ScreenCreateUser:
		return m.updateCreateUser(msg)
	case ScreenCreateProject:
		return m.updateCreateProject(msg)
	case ScreenTasks:
		return m.updateTasks(msg)
	case ScreenProject:
		return m.updateProject(msg)
	default:
		if key.Matches(msg, keys.Back) {
			return m, m.back()
		}
	}
	return m, nil
}
