// Package tui is the interactive console: a router over the login,
// dashboard, user, project and task screens, all talking to the backend
// through a Backend.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/dashboard"
	"github.com/existflow/rbacconsole/internal/kanban"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
	"github.com/existflow/rbacconsole/internal/rolegate"
	"github.com/existflow/rbacconsole/internal/session"
)

// Backend is what the console needs from the API client
type Backend interface {
	dashboard.Source

	Login(ctx context.Context, email, password string) (string, error)
	Logout() error
	CreateUser(ctx context.Context, req model.CreateUserRequest) error
	CreateProject(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error)
	CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status model.Status) error
}

// defaultSuccessDelay is how long a success banner stays before redirecting
const defaultSuccessDelay = 1500 * time.Millisecond

// Model is the main TUI model
type Model struct {
	backend Backend
	store   session.Store
	ctx     context.Context

	// Routing. gen increases on every mount; results from an older mount
	// are dropped when they arrive.
	route   Route
	history []Route
	gen     int
	role    rolegate.DisplayRole
	startup tea.Cmd

	// UI state
	width        int
	height       int
	showHelp     bool
	message      string
	successDelay time.Duration

	// Screens
	login         loginScreen
	dashboard     dashboardScreen
	createUser    createUserScreen
	createProject createProjectScreen
	tasks         tasksScreen
	project       projectScreen
}

// NewModel creates the console model and mounts start. Gated routes fall
// back to the login screen when store holds no credential.
func NewModel(backend Backend, store session.Store, start string) Model {
	logger.Info("Initializing TUI model", logger.F("start", start))

	m := Model{
		backend:      backend,
		store:        store,
		ctx:          context.Background(),
		successDelay: defaultSuccessDelay,
	}
	if start == "" {
		start = PathDashboard
	}
	m.startup = m.navigate(Route(start), false)
	return m
}

// Route returns the current location
func (m Model) Route() Route {
	return m.route
}

// History returns the navigation stack, oldest first
func (m Model) History() []Route {
	return append([]Route(nil), m.history...)
}

// Role returns the role hint of the stored credential
func (m Model) Role() rolegate.DisplayRole {
	return m.role
}

func (m Model) affordances() rolegate.Affordances {
	return rolegate.For(m.role)
}

// guard checks the credential for a gated route and refreshes the role
// hint. It reports false when the route must not be mounted.
func (m *Model) guard(to Route) bool {
	if !to.Gated() {
		return true
	}
	token, ok := m.store.Load()
	if !ok {
		logger.Info("No credential, redirecting to login", logger.F("route", string(to)))
		return false
	}
	m.role = rolegate.FromToken(token)
	return true
}

// navigate moves to a route, pushing it on the history or replacing the
// current entry. A refused guard replaces the whole history with the login
// screen so back never returns to the gated route.
func (m *Model) navigate(to Route, replace bool) tea.Cmd {
	if !m.guard(to) {
		m.history = []Route{PathLogin}
		return m.mount(PathLogin)
	}

	if replace && len(m.history) > 0 {
		m.history[len(m.history)-1] = to
	} else {
		m.history = append(m.history, to)
	}
	return m.mount(to)
}

// back returns to the previous route, if any
func (m *Model) back() tea.Cmd {
	if len(m.history) < 2 {
		return nil
	}
	m.history = m.history[:len(m.history)-1]
	to := m.history[len(m.history)-1]
	if !m.guard(to) {
		m.history = []Route{PathLogin}
		return m.mount(PathLogin)
	}
	return m.mount(to)
}

// logout forgets the credential and lands on the login screen
func (m *Model) logout() tea.Cmd {
	if err := m.backend.Logout(); err != nil {
		logger.Error("Logout failed", logger.F("error", err))
		m.message = "Logout failed: " + err.Error()
		return nil
	}
	logger.Info("Logged out")
	m.history = nil
	return m.navigate(PathLogin, true)
}

// mount shows the screen for to with fresh state and returns the commands
// that load its data.
func (m *Model) mount(to Route) tea.Cmd {
	m.route = to
	m.gen++
	m.message = ""
	logger.Debug("Mount", logger.F("route", string(to)), logger.F("gen", m.gen))

	switch to.Screen() {
	case ScreenLogin:
		m.role = rolegate.None
		m.login = newLoginScreen()
		return nil
	case ScreenDashboard:
		m.dashboard = dashboardScreen{loading: true}
		return m.loadSummaryCmd()
	case ScreenCreateUser:
		m.createUser = newCreateUserScreen()
		return nil
	case ScreenCreateProject:
		m.createProject = newCreateProjectScreen()
		return m.loadUsersCmd()
	case ScreenTasks:
		m.tasks = newTasksScreen()
		return nil
	case ScreenProject:
		id, _ := to.ProjectID()
		m.project = newProjectScreen(id, m.affordances().CreateTask)
		return m.findProjectCmd(id)
	}
	return nil
}

// activeBoard returns the board of the current screen, if it has one
func (m *Model) activeBoard() *boardView {
	switch m.route.Screen() {
	case ScreenTasks:
		return &m.tasks.board
	case ScreenProject:
		return &m.project.board
	}
	return nil
}

// Messages. Each carries the generation of the mount that issued it.

type generational interface {
	generation() int
}

type mounted struct {
	gen int
}

func (t mounted) generation() int {
	return t.gen
}

type loginMsg struct {
	mounted
	err error
}

type summaryMsg struct {
	mounted
	summary *dashboard.Summary
	err     error
}

type usersMsg struct {
	mounted
	users []model.User
	err   error
}

type projectMsg struct {
	mounted
	project *model.Project
	err     error
}

type boardMsg struct {
	mounted
	projectID string
	tasks     []model.Task
	err       error
}

type taskMovedMsg struct {
	mounted
	tr  kanban.Transition
	err error
}

type userCreatedMsg struct {
	mounted
	err error
}

type projectCreatedMsg struct {
	mounted
	project *model.Project
	err     error
}

type taskCreatedMsg struct {
	mounted
	task *model.Task
	err  error
}

type redirectMsg struct {
	mounted
	to Route
}
