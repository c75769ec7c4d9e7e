package tui

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/model"
	"github.com/existflow/rbacconsole/internal/session"
)

type fakeBackend struct {
	mu    sync.Mutex
	store session.Store
	calls []string

	users     []model.User
	projects  []model.Project
	tasks     map[string][]model.Task
	updateErr error
	loginErr  error

	createdUsers []model.CreateUserRequest
	createdTasks []model.CreateTaskRequest
	updates      []model.UpdateTaskStatusRequest
}

func newFakeBackend(store session.Store) *fakeBackend {
	return &fakeBackend{
		store: store,
		users: []model.User{
			{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: model.RoleAdmin},
			{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: model.RoleViewer},
		},
		projects: []model.Project{
			{ID: "p1", Name: "Apollo", AssignedEmployees: []string{"u1"}},
		},
		tasks: map[string][]model.Task{
			"p1": {
				{ID: "t1", Title: "Write docs", Status: model.StatusInProgress, Assignees: []string{"u1"}},
				{ID: "t2", Title: "Ship it", Status: model.StatusTodo},
			},
		},
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (string, error) {
	f.record("Login")
	if f.loginErr != nil {
		return "", f.loginErr
	}
	tok := tokenFor(model.RoleAdmin)
	return tok, f.store.Save(tok)
}

func (f *fakeBackend) Logout() error {
	return f.store.Clear()
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]model.User, error) {
	f.record("ListUsers")
	return f.users, nil
}

func (f *fakeBackend) ListProjects(ctx context.Context) ([]model.Project, error) {
	f.record("ListProjects")
	return f.projects, nil
}

func (f *fakeBackend) ListTasksByProject(ctx context.Context, id string) ([]model.Task, error) {
	f.record("ListTasksByProject")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Task(nil), f.tasks[id]...), nil
}

func (f *fakeBackend) CreateUser(ctx context.Context, req model.CreateUserRequest) error {
	f.record("CreateUser")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdUsers = append(f.createdUsers, req)
	return nil
}

func (f *fakeBackend) CreateProject(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	f.record("CreateProject")
	return &model.Project{ID: "p2", Name: req.Name}, nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	f.record("CreateTask")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdTasks = append(f.createdTasks, req)
	t := model.Task{ID: "new", Title: req.Title, Status: model.StatusTodo, Assignees: req.Assignees}
	f.tasks[req.ProjectID] = append(f.tasks[req.ProjectID], t)
	return &t, nil
}

func (f *fakeBackend) UpdateTaskStatus(ctx context.Context, id string, status model.Status) error {
	f.record("UpdateTaskStatus")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, model.UpdateTaskStatusRequest{ID: id, Status: status})
	return f.updateErr
}

func tokenFor(role string) string {
	payload, _ := json.Marshal(map[string]string{"role": role, "user_id": "u1"})
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

// drain runs cmd and every command that follows from it, feeding each
// message back into the model the way the bubbletea runtime does.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, follow := m.Update(msg)
			m = next.(Model)
			queue = append(queue, follow)
		}
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func start(t *testing.T, role, path string) (Model, *fakeBackend, session.Store) {
	t.Helper()
	store := session.NewMemoryStore("")
	if role != "" {
		store = session.NewMemoryStore(tokenFor(role))
	}
	b := newFakeBackend(store)
	m := NewModel(b, store, path)
	m.successDelay = 0
	return drain(t, m, m.Init()), b, store
}

func TestRoute(t *testing.T) {
	tests := []struct {
		route  Route
		screen Screen
		gated  bool
	}{
		{"/", ScreenLogin, false},
		{"/dashboard", ScreenDashboard, true},
		{"/create-user", ScreenCreateUser, true},
		{"/create-project", ScreenCreateProject, true},
		{"/tasks", ScreenTasks, true},
		{"/projects/42", ScreenProject, true},
		{"/projects/", ScreenNotFound, true},
		{"/projects/1/2", ScreenNotFound, true},
		{"/nope", ScreenNotFound, true},
	}
	for _, tt := range tests {
		if got := tt.route.Screen(); got != tt.screen {
			t.Errorf("%s screen = %d, want %d", tt.route, got, tt.screen)
		}
		if got := tt.route.Gated(); got != tt.gated {
			t.Errorf("%s gated = %v", tt.route, got)
		}
	}
	if id, ok := ProjectRoute("abc").ProjectID(); !ok || id != "abc" {
		t.Errorf("ProjectRoute round trip = %q %v", id, ok)
	}
}

func TestGuardRedirectsWithoutCredential(t *testing.T) {
	for _, path := range []string{PathDashboard, PathCreateUser, PathCreateProject, PathTasks, "/projects/p1"} {
		t.Run(path, func(t *testing.T) {
			store := session.NewMemoryStore("")
			b := newFakeBackend(store)
			m := NewModel(b, store, path)

			if m.Init() != nil {
				t.Error("gated mount issued commands")
			}
			if m.Route() != PathLogin {
				t.Errorf("route = %s, want /", m.Route())
			}
			if h := m.History(); len(h) != 1 || h[0] != PathLogin {
				t.Errorf("history = %v", h)
			}
			if n := b.callCount(); n != 0 {
				t.Errorf("backend calls = %v", b.calls)
			}
			if !strings.Contains(m.View(), "Sign in") {
				t.Error("login screen not rendered")
			}
		})
	}
}

func TestRoleGatesDashboard(t *testing.T) {
	viewer, vb, _ := start(t, model.RoleViewer, PathDashboard)
	view := viewer.View()
	if strings.Contains(view, "+ New Project") {
		t.Error("viewer sees New Project")
	}
	if strings.Contains(view, "EMAIL") || strings.Contains(view, "Total Users") {
		t.Error("viewer sees users table")
	}
	if vb.called("ListUsers") {
		t.Error("users fetched for viewer")
	}

	admin, ab, _ := start(t, model.RoleAdmin, PathDashboard)
	view = admin.View()
	if !strings.Contains(view, "+ New Project") {
		t.Error("admin missing New Project")
	}
	if !strings.Contains(view, "EMAIL") || !strings.Contains(view, "bob@example.com") {
		t.Error("admin missing users table")
	}
	if !ab.called("ListUsers") {
		t.Error("users not fetched for admin")
	}
}

func TestMalformedTokenIsLeastPrivileged(t *testing.T) {
	store := session.NewMemoryStore("not-a-jwt")
	b := newFakeBackend(store)
	m := NewModel(b, store, PathDashboard)
	m = drain(t, m, m.Init())

	if m.Route() != PathDashboard {
		t.Fatalf("route = %s", m.Route())
	}
	if strings.Contains(m.View(), "+ New Project") {
		t.Error("malformed token granted affordances")
	}
}

func TestLogoutThenGatedMountRedirects(t *testing.T) {
	m, b, store := start(t, model.RoleAdmin, PathDashboard)
	m = press(t, m, "ctrl+o")

	if m.Route() != PathLogin {
		t.Fatalf("route after logout = %s", m.Route())
	}
	if _, ok := store.Load(); ok {
		t.Fatal("credential survived logout")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	before := b.callCount()
	for _, path := range []Route{PathDashboard, PathTasks, ProjectRoute("p1")} {
		cmd := m.navigate(path, false)
		if cmd != nil {
			t.Errorf("%s issued commands", path)
		}
		if m.Route() != PathLogin {
			t.Errorf("%s mounted without credential", path)
		}
	}
	if b.callCount() != before {
		t.Errorf("calls after logout: %v", b.calls[before:])
	}

	// back never returns to the gated screen
	m = press(t, m, "esc")
	if m.Route() != PathLogin || len(m.History()) != 1 {
		t.Errorf("route=%s history=%v", m.Route(), m.History())
	}
}

func TestLoginNavigatesToDashboard(t *testing.T) {
	m, b, store := start(t, "", PathDashboard)
	m = press(t, m, "admin@example.com", "enter", "admin123", "enter")

	if !b.called("Login") {
		t.Fatal("login not sent")
	}
	if _, ok := store.Load(); !ok {
		t.Fatal("credential not stored")
	}
	if m.Route() != PathDashboard {
		t.Fatalf("route = %s", m.Route())
	}
	if h := m.History(); len(h) != 1 {
		t.Errorf("login left a history entry: %v", h)
	}
}

func TestLoginFailureShownInline(t *testing.T) {
	m, b, _ := start(t, "", PathLogin)
	b.loginErr = &api.HTTPError{StatusCode: 401, Message: "invalid credentials"}
	m = press(t, m, "admin@example.com", "enter", "wrong", "enter")

	if m.Route() != PathLogin {
		t.Fatalf("route = %s", m.Route())
	}
	if !strings.Contains(m.View(), "invalid credentials") {
		t.Error("error not shown")
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	store := session.NewMemoryStore(tokenFor(model.RoleAdmin))
	b := newFakeBackend(store)
	m := NewModel(b, store, PathDashboard)
	pending := m.Init()

	// leave the dashboard before its load completes
	next, cmd := m.Update(keyMsg("ctrl+t"))
	m = drain(t, next.(Model), cmd)
	if m.Route() != PathTasks {
		t.Fatalf("route = %s", m.Route())
	}

	m = drain(t, m, pending)
	if m.dashboard.summary != nil {
		t.Error("stale dashboard result applied")
	}
}

func projectBoard(t *testing.T, role string) (Model, *fakeBackend) {
	t.Helper()
	m, b, _ := start(t, role, "/projects/p1")
	if m.project.project == nil || !m.project.board.board.Loaded() {
		t.Fatalf("project screen not loaded: %+v", m.project.loadErr)
	}
	if m.project.focus != detailBoard {
		m = press(t, m, "tab", "tab", "tab", "tab")
	}
	if m.project.focus != detailBoard {
		t.Fatalf("focus = %d", m.project.focus)
	}
	return m, b
}

func TestBoardMoveIsOptimistic(t *testing.T) {
	m, b := projectBoard(t, model.RoleViewer)

	// cursor to IN_PROGRESS column, where t1 sits
	m = press(t, m, "right")

	// own status is disabled
	next, cmd := m.Update(keyMsg("2"))
	if cmd != nil {
		t.Fatal("moving to the current status issued a command")
	}
	m = next.(Model)

	next, cmd = m.Update(keyMsg("3"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("no command for move")
	}
	if got, _ := m.project.board.board.Task("t1"); got.Status != model.StatusReview {
		t.Fatalf("local status before response = %s", got.Status)
	}
	if b.called("UpdateTaskStatus") {
		t.Fatal("backend called before the command ran")
	}

	m = drain(t, m, cmd)
	if len(b.updates) != 1 || b.updates[0].ID != "t1" || b.updates[0].Status != model.StatusReview {
		t.Errorf("updates = %+v", b.updates)
	}
	if m.project.board.board.Pending("t1") {
		t.Error("still pending")
	}
}

func TestBoardMoveFailureRollsBack(t *testing.T) {
	m, b := projectBoard(t, model.RoleEditor)
	b.updateErr = &api.HTTPError{StatusCode: 403, Message: "forbidden"}

	m = press(t, m, "right", "4")

	got, _ := m.project.board.board.Task("t1")
	if got.Status != model.StatusInProgress {
		t.Errorf("status after failed move = %s", got.Status)
	}
	view := m.View()
	if !strings.Contains(view, "forbidden") || !strings.Contains(view, "reverted") {
		t.Error("failure not shown inline")
	}
}

func TestBoardPicker(t *testing.T) {
	m, b := projectBoard(t, model.RoleViewer)

	// t2 is in TODO; open picker, first enabled option is IN_PROGRESS
	m = press(t, m, "m")
	if !m.project.board.picking {
		t.Fatal("picker not open")
	}
	m = press(t, m, "enter")
	if got, _ := m.project.board.board.Task("t2"); got.Status != model.StatusInProgress {
		t.Errorf("status = %s", got.Status)
	}
	if len(b.updates) != 1 {
		t.Errorf("updates = %+v", b.updates)
	}
}

func TestProjectCreateTaskWithAssignees(t *testing.T) {
	m, b, _ := start(t, model.RoleEditor, "/projects/p1")
	m = press(t, m, "Review", "enter", "second pass", "enter", " ", "tab", "enter")

	if len(b.createdTasks) != 1 {
		t.Fatalf("created = %+v", b.createdTasks)
	}
	req := b.createdTasks[0]
	if req.ProjectID != "p1" || req.Title != "Review" || len(req.Assignees) != 1 || req.Assignees[0] != "u1" {
		t.Errorf("request = %+v", req)
	}
	if _, ok := m.project.board.board.Task("new"); !ok {
		t.Error("board not reloaded after create")
	}
}

func TestCreateUserFlow(t *testing.T) {
	m, b, _ := start(t, model.RoleAdmin, PathCreateUser)
	m = press(t, m,
		"Cy", "enter",
		"cy@example.com", "enter",
		"secret1", "enter",
		"secret2", "enter",
		"enter", "enter",
	)
	if len(b.createdUsers) != 0 {
		t.Fatal("mismatched passwords were sent")
	}
	if !strings.Contains(m.View(), "Passwords do not match") {
		t.Error("mismatch not shown")
	}

	// fix confirmation: focus back to confirm field
	m = press(t, m, "up", "up")
	m.createUser.form.set(userConfirm, "secret1")
	m = press(t, m, "tab", "tab", "enter")

	if len(b.createdUsers) != 1 {
		t.Fatalf("created = %+v", b.createdUsers)
	}
	if got := b.createdUsers[0]; got.Role != model.RoleViewer || got.Email != "cy@example.com" {
		t.Errorf("request = %+v", got)
	}
	if m.Route() != PathDashboard {
		t.Errorf("route after success = %s", m.Route())
	}
}

func TestNavbarHidesAdminLinks(t *testing.T) {
	m, _, _ := start(t, model.RoleEditor, PathDashboard)
	if strings.Contains(m.View(), "Create User") {
		t.Error("editor sees Create User")
	}
	m = press(t, m, "ctrl+u")
	if m.Route() != PathDashboard {
		t.Errorf("hidden link navigated to %s", m.Route())
	}
}
