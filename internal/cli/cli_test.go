package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/model"
	"github.com/existflow/rbacconsole/internal/session"
	"github.com/existflow/rbacconsole/server"
)

// setup points the CLI at a fresh backend and an empty home directory
func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	srv, err := server.New(server.Config{
		DBPath:        filepath.Join(t.TempDir(), "rbac.db"),
		JWTSecret:     "cli-secret",
		TokenTTL:      time.Hour,
		AdminName:     "Super Admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
	})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	t.Setenv("RBAC_CONSOLE_API_BASE", ts.URL)
	return home
}

// run executes the root command with args, feeding input to prompts
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	taskProject, taskDescription, taskAssign = "", "", nil
	projectDescription, projectAssign = "", nil
	userName, userEmail, userRole = "", "", model.RoleViewer

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, input string, args ...string) string {
	t.Helper()
	out, err := run(t, input, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

var createdID = regexp.MustCompile(`Created project: .+ \(([^)]+)\)`)

func TestCLIWorkflow(t *testing.T) {
	home := setup(t)

	out, _ := run(t, "", "auth", "status")
	if !strings.Contains(out, "not logged in") {
		t.Errorf("status before login:\n%s", out)
	}

	out = mustRun(t, "admin123\n", "auth", "login", "--email", "admin@example.com")
	if !strings.Contains(out, "Logged in as admin@example.com (ADMIN)") {
		t.Errorf("login output:\n%s", out)
	}

	out = mustRun(t, "secret1\nsecret1\n", "users", "create", "--name", "Ed", "--email", "ed@example.com", "--role", "EDITOR")
	if !strings.Contains(out, "User created successfully! ed@example.com (EDITOR)") {
		t.Errorf("users create output:\n%s", out)
	}

	if _, err := run(t, "secret1\nother\n", "users", "create", "--name", "X", "--email", "x@example.com"); err == nil ||
		!strings.Contains(err.Error(), "Passwords do not match") {
		t.Errorf("mismatched confirm err = %v", err)
	}

	out = mustRun(t, "", "users", "list")
	if !strings.Contains(out, "ed@example.com") || !strings.Contains(out, "Users (2)") {
		t.Errorf("users list:\n%s", out)
	}

	out = mustRun(t, "", "projects", "create", "Apollo", "-d", "moon")
	m := createdID.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("projects create output:\n%s", out)
	}
	projectID := m[1]

	mustRun(t, "", "tasks", "create", "Build rocket", "-P", projectID)

	// Look the task id up through the same session the CLI saved.
	client := api.NewClient(mustEnv(t), session.NewFileStore(filepath.Join(home, ".rbac-console", "session.json")))
	tasks, err := client.ListTasksByProject(context.Background(), projectID)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("tasks = %v, %v", tasks, err)
	}
	taskID := tasks[0].ID

	mustRun(t, "", "context", "set", projectID)

	out = mustRun(t, "", "tasks", "move", taskID, "review")
	if !strings.Contains(out, "TODO → REVIEW") {
		t.Errorf("move output:\n%s", out)
	}

	out = mustRun(t, "", "tasks", "move", taskID, "REVIEW")
	if !strings.Contains(out, "already REVIEW") {
		t.Errorf("self move output:\n%s", out)
	}

	if _, err := run(t, "", "tasks", "move", taskID, "blocked"); err == nil {
		t.Error("moving to an unknown status succeeded")
	}

	out = mustRun(t, "", "tasks", "list")
	if !strings.Contains(out, "REVIEW (1)") || !strings.Contains(out, "TODO (0)") {
		t.Errorf("tasks list:\n%s", out)
	}

	tasks, _ = client.ListTasksByProject(context.Background(), projectID)
	if tasks[0].Status != model.StatusReview {
		t.Errorf("server status = %s", tasks[0].Status)
	}

	out = mustRun(t, "", "dashboard")
	if !strings.Contains(out, "Projects:  1") || !strings.Contains(out, "Tasks:     1") || !strings.Contains(out, "Users:     2") {
		t.Errorf("dashboard:\n%s", out)
	}

	mustRun(t, "", "auth", "logout")
	out, _ = run(t, "", "auth", "status")
	if !strings.Contains(out, "not logged in") {
		t.Errorf("status after logout:\n%s", out)
	}
}

func TestCLIRoleRefusal(t *testing.T) {
	setup(t)

	mustRun(t, "admin123\n", "auth", "login", "--email", "admin@example.com")
	mustRun(t, "secret1\nsecret1\n", "users", "create", "--name", "Vi", "--email", "vi@example.com", "--role", "VIEWER")
	mustRun(t, "secret1\n", "auth", "login", "--email", "vi@example.com")

	_, err := run(t, "", "projects", "create", "Nope")
	if err == nil || !strings.Contains(err.Error(), "forbidden") {
		t.Errorf("viewer project create err = %v", err)
	}
}

func mustEnv(t *testing.T) string {
	t.Helper()
	if cfg == nil || cfg.APIBase == "" {
		t.Fatal("config not loaded")
	}
	return cfg.APIBase
}
