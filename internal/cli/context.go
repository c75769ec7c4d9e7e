package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/config"
	"github.com/existflow/rbacconsole/internal/model"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the default project",
	Long: `Set or view the project that task commands use by default.

Examples:
  rbac-console context              # Show current context
  rbac-console context set p1       # Use project p1 for task commands
  rbac-console context clear        # Forget the default project`,
	RunE: runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [project-id]",
	Short: "Set the current project context",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current context",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

// Context file path
func contextFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "context"), nil
}

// GetCurrentContext returns the default project id, empty when none is set
func GetCurrentContext() string {
	path, err := contextFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetContext saves the default project id
func SetContext(projectID string) error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(projectID), 0600)
}

// ClearContext removes the context file
func ClearContext() error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func runContextShow(cmd *cobra.Command, args []string) error {
	current := GetCurrentContext()
	if current == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "📥 No project context set")
		return nil
	}

	client := newClient()
	projects, err := client.ListProjects(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "📁 Current context: %s (could not verify: %s)\n", current, api.Message(err))
		return nil
	}
	p, ok := model.FindProject(projects, current)
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "⚠️  Context set to '%s' but project not found\n", current)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "📁 Current context: %s (%s)\n", p.Name, p.ID)
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	projectID := args[0]

	client := newClient()
	projects, err := client.ListProjects(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list projects: %s", api.Message(err))
	}
	p, ok := model.FindProject(projects, projectID)
	if !ok {
		return fmt.Errorf("project not found: %s", projectID)
	}

	if err := SetContext(projectID); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📁 Switched to: %s\n", p.Name)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	if err := ClearContext(); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "📥 Context cleared")
	return nil
}
