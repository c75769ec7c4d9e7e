package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/kanban"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "Manage a project's tasks",
	Long: `List, create and move tasks.

The project comes from --project, or from the current context
(see 'rbac-console context').`,
}

var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the project's board",
	RunE:    runTasksList,
}

var tasksCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a task",
	Long: `Create a task in a project.

Examples:
  rbac-console tasks create "Write docs" -P p1
  rbac-console tasks create "Review" -d "second pass" --assign u1`,
	Args: cobra.ExactArgs(1),
	RunE: runTasksCreate,
}

var tasksMoveCmd = &cobra.Command{
	Use:   "move [task-id] [status]",
	Short: "Move a task to another column",
	Long: `Move a task to TODO, IN_PROGRESS, REVIEW or DONE.

Examples:
  rbac-console tasks move t1 review
  rbac-console tasks move t1 "in progress" -P p1`,
	Args: cobra.ExactArgs(2),
	RunE: runTasksMove,
}

var (
	taskProject     string
	taskDescription string
	taskAssign      []string
)

func init() {
	tasksCmd.PersistentFlags().StringVarP(&taskProject, "project", "P", "", "Project id (defaults to the current context)")
	tasksCreateCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description")
	tasksCreateCmd.Flags().StringSliceVarP(&taskAssign, "assign", "a", nil, "User id to assign (repeatable)")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksCreateCmd)
	tasksCmd.AddCommand(tasksMoveCmd)
}

// resolveProject picks the --project flag, then the saved context
func resolveProject() (string, error) {
	if p := strings.TrimSpace(taskProject); p != "" {
		return p, nil
	}
	if p := GetCurrentContext(); p != "" {
		return p, nil
	}
	return "", errors.New("no project given, use --project or 'rbac-console context set <project-id>'")
}

func runTasksList(cmd *cobra.Command, args []string) error {
	projectID, err := resolveProject()
	if err != nil {
		return err
	}

	client := newClient()
	board := kanban.New(projectID)
	if err := board.Fetch(cmd.Context(), client); err != nil {
		return fmt.Errorf("failed to list tasks: %s", api.Message(err))
	}

	out := cmd.OutOrStdout()
	if len(board.Tasks()) == 0 {
		fmt.Fprintf(out, "No tasks in %s. Add one with: rbac-console tasks create \"Title\" -P %s\n", projectID, projectID)
		return nil
	}

	for _, col := range board.Columns() {
		fmt.Fprintf(out, "\n%s (%d)\n", col.Status.Label(), len(col.Tasks))
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, t := range col.Tasks {
			printTask(cmd, t)
		}
	}
	fmt.Fprintln(out)
	return nil
}

func printTask(cmd *cobra.Command, t model.Task) {
	assigned := ""
	if len(t.Assignees) > 0 {
		assigned = "@" + strings.Join(t.Assignees, ",")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %-8s  %-40s  %s\n", shortID(t.ID), truncate(t.Title, 40), assigned)
}

func runTasksCreate(cmd *cobra.Command, args []string) error {
	projectID, err := resolveProject()
	if err != nil {
		return err
	}

	req, err := forms.CreateTask{
		ProjectID:   projectID,
		Title:       args[0],
		Description: taskDescription,
		Assignees:   taskAssign,
	}.Request()
	if err != nil {
		return err
	}

	client := newClient()
	t, err := client.CreateTask(cmd.Context(), req)
	if err != nil {
		logger.Warn("Create task failed", logger.F("project", projectID), logger.F("error", err))
		return fmt.Errorf("failed to create task: %s", api.Message(err))
	}

	logger.Info("Task created", logger.F("id", t.ID), logger.F("project", projectID))
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Created task: %s (%s)\n", t.Title, t.ID)
	return nil
}

func runTasksMove(cmd *cobra.Command, args []string) error {
	to, ok := model.ParseStatus(args[1])
	if !ok {
		return fmt.Errorf("unknown status %q, use one of TODO, IN_PROGRESS, REVIEW, DONE", args[1])
	}
	projectID, err := resolveProject()
	if err != nil {
		return err
	}

	client := newClient()
	board := kanban.New(projectID)
	if err := board.Fetch(cmd.Context(), client); err != nil {
		return fmt.Errorf("failed to load tasks: %s", api.Message(err))
	}

	tr, err := board.Move(args[0], to)
	switch {
	case errors.Is(err, kanban.ErrSameStatus):
		fmt.Fprintf(cmd.OutOrStdout(), "Task %s is already %s.\n", args[0], to.Label())
		return nil
	case err != nil:
		return fmt.Errorf("cannot move %s: %w", args[0], err)
	}

	if err := board.Commit(cmd.Context(), client, tr); err != nil {
		return fmt.Errorf("failed to move task: %s", api.Message(err))
	}

	logger.Info("Task moved", logger.F("id", tr.TaskID), logger.F("from", string(tr.From)), logger.F("to", string(tr.To)))
	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: %s → %s\n", tr.TaskID, tr.From.Label(), tr.To.Label())
	return nil
}
