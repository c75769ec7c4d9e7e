package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/dashboard"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/logger"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "Manage projects",
	Long:    `List and create projects.`,
}

var projectsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all projects",
	RunE:    runProjectsList,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new project",
	Long: `Create a new project.

Examples:
  rbac-console projects create "Apollo"
  rbac-console projects create "Apollo" -d "Moon shot" --assign u1 --assign u2`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectsCreate,
}

var (
	projectDescription string
	projectAssign      []string
)

func init() {
	projectsCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectsCreateCmd.Flags().StringSliceVarP(&projectAssign, "assign", "a", nil, "User id to assign (repeatable)")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	client := newClient()
	projects, err := client.ListProjects(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list projects: %s", api.Message(err))
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found. Create one with: rbac-console projects create \"Name\"")
		return nil
	}

	counts := dashboard.CountTasks(cmd.Context(), client, projects)
	current := GetCurrentContext()

	fmt.Fprintln(out)
	for _, p := range projects {
		marker := "  "
		if p.ID == current {
			marker = "❯ "
		}
		fmt.Fprintf(out, "%s%-10s  %-24s  %3d tasks  %2d assignees  by %s\n",
			marker, shortID(p.ID), truncate(p.Name, 24), counts[p.ID], len(p.AssignedEmployees), p.Creator())
	}
	fmt.Fprintln(out)
	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	f := forms.CreateProject{Name: args[0], Description: projectDescription}
	for _, id := range projectAssign {
		if id = strings.TrimSpace(id); id != "" && !f.Has(id) {
			f.Toggle(id)
		}
	}
	req, err := f.Request()
	if err != nil {
		return err
	}

	client := newClient()
	p, err := client.CreateProject(cmd.Context(), req)
	if err != nil {
		logger.Warn("Create project failed", logger.F("name", req.Name), logger.F("error", err))
		return fmt.Errorf("failed to create project: %s", api.Message(err))
	}

	logger.Info("Project created", logger.F("id", p.ID), logger.F("name", p.Name))
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Created project: %s (%s)\n", p.Name, p.ID)
	return nil
}
