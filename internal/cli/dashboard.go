package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/dashboard"
	"github.com/existflow/rbacconsole/internal/rolegate"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the dashboard totals",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	client := newClient()
	token, ok := client.Store().Load()
	if !ok {
		return fmt.Errorf("not logged in, run 'rbac-console auth login'")
	}
	role := rolegate.FromToken(token)

	s, err := dashboard.Load(cmd.Context(), client, role)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %s", api.Message(err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Role:      %s\n", role)
	if s.UsersShown {
		if s.UsersErr != nil {
			fmt.Fprintf(out, "Users:     unavailable (%s)\n", api.Message(s.UsersErr))
		} else {
			fmt.Fprintf(out, "Users:     %d\n", len(s.Users))
		}
	}
	fmt.Fprintf(out, "Projects:  %d\n", len(s.Projects))
	fmt.Fprintf(out, "Tasks:     %d\n", s.TotalTasks)
	fmt.Fprintf(out, "Assignees: %d\n", s.Assignees)
	return nil
}
