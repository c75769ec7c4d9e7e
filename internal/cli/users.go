package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users (ADMIN)",
}

var usersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all users",
	RunE:    runUsersList,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: `Create a user. The password is prompted twice.

Examples:
  rbac-console users create --name "Jane Doe" --email jane@example.com
  rbac-console users create --name Ops --email ops@example.com --role MANAGER`,
	RunE: runUsersCreate,
}

var (
	userName  string
	userEmail string
	userRole  string
)

func init() {
	usersCreateCmd.Flags().StringVar(&userName, "name", "", "Full name")
	usersCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	usersCreateCmd.Flags().StringVar(&userRole, "role", model.RoleViewer, "Role ("+strings.Join(model.Roles, ", ")+")")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	client := newClient()
	users, err := client.ListUsers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list users: %s", api.Message(err))
	}

	out := cmd.OutOrStdout()
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found.")
		return nil
	}

	fmt.Fprintf(out, "\n👥 Users (%d)\n", len(users))
	fmt.Fprintln(out, strings.Repeat("─", 80))
	for _, u := range users {
		created := ""
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(out, "  %-8s  %-20s  %-28s  %-8s  %s\n", shortID(u.ID), truncate(u.Name, 20), truncate(u.Email, 28), u.Role, created)
	}
	fmt.Fprintln(out)
	return nil
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	p := newPrompter(cmd)
	if userName == "" {
		userName = p.line("Name: ")
	}
	if userEmail == "" {
		userEmail = p.line("Email: ")
	}

	f := forms.CreateUser{
		Name:     userName,
		Email:    userEmail,
		Password: p.secret("Password: "),
		Confirm:  p.secret("Confirm Password: "),
		Role:     strings.ToUpper(userRole),
	}
	req, err := f.Request()
	if err != nil {
		return err
	}

	client := newClient()
	fmt.Fprintln(cmd.OutOrStdout(), "🔄 Creating user...")
	if err := client.CreateUser(cmd.Context(), req); err != nil {
		logger.Warn("Create user failed", logger.F("email", req.Email), logger.F("error", err))
		return fmt.Errorf("failed to create user: %s", api.Message(err))
	}

	logger.Info("User created", logger.F("email", req.Email), logger.F("role", req.Role))
	fmt.Fprintf(cmd.OutOrStdout(), "✅ User created successfully! %s (%s)\n", req.Email, req.Role)
	return nil
}

// shortID keeps the first 8 characters of an id
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to max characters with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
