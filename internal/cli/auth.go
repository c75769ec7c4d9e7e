package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/claims"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/rolegate"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Sign in to the RBAC backend and inspect the stored credential.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the backend",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credential",
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show login status",
	RunE:  runStatus,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the claims of the stored credential",
	Long: `Show the claims of the stored credential.

Claims are decoded without verifying the signature. They are what the
console uses to decide which screens to offer; the backend decides what
is actually allowed.`,
	RunE: runWhoami,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().String("email", "", "Account email (prompted when empty)")
}

// prompter reads answers from the command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, r: bufio.NewReader(in), out: cmd.OutOrStdout()}
}

func (p *prompter) line(prompt string) string {
	fmt.Fprint(p.out, prompt)
	s, _ := p.r.ReadString('\n')
	return strings.TrimSpace(s)
}

func (p *prompter) secret(prompt string) string {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, prompt)
		b, _ := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		return string(b)
	}
	return p.line(prompt)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client := newClient()
	p := newPrompter(cmd)

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = p.line("Email: ")
	}
	f := forms.Login{Email: email, Password: p.secret("Password: ")}
	if err := f.Validate(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "🔄 Logging in...")
	token, err := client.Login(cmd.Context(), f.Email, f.Password)
	if err != nil {
		logger.Warn("Login failed", logger.F("email", f.Email), logger.F("error", err))
		return fmt.Errorf("login failed: %s", api.Message(err))
	}

	logger.Info("Logged in", logger.F("email", f.Email))
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Logged in as %s (%s)\n", f.Email, rolegate.FromToken(token))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client := newClient()
	if !client.IsLoggedIn() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	if err := client.Logout(); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	logger.Info("Logged out")
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Logged out successfully.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := newClient()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Backend:  %s\n", client.BaseURL())
	fmt.Fprintf(out, "Session:  %s\n", cfg.SessionFile)

	token, ok := client.Store().Load()
	if !ok {
		fmt.Fprintln(out, "Status:   ❌ not logged in")
		return nil
	}
	fmt.Fprintln(out, "Status:   ✅ logged in")
	fmt.Fprintf(out, "Role:     %s\n", rolegate.FromToken(token))

	aff := rolegate.For(rolegate.FromToken(token))
	fmt.Fprintf(out, "Can:      users=%v create-user=%v create-project=%v create-task=%v\n",
		aff.ViewUsers, aff.CreateUser, aff.CreateProject, aff.CreateTask)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client := newClient()
	out := cmd.OutOrStdout()

	token, ok := client.Store().Load()
	if !ok {
		return fmt.Errorf("not logged in, run 'rbac-console auth login'")
	}

	c, err := claims.Decode(token)
	if err != nil {
		return fmt.Errorf("stored credential: %w", err)
	}

	fmt.Fprintf(out, "User ID:  %s\n", c.Identity())
	fmt.Fprintf(out, "Role:     %s\n", rolegate.DisplayRole(c.Role))
	if c.IssuedAt != nil {
		fmt.Fprintf(out, "Issued:   %s\n", c.IssuedAt.Time.Format(time.RFC1123))
	}
	if c.ExpiresAt != nil {
		note := ""
		if c.ExpiresAt.Time.Before(time.Now()) {
			note = " (expired)"
		}
		fmt.Fprintf(out, "Expires:  %s%s\n", c.ExpiresAt.Time.Format(time.RFC1123), note)
	}
	return nil
}
