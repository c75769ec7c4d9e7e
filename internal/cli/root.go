package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/config"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/session"
	"github.com/existflow/rbacconsole/internal/tui"
)

var (
	apiBase    string
	logLevel   string
	logFile    string
	logConsole bool
	startRoute string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rbac-console",
	Short: "RBAC Console - manage users, projects and tasks",
	Long: `RBAC Console is a terminal client for a role-based access control
backend: sign in, administer users, create projects and move tasks
across a kanban board.

Run 'rbac-console' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("api-base") {
			cfg.APIBase = apiBase
			configChanged = true
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("RBAC Console started", logger.F("command", cmd.Name()), logger.F("api", cfg.APIBase))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		logger.Info("Launching TUI", logger.F("route", startRoute))
		if err := tui.Run(client, client.Store(), startRoute); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("RBAC Console exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// newClient builds an API client over the configured session file
func newClient() *api.Client {
	store := session.NewFileStore(cfg.SessionFile)
	var opts []api.Option
	if cfg.RequestTimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.RequestTimeout))
	}
	return api.NewClient(cfg.APIBase, store, opts...)
}

func init() {
	// Backend and logging flags
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "Backend base URL (saved to config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.Flags().StringVar(&startRoute, "route", tui.PathDashboard, "Screen to open, e.g. /tasks or /projects/<id>")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(dashboardCmd)
}
