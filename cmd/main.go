package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryan-cox/attendly/internal/calendar"
	"github.com/bryan-cox/attendly/internal/config"
	"github.com/bryan-cox/attendly/internal/model"
	"github.com/bryan-cox/attendly/internal/notify"
	"github.com/bryan-cox/attendly/internal/report"
	"github.com/bryan-cox/attendly/internal/store"
	"github.com/bryan-cox/attendly/internal/workspace"
)

var (
	// Used for flags.
	filePath     string
	username     string
	password     string
	workspaceRef string
	startDate    string
	endDate      string

	// Set in main; tests run with defaults.
	appConfig = &config.Config{File: "attendly.yml", DangerThreshold: 60, DefaultTarget: 75}

	// Swapped out by tests.
	now    = time.Now
	sender notify.Sender = notify.Desktop{}

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:           "attendly",
		Short:         "A CLI tool to track attendance against a weekly timetable.",
		Long:          `Attendly keeps a weekly timetable, per-date attendance marks and leave ranges in a local YAML file and reports weighted attendance against a target.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// registerCmd creates a local account
	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create a local account with a default academic workspace.",
		RunE:  runRegisterCommand,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err, "command", strings.Join(os.Args[1:], " "))
		os.Exit(1)
	}
}

func init() {
	// Add persistent flags to the root command (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "Path to the YAML data file (default $ATTENDLY_FILE or attendly.yml).")
	rootCmd.PersistentFlags().StringVar(&username, "user", "", "Username.")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Password (default $ATTENDLY_PASSWORD).")
	rootCmd.PersistentFlags().StringVar(&workspaceRef, "workspace", "", "Workspace id or name (default: the first one).")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(unitCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(notifyCmd)
}

// --- Main Application Entry Point ---

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	appConfig = cfg

	// Setup structured JSON logger for errors.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	Execute()
}

// --- Helper Functions ---

func dataFile() string {
	if filePath != "" {
		return filePath
	}
	return appConfig.File
}

func credentials() (string, string) {
	pw := password
	if pw == "" {
		pw = os.Getenv("ATTENDLY_PASSWORD")
	}
	return username, pw
}

// openUser authenticates and loads the user's workspaces without requiring one to exist.
func openUser() (*store.FileStore, *workspace.Session, error) {
	st, err := store.Open(dataFile())
	if err != nil {
		return nil, nil, err
	}
	user, err := st.Authenticate(credentials())
	if err != nil {
		return nil, nil, err
	}
	sess := workspace.NewSession(user, st.WorkspacesFor(user.ID), st)
	slog.Debug("opened session", "user_id", user.ID, "workspaces", len(sess.Workspaces()))
	return st, sess, nil
}

// openWorkspace is openUser plus selection of the active workspace.
func openWorkspace() (*workspace.Session, *workspace.Workspace, error) {
	_, sess, err := openUser()
	if err != nil {
		return nil, nil, err
	}
	if workspaceRef != "" {
		if _, err := sess.Select(workspaceRef); err != nil {
			return nil, nil, fmt.Errorf("%w: %s", err, workspaceRef)
		}
	}
	w := sess.Active()
	if w == nil {
		return nil, nil, fmt.Errorf("no workspace yet, create one with 'attendly workspace create'")
	}
	return sess, w, nil
}

func today() calendar.Date {
	return calendar.Today(now())
}

// parseDay accepts 0-6 (Sunday = 0) or a weekday name or prefix such as "mon".
func parseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("day must be between 0 (Sunday) and 6 (Saturday), got %d", n)
		}
		return n, nil
	}
	if len(s) >= 3 {
		for i, name := range report.Days {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(s)) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// --- Command Execution Logic ---

func runRegisterCommand(cmd *cobra.Command, args []string) error {
	st, err := store.Open(dataFile())
	if err != nil {
		return err
	}
	user, err := st.CreateUser(credentials())
	if err != nil {
		return err
	}
	if user.Preferences.DefaultTarget != appConfig.DefaultTarget || user.Preferences.DangerThreshold != appConfig.DangerThreshold {
		user.Preferences.DefaultTarget = appConfig.DefaultTarget
		user.Preferences.DangerThreshold = appConfig.DangerThreshold
		if err := st.UpdateUser(user); err != nil {
			return err
		}
	}

	sess := workspace.NewSession(user, nil, st)
	w, _, err := sess.CreateWorkspace("Main Schedule", model.ScheduleAcademic, nil)
	if err != nil {
		return err
	}
	cmd.Printf("Registered %s (%s) with workspace %q [%s]\n", user.Username, user.ID, w.Name(), w.ID())
	return nil
}
