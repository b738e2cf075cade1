// Package cli implements the roadwatch command line client. Each command
// corresponds to one screen of the RoadWatch app: login, signup, report
// submission, report history, the admin alert feed, and the admin map.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/roadwatch/internal/config"
	"github.com/me/roadwatch/internal/logging"
	"github.com/me/roadwatch/internal/router"
	"github.com/me/roadwatch/internal/session"
	"github.com/me/roadwatch/internal/store"
	"github.com/me/roadwatch/pkg/api"
	"github.com/me/roadwatch/pkg/model"
)

var (
	flagServer    string
	flagDataDir   string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg      config.Config
	logger   *slog.Logger
	client   *api.Client
	sessions *session.Manager
)

// NewRootCmd creates the root cobra command for the roadwatch CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "roadwatch",
		Short: "RoadWatch — report and track road hazards",
		Long:  "RoadWatch reports potholes and road hazards to a RoadWatch server and, for administrators, watches the incoming alert feed.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagDataDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if flagServer != "" {
				cfg.ServerURL = flagServer
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagLogFormat != "" {
				cfg.LogFormat = flagLogFormat
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}

			logger = logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			client = api.NewClient(api.DefaultConfig().WithBaseURL(cfg.ServerURL), logger)
			sessions = session.NewManager(session.NewFileStore(cfg.DataDir), logger)

			// Restore before any command runs so authorization decisions
			// never observe the pre-restore anonymous state.
			sessions.Restore(cmd.Context())
			client.SetToken(sessions.Current().Token)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "", "RoadWatch server URL (or ROADWATCH_SERVER env)")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default ~/.roadwatch)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newSignupCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newSubmitCmd(),
		newReportsCmd(),
		newAlertsCmd(),
		newMapCmd(),
		newAreaCmd(),
	)

	return root
}

// openStore opens the local cache database in the data directory. Callers
// own the returned store and must Close it.
func openStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.DBPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return st, nil
}

// requireAuth returns the current session or an error if nobody is logged in.
func requireAuth() (model.Session, error) {
	sess := sessions.Current()
	if !sess.IsAuthenticated() {
		return model.Session{}, fmt.Errorf("not logged in; run 'roadwatch login' first")
	}
	return sess, nil
}

// requireAdmin returns the current session or an error if the logged-in
// account is not an administrator.
func requireAdmin() (model.Session, error) {
	sess, err := requireAuth()
	if err != nil {
		return model.Session{}, err
	}
	if !sess.IsAdmin() {
		return model.Session{}, fmt.Errorf("admin account required")
	}
	return sess, nil
}

// screenNames maps screens to what the CLI announces when the role router
// redirects after a session change.
var screenNames = map[router.Screen]string{
	router.ScreenEntry:     "sign-in screen",
	router.ScreenUserHome:  "home screen",
	router.ScreenAdminHome: "admin dashboard",
}

// attachRouter wires a role router that prints each redirect. The caller
// must Close the returned router when done.
func attachRouter() *router.RoleRouter {
	return router.New(sessions, router.NavigatorFunc(func(s router.Screen) {
		fmt.Printf("Opening %s.\n", screenNames[s])
	}), logger)
}
