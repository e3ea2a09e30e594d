package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/appstate"
	"github.com/abhisek/smartstudy/internal/logger"
	"github.com/abhisek/smartstudy/internal/pocketbase"
	"github.com/abhisek/smartstudy/internal/store"
	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// log is configured in PersistentPreRunE and safe to use in every RunE.
var log = logger.NewNop()

var rootCmd = &cobra.Command{
	Use:   "smartstudy",
	Short: "Turn study notes into summaries, glossaries and quizzes",
	Long: "SmartStudy analyzes study text with an LLM, stores the resulting summary,\n" +
		"key concepts and quiz as a session, and tracks your quiz attempts.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}

		format, _ := cmd.Flags().GetString("log-format")
		if format == "" {
			format = os.Getenv("SMARTSTUDY_LOG_FORMAT")
		}
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = os.Getenv("SMARTSTUDY_LOG_LEVEL")
		}
		l, err := logger.New(format, level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

// Execute runs the CLI. ctx is cancelled on interrupt by the caller.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to the local LLM event log (overrides SMARTSTUDY_DB)")
	pf.String("state", "", "Path to the login state file (overrides SMARTSTUDY_STATE)")
	pf.String("pocketbase", "", "PocketBase server URL (overrides SMARTSTUDY_POCKETBASE_URL)")
	pf.String("log-format", "", "Log encoding: console or json (overrides SMARTSTUDY_LOG_FORMAT)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides SMARTSTUDY_LOG_LEVEL)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SMARTSTUDY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func resolveStatePath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("state"); p != "" {
		return p
	}
	return appstate.DefaultPath()
}

func loadState(cmd *cobra.Command) (*appstate.State, string, error) {
	path := resolveStatePath(cmd)
	st, err := appstate.Load(path)
	if err != nil {
		return nil, "", err
	}
	return st, path, nil
}

func pocketbaseURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("pocketbase"); u != "" {
		return u
	}
	return os.Getenv("SMARTSTUDY_POCKETBASE_URL")
}

// newBackend returns an unauthenticated PocketBase client.
func newBackend(cmd *cobra.Command) *pocketbase.Client {
	return pocketbase.New(pocketbaseURL(cmd), pocketbase.WithLogger(log))
}

// session is the logged-in context shared by commands that talk to the
// backend on the user's behalf.
type session struct {
	state     *appstate.State
	statePath string
	client    *pocketbase.Client
}

func (s *session) user() study.User { return *s.state.User }

func (s *session) styles() theme.Styles { return theme.StylesFor(s.state.CurrentTheme()) }

// requireLogin loads the app state and fails with a hint when no user is
// logged in.
func requireLogin(cmd *cobra.Command) (*session, error) {
	st, path, err := loadState(cmd)
	if err != nil {
		return nil, err
	}
	if !st.LoggedIn() {
		return nil, fmt.Errorf("not logged in; run `smartstudy login` first")
	}
	return &session{
		state:     st,
		statePath: path,
		client:    newBackend(cmd).WithToken(st.Token),
	}, nil
}

// explain adds a next step to errors the user can act on.
func explain(err error) error {
	if errors.Is(err, pocketbase.ErrUnauthorized) {
		return fmt.Errorf("%w (run `smartstudy login` again)", err)
	}
	return err
}
