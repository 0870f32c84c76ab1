package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"taskorium-cli/internal/board"
	"taskorium-cli/internal/format"
	"taskorium-cli/internal/notify"
	"taskorium-cli/internal/store"
	"taskorium-cli/internal/tui"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg     *store.GlobalConfig
	log     *log.Logger
	redis   *redis.Client
	channel string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskorium",
		Short:        "Taskorium kanban boards (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  taskorium

  # Scriptable commands
  taskorium projects create --name "Launch"
  taskorium cards create --column col-abc12345 --title "Write copy"
  taskorium cards move crd-xyz98765 --column col-def67890 --to 0

  # Direct card lookup (shortcut for: taskorium cards show <card-id>)
  taskorium crd-xyz98765
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKORIUM_DIR", ""), "Path to store dir (overrides workspace resolution; mainly for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("TASKORIUM_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKORIUM_FORMAT", format.JSON), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TASKORIUM_LOG_LEVEL", ""), "Log level on stderr (debug|info|warn|error)")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newColumnsCmd(app))
	cmd.AddCommand(newCardsCmd(app))
	cmd.AddCommand(newSubtasksCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newReindexCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// setup loads the global config and configures logging. Flags win over config.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg

	if _, err := format.Normalize(app.Format); err != nil {
		return writeErr(cmd, err)
	}

	lvlName := strings.TrimSpace(app.LogLevel)
	if lvlName == "" {
		lvlName = strings.TrimSpace(cfg.LogLevel)
	}
	if lvlName == "" {
		lvlName = "warn"
	}
	lvl, err := log.ParseLevel(lvlName)
	if err != nil {
		return writeErr(cmd, err)
	}
	l := log.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetLevel(lvl)
	l.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	app.log = l
	return nil
}

func (app *App) close() {
	if app.redis != nil {
		_ = app.redis.Close()
		app.redis = nil
	}
}

func (app *App) logger() *log.Logger {
	if app.log == nil {
		app.log = log.StandardLogger()
	}
	return app.log
}

// resolveDir picks the workspace directory:
// 1) --dir
// 2) --workspace
// 3) the config's currentWorkspace
// 4) a project-local .taskorium directory above the working directory
// 5) the "default" workspace
func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	if app.Workspace != "" {
		d, err := store.WorkspaceDir(app.Workspace)
		if err != nil {
			return "", err
		}
		app.Dir = d
		return d, nil
	}
	if app.cfg != nil && app.cfg.CurrentWorkspace != "" {
		d, err := store.WorkspaceDir(app.cfg.CurrentWorkspace)
		if err != nil {
			return "", err
		}
		app.Workspace = app.cfg.CurrentWorkspace
		app.Dir = d
		return d, nil
	}
	if wd, err := os.Getwd(); err == nil {
		if d, ok := store.DiscoverDir(wd); ok && !isConfigDir(d) {
			app.Workspace = filepath.Base(filepath.Dir(d))
			app.Dir = d
			return d, nil
		}
	}

	app.Workspace = "default"
	d, err := store.WorkspaceDir(app.Workspace)
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

// isConfigDir reports whether d is the global config dir rather than a project-local workspace.
func isConfigDir(d string) bool {
	d = filepath.Clean(d)
	if cd, err := store.ConfigDir(); err == nil && filepath.Clean(cd) == d {
		return true
	}
	if home, err := os.UserHomeDir(); err == nil && filepath.Dir(d) == filepath.Clean(home) {
		return true
	}
	return false
}

// loadBoard opens the resolved workspace. When Redis is configured every commit is also published.
func loadBoard(ctx context.Context, app *App) (*board.Board, store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	s := store.Store{Dir: dir}
	l := app.logger().WithField("workspace", workspaceLabel(app))
	b, err := board.Open(ctx, s, board.WithLogger(l))
	if err != nil {
		return nil, s, err
	}
	b.Subscribe(notify.LogObserver(l))
	if pub := app.publisher(); pub != nil {
		b.Subscribe(pub.Observer())
	}
	return b, s, nil
}

func (app *App) publisher() *notify.Publisher {
	if app.cfg == nil || app.cfg.Redis == nil || strings.TrimSpace(app.cfg.Redis.URL) == "" {
		return nil
	}
	if app.redis == nil {
		rc, channel, err := notify.NewClient(app.cfg.Redis)
		if err != nil {
			app.logger().WithError(err).Warn("redis notifications disabled")
			return nil
		}
		app.redis = rc
		app.channel = channel
	}
	return notify.NewPublisher(app.redis, app.channel, workspaceLabel(app), app.logger())
}

func workspaceLabel(app *App) string {
	if app.Workspace != "" {
		return app.Workspace
	}
	return app.Dir
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmdContext(cmd)
	b, s, err := loadBoard(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	opts := tui.Options{
		Workspace: workspaceLabel(app),
		NoColor:   os.Getenv("NO_COLOR") != "" || (app.cfg != nil && app.cfg.TUI != nil && app.cfg.TUI.NoColor),
		Log:       app.logger(),
	}
	if pub := app.publisher(); pub != nil {
		opts.Redis = app.redis
		opts.Channel = app.channel
		opts.Origin = pub.Origin()
	}
	return tui.Run(ctx, b, s, opts)
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
