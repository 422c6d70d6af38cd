package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/hikari/internal/config"
	"github.com/sandeepkv93/hikari/internal/logging"
	"github.com/sandeepkv93/hikari/internal/storage"
	"github.com/sandeepkv93/hikari/internal/tasks"
)

// Commands annotated with skipStore manage the database themselves.
const skipStore = "hikari/skip-store"

type app struct {
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool

	now  func() time.Time
	cfg  config.Config
	log  *log.Logger
	repo *storage.SQLiteRepository
	svc  *tasks.Service
}

func newApp() *app {
	return &app{now: time.Now}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "hikari",
		Short: "Hikari is a terminal task and project manager",
		Long: `Hikari keeps tasks in nested projects, plans them onto days and
shows what is due today. Run it without arguments for the terminal UI.`,
		Args:               wrapArgs(cobra.NoArgs),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE:               a.runTUI,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	root.PersistentFlags().StringVar(&a.flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/hikari)")
	root.PersistentFlags().StringVar(&a.flagDataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/hikari)")
	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newProjectsCmd(a),
		newProjectCmd(a),
		newTasksCmd(a),
		newTaskCmd(a),
		newExportCmd(a),
		newMigrateCmd(a),
	)
	return root
}

func wrapArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

// setup loads configuration, builds the stderr logger and, unless the
// command opts out, opens and migrates the database.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	configDir, err := config.ResolveConfigDir(a.flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	dataDir, err := config.ResolveDataDir(a.flagDataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	cfg, err := config.Load(configDir, dataDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.FromConfig(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format, false)

	if _, ok := cmd.Annotations[skipStore]; ok {
		return nil
	}
	return a.openStore(cmd.Context())
}

func (a *app) openStore(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}
	repo, err := storage.OpenSQLite(ctx, a.cfg.Database.Driver, a.cfg.Database.Path, storage.WithClock(a.now))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.repo = repo
	a.svc = tasks.NewService(repo,
		tasks.WithClock(a.now),
		tasks.WithLocation(loc),
		tasks.WithLogger(a.log),
	)
	a.log.Debug("database ready", "driver", a.cfg.Database.Driver, "path", a.cfg.Database.Path)
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the hikari version",
		Args:        wrapArgs(cobra.NoArgs),
		Annotations: map[string]string{skipStore: ""},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "hikari", version)
		},
	}
}
