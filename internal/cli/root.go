package cli

import (
	"fmt"
	"os"
	"strings"

	"clipdeck/internal/clipboard"
	"clipdeck/internal/format"
	"clipdeck/internal/logging"
	"clipdeck/internal/store"
	"clipdeck/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool
	Format     string

	// Copy replaces the system clipboard (tests).
	Copy clipboard.Writer

	cfg *store.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clipdeck",
		Short:        "Clipboard template manager (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create the template store
  clipdeck init

  # Start the interactive TUI
  clipdeck

  # Scriptable commands
  clipdeck templates list --tag perf
  clipdeck copy 3 4

  # Direct template lookup (shortcut for: clipdeck templates show <id>)
  clipdeck 3
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
		if err := app.setup(); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Path to the store dir (default: config `dir`, then ~/.clipdeck)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("CLIPDECK_CONFIG", ""), "Path to config.json (default: <config dir>/config.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|yaml)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newButtonsCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newCopyCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newPublishCmd(app))

	return cmd
}

// setup resolves config. Precedence: flags, then CLIPDECK_* env, then the
// config file, then defaults.
func (app *App) setup() error {
	cfg, err := store.LoadConfig(app.ConfigPath)
	if err != nil {
		return err
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	app.cfg = cfg
	if strings.TrimSpace(app.Dir) == "" {
		app.Dir = cfg.Dir
	}
	if strings.TrimSpace(app.Format) == "" {
		app.Format = cfg.Format
	}
	if !format.Valid(app.Format) {
		return fmt.Errorf("unknown format: %s (want json|yaml)", app.Format)
	}
	return nil
}

func (app *App) store() store.Store {
	return store.Store{Dir: app.Dir}
}

// openStore returns the store, failing when init has not been run yet.
func (app *App) openStore() (store.Store, error) {
	s := app.store()
	if !s.Exists() {
		return s, errStoreMissing(s.Path())
	}
	return s, nil
}

// logger is created on first use so read-only commands on a missing store
// don't create its directory.
func (app *App) logger() *zap.Logger {
	if app.log != nil {
		return app.log
	}
	level := ""
	if app.cfg != nil {
		level = app.cfg.LogLevel
	}
	l, err := logging.New(app.Dir, level)
	if err != nil {
		l = logging.Nop()
	}
	app.log = l
	return l
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := app.openStore()
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), tui.Options{
		Store:         s,
		Log:           app.logger(),
		CopySeparator: app.cfg.CopySeparator,
		Theme:         app.cfg.Theme,
		Copy:          app.Copy,
	})
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
