package cli

import (
	"clipdeck/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the template store (safe to re-run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.store()
			existed := s.Exists()
			if err := s.Init(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}

			// Persist the resolved settings on first run so users have a file
			// to edit.
			cfg := *app.cfg
			cfg.Dir = app.Dir
			created, err := store.EnsureConfig(app.ConfigPath, &cfg)
			if err != nil {
				return writeErr(cmd, err)
			}

			stats, err := s.Stats(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("store initialized",
				zap.String("path", s.Path()),
				zap.Bool("existed", existed),
				zap.Int("categories", stats.Categories),
				zap.Int("buttons", stats.Buttons),
			)

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":           app.Dir,
					"sqlitePath":    s.Path(),
					"existed":       existed,
					"configCreated": created,
					"stats":         stats,
				},
			})
		},
	}
	return cmd
}
