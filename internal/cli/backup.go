package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <file>",
		Short: "Write a consistent copy of the database (refuses to overwrite)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Backup(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("store backed up", zap.String("dest", args[0]))
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"source": s.Path(), "path": args[0]},
			})
		},
	}
	return cmd
}
