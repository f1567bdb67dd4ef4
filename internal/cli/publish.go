package cli

import (
	"clipdeck/internal/bundle"
	"clipdeck/internal/publish"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		to        string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write templates as markdown pages (one per category)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := bundle.Export(cmd.Context(), s)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.Write(b, to, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("published", zap.String("to", to), zap.Int("files", len(res.Written)))
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
