package cli

import (
	"clipdeck/internal/clipboard"
	"clipdeck/internal/view"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCopyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <id>...",
		Short: "Copy template texts to the clipboard (joined by copy_separator)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return writeErr(cmd, err)
				}
				ids = append(ids, id)
			}
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}

			texts := make([]string, 0, len(ids))
			for _, id := range ids {
				t, err := s.GetTemplate(cmd.Context(), id)
				if err != nil {
					return writeErr(cmd, err)
				}
				texts = append(texts, t.Text)
			}
			joined := view.JoinForClipboard(texts, app.cfg.CopySeparator)

			write := app.Copy
			if write == nil {
				write = clipboard.Write
			}
			if err := write(joined); err != nil {
				app.logger().Warn("clipboard write failed", zap.Error(err))
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"ids": ids, "bytes": len(joined)},
			})
		},
	}
	return cmd
}
