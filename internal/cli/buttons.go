package cli

import (
	"clipdeck/internal/clipboard"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newButtonsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buttons",
		Short: "Quick-copy palette commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List quick-copy buttons",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			buttons, err := s.ListQuickCopyButtons(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": buttons})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a quick-copy button's text to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := s.GetQuickCopyButton(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			write := app.Copy
			if write == nil {
				write = clipboard.Write
			}
			if err := write(b.Text); err != nil {
				app.logger().Warn("clipboard write failed", zap.Error(err))
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	})
	return cmd
}
