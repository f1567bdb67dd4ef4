package cli

import (
	"io"
	"os"
	"strings"

	"clipdeck/internal/bundle"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all templates as a YAML bundle",
		Example: strings.TrimSpace(`
  clipdeck export > templates.yaml
  clipdeck export --file templates.yaml
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := bundle.Export(cmd.Context(), s)
			if err != nil {
				return writeErr(cmd, err)
			}

			file = strings.TrimSpace(file)
			if file == "" || file == "-" {
				// The bundle is the output; no envelope.
				if err := bundle.Encode(cmd.OutOrStdout(), b); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}

			f, err := os.Create(file)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := bundle.Encode(f, b); err != nil {
				_ = f.Close()
				return writeErr(cmd, err)
			}
			if err := f.Close(); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("bundle exported", zap.String("file", file), zap.Int("templates", len(b.Templates)))
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"file": file, "templates": len(b.Templates), "categories": len(b.Categories)},
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Write the bundle to a file instead of stdout")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML bundle (- reads stdin); templates are added, never merged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				r = f
			}
			b, err := bundle.Decode(r)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := bundle.Import(cmd.Context(), s, b)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("bundle imported", zap.String("file", args[0]), zap.Int("templates", len(res.Templates)))
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	return cmd
}
