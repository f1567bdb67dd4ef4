package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"clipdeck/internal/model"
	"clipdeck/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// templateOut is the CLI shape of a template: category and tags resolved to
// names.
type templateOut struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template", "t"},
		Short:   "Template commands",
	}
	cmd.AddCommand(newTemplatesListCmd(app))
	cmd.AddCommand(newTemplatesShowCmd(app))
	cmd.AddCommand(newTemplatesCreateCmd(app))
	cmd.AddCommand(newTemplatesUpdateCmd(app))
	cmd.AddCommand(newTemplatesDeleteCmd(app))
	return cmd
}

func newTemplatesListCmd(app *App) *cobra.Command {
	var f model.TemplateFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates (filters are AND-combined)",
		Example: strings.TrimSpace(`
  clipdeck templates list --category Efficiency
  clipdeck templates list --name loop --tag perf --tag style
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if f.Category != "" {
				f.Category = model.NormalizeName(f.Category)
			}
			ts, err := s.FindTemplates(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			out, err := templateOutputs(cmd.Context(), s, ts)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"count": len(out), "filter": f},
			})
		},
	}

	cmd.Flags().StringVar(&f.Category, "category", "", "Only templates in this category")
	cmd.Flags().StringVar(&f.Name, "name", "", "Name contains (case-insensitive)")
	cmd.Flags().StringSliceVar(&f.Tags, "tag", nil, "Tag contains (repeatable; any tag may match)")
	return cmd
}

func newTemplatesShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template",
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
			out, err := showTemplate(cmd.Context(), s, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newTemplatesCreateCmd(app *App) *cobra.Command {
	var p store.CreateTemplateParams

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a template",
		Example: strings.TrimSpace(`
  clipdeck templates create --name "slow loop" --text "Hoist the lookup." --category Efficiency --tag perf
  pbpaste | clipdeck templates create --name snippet --text -
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd, p.Text)
			if err != nil {
				return writeErr(cmd, err)
			}
			p.Text = text
			if strings.TrimSpace(p.Name) == "" {
				return writeErr(cmd, errors.New("--name must not be blank"))
			}
			if strings.TrimSpace(p.Text) == "" {
				return writeErr(cmd, errors.New("--text must not be blank"))
			}

			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := s.CreateTemplate(cmd.Context(), p)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("template created", zap.Int64("id", id), zap.String("category", p.Category))

			out, err := showTemplate(cmd.Context(), s, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "Template name")
	cmd.Flags().StringVar(&p.Text, "text", "", "Template text (- reads stdin)")
	cmd.Flags().StringVar(&p.Category, "category", "", "Category name (unknown or empty: Unassigned)")
	cmd.Flags().StringSliceVar(&p.Tags, "tag", nil, "Tag (repeatable or comma-separated)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newTemplatesUpdateCmd(app *App) *cobra.Command {
	var (
		name     string
		text     string
		category string
		tags     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a template (only the flags given)",
		Example: strings.TrimSpace(`
  clipdeck templates update 3 --category Style
  clipdeck templates update 3 --tags "perf, style"
  clipdeck templates update 3 --tags ""   # clear tags
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			var p store.UpdateTemplateParams
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = &name
			}
			if flags.Changed("text") {
				t, err := textArg(cmd, text)
				if err != nil {
					return writeErr(cmd, err)
				}
				p.Text = &t
			}
			if flags.Changed("category") {
				p.Category = &category
			}
			if flags.Changed("tags") {
				list := model.SplitList(tags)
				if list == nil {
					list = []string{}
				}
				p.Tags = &list
			}

			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.UpdateTemplate(cmd.Context(), id, p); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("template updated", zap.Int64("id", id))

			out, err := showTemplate(cmd.Context(), s, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name (blank is ignored)")
	cmd.Flags().StringVar(&text, "text", "", "New text (- reads stdin)")
	cmd.Flags().StringVar(&category, "category", "", "New category (unknown is ignored)")
	cmd.Flags().StringVar(&tags, "tags", "", "Replace all tags (comma-separated; empty clears)")
	return cmd
}

func newTemplatesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a template (no-op for unknown ids)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.DeleteTemplate(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("template deleted", zap.Int64("id", id))
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "deleted": true},
			})
		},
	}
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID(s)
	}
	return id, nil
}

// textArg resolves "-" to the command's stdin.
func textArg(cmd *cobra.Command, v string) (string, error) {
	if v != "-" {
		return v, nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func showTemplate(ctx context.Context, s store.Store, id int64) (templateOut, error) {
	t, err := s.GetTemplate(ctx, id)
	if err != nil {
		return templateOut{}, err
	}
	out, err := templateOutputs(ctx, s, []model.Template{t})
	if err != nil {
		return templateOut{}, err
	}
	return out[0], nil
}

func templateOutputs(ctx context.Context, s store.Store, ts []model.Template) ([]templateOut, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	tags, err := s.TagsByTemplate(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]templateOut, 0, len(ts))
	for _, t := range ts {
		tt := tags[t.ID]
		if tt == nil {
			tt = []string{}
		}
		out = append(out, templateOut{
			ID:        t.ID,
			Name:      t.Name,
			Text:      t.Text,
			Category:  names[t.CategoryID],
			Tags:      tt,
			CreatedAt: t.CreatedAt,
		})
	}
	return out, nil
}
