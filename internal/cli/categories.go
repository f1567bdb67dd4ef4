package cli

import (
	"clipdeck/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Category commands",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesAddCmd(app))
	cmd.AddCommand(newCategoriesRmCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories (Unassigned first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			cats, err := s.Categories(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cats})
		},
	}
	return cmd
}

func newCategoriesAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category (no-op if it exists)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := s.CreateCategory(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cats, err := s.Categories(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, c := range cats {
				if c.ID == id {
					app.logger().Info("category added", zap.Int64("id", id), zap.String("name", c.Name))
					return writeOut(cmd, app, map[string]any{"data": c})
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id}})
		},
	}
	return cmd
}

func newCategoriesRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a category; its templates move to Unassigned",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			name := model.NormalizeName(args[0])
			if err := s.DeleteCategory(cmd.Context(), name); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("category removed", zap.String("name", name))
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"name": name, "removed": true},
			})
		},
	}
	return cmd
}
