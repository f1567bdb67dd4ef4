package store

import (
	"context"
	"database/sql"

	"clipdeck/internal/model"
)

// migrate creates every table and trigger that is missing. Statements are
// additive only; running it against an existing store is a no-op.
func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS category (
			category_id INTEGER PRIMARY KEY,
			category_name TEXT UNIQUE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS templates (
			template_id INTEGER PRIMARY KEY,
			template_name TEXT NOT NULL,
			template_text TEXT NOT NULL,
			category_id INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (category_id) REFERENCES category (category_id) ON DELETE SET NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_templates_category ON templates(category_id);`,
		`CREATE TABLE IF NOT EXISTS tags (
			tag_id INTEGER PRIMARY KEY,
			tag_name TEXT UNIQUE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS template_tags (
			template_id INTEGER NOT NULL,
			tag_id INTEGER NOT NULL,
			PRIMARY KEY (template_id, tag_id),
			FOREIGN KEY (template_id) REFERENCES templates (template_id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags (tag_id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_template_tags_tag ON template_tags(tag_id);`,
		`CREATE TABLE IF NOT EXISTS quick_copy_buttons (
			button_id INTEGER PRIMARY KEY,
			button_icon TEXT NOT NULL,
			button_text TEXT NOT NULL
		);`,

		// A template never keeps a NULL category past the write that produced it.
		`CREATE TRIGGER IF NOT EXISTS templates_unassigned_after_update
		AFTER UPDATE ON templates
		FOR EACH ROW
		WHEN NEW.category_id IS NULL
		BEGIN
			UPDATE templates
			SET category_id = (SELECT category_id FROM category WHERE category_name = 'Unassigned')
			WHERE template_id = NEW.template_id;
		END;`,
		`CREATE TRIGGER IF NOT EXISTS templates_unassigned_after_insert
		AFTER INSERT ON templates
		FOR EACH ROW
		WHEN NEW.category_id IS NULL
		BEGIN
			UPDATE templates
			SET category_id = (SELECT category_id FROM category WHERE category_name = 'Unassigned')
			WHERE template_id = NEW.template_id;
		END;`,
		// Move templates before the FK's SET NULL runs; SET NULL stays as the backstop.
		`CREATE TRIGGER IF NOT EXISTS category_reassign_before_delete
		BEFORE DELETE ON category
		FOR EACH ROW
		WHEN OLD.category_name <> 'Unassigned'
		BEGIN
			UPDATE templates
			SET category_id = (SELECT category_id FROM category WHERE category_name = 'Unassigned')
			WHERE category_id = OLD.category_id;
		END;`,
		`CREATE TRIGGER IF NOT EXISTS category_protect_unassigned
		BEFORE DELETE ON category
		FOR EACH ROW
		WHEN OLD.category_name = 'Unassigned'
		BEGIN
			SELECT RAISE(ABORT, 'the Unassigned category cannot be removed');
		END;`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// DefaultCategories are seeded on Init. Unassigned must stay first: it is the
// fallback target of every trigger above.
var DefaultCategories = []string{
	model.UnassignedCategory,
	"Completeness",
	"Efficiency",
	"Style",
	"Documentation",
	"Links",
	"Other",
}

// DefaultQuickCopyButtons is the stock shortcut palette.
var DefaultQuickCopyButtons = []model.QuickCopyButton{
	{Icon: "Space", Text: "\u200e \u200e \u200e \u200e "},
	{Icon: "❌", Text: "❌ "},
	{Icon: "●", Text: "●"},
	{Icon: "○", Text: "○"},
	{Icon: "▪", Text: "▪"},
	{Icon: "→", Text: "→"},
	{Icon: "✔️", Text: "✔️ "},
	{Icon: "⚠️", Text: "⚠️"},
	{Icon: "🔎", Text: "🔎"},
	{Icon: "📖", Text: "📖"},
	{Icon: "🔗", Text: "🔗"},
	{Icon: "💡", Text: "💡"},
	{Icon: "⬆️", Text: "⬆️"},
}

func seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, name := range DefaultCategories {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO category(category_name) VALUES(?)`, name); err != nil {
			return err
		}
	}
	// quick_copy_buttons has no natural unique column; key seed rows by icon.
	for _, b := range DefaultQuickCopyButtons {
		if _, err := tx.ExecContext(ctx, `INSERT INTO quick_copy_buttons(button_icon, button_text)
			SELECT ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM quick_copy_buttons WHERE button_icon = ?)`,
			b.Icon, b.Text, b.Icon); err != nil {
			return err
		}
	}
	return tx.Commit()
}
