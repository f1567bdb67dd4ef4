package store

import (
	"context"
	"database/sql"

	"clipdeck/internal/model"
)

// ListTags returns the tag names of one template. A template without tags
// (or an unknown id) yields an empty slice, not an error.
func (s Store) ListTags(ctx context.Context, templateID int64) ([]string, error) {
	out := []string{}
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT tg.tag_name
			FROM template_tags tt
			JOIN tags tg ON tg.tag_id = tt.tag_id
			WHERE tt.template_id = ?
			ORDER BY tg.tag_id`, templateID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			out = append(out, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TagsByTemplate returns tag names keyed by template id for every template
// that has at least one tag.
func (s Store) TagsByTemplate(ctx context.Context) (map[int64][]string, error) {
	out := map[int64][]string{}
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT tt.template_id, tg.tag_name
			FROM template_tags tt
			JOIN tags tg ON tg.tag_id = tt.tag_id
			ORDER BY tt.template_id, tg.tag_id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				id   int64
				name string
			)
			if err := rows.Scan(&id, &name); err != nil {
				return err
			}
			out[id] = append(out[id], name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s Store) AllTags(ctx context.Context) ([]model.Tag, error) {
	out := []model.Tag{}
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT tag_id, tag_name FROM tags ORDER BY tag_id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var t model.Tag
			if err := rows.Scan(&t.ID, &t.Name); err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ensureTag finds a tag by exact name or creates it.
func ensureTag(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags(tag_name) VALUES(?)`, name); err != nil {
		return 0, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT tag_id FROM tags WHERE tag_name = ?`, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// attachTags links already-normalized tag names to a template.
func attachTags(ctx context.Context, tx *sql.Tx, templateID int64, tags []string) error {
	for _, name := range tags {
		tagID, err := ensureTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO template_tags(template_id, tag_id) VALUES(?, ?)`, templateID, tagID); err != nil {
			return err
		}
	}
	return nil
}
