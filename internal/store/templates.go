package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"clipdeck/internal/model"
)

type CreateTemplateParams struct {
	Name     string   `json:"name"`
	Text     string   `json:"text"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// UpdateTemplateParams is a partial update: nil fields are left untouched.
type UpdateTemplateParams struct {
	Name     *string `json:"name,omitempty"`
	Text     *string `json:"text,omitempty"`
	Category *string `json:"category,omitempty"`
	// Tags replaces every association when non-nil; an empty list clears them.
	Tags *[]string `json:"tags,omitempty"`
}

const templateColumns = `t.template_id, t.template_name, t.template_text, t.category_id, t.created_at`

// FindTemplates returns the templates matching f, one row per template,
// ordered by id. Category is an exact name match; Name and Tags are
// case-insensitive substring matches and are AND-combined when both are set.
func (s Store) FindTemplates(ctx context.Context, f model.TemplateFilter) ([]model.Template, error) {
	var w where
	if c := strings.TrimSpace(f.Category); c != "" {
		w.and(pred(`c.category_name = ?`, c))
	}
	if n := strings.TrimSpace(f.Name); n != "" {
		w.and(pred(`fold(t.template_name) LIKE ? ESCAPE '\'`, containsPattern(n)))
	}
	var tagPreds []predicate
	for _, tag := range f.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tagPreds = append(tagPreds, pred(`fold(tg.tag_name) LIKE ? ESCAPE '\'`, containsPattern(tag)))
	}
	if anyTag := anyOf(tagPreds...); anyTag.sql != "" {
		// EXISTS keeps one row per template however many tags match.
		w.and(predicate{
			sql: `EXISTS (SELECT 1 FROM template_tags tt
				JOIN tags tg ON tg.tag_id = tt.tag_id
				WHERE tt.template_id = t.template_id AND ` + anyTag.sql + `)`,
			args: anyTag.args,
		})
	}
	clause, args := w.build()

	query := `SELECT ` + templateColumns + `
		FROM templates t
		LEFT JOIN category c ON c.category_id = t.category_id` + clause + `
		ORDER BY t.template_id`

	out := []model.Template{}
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			t, err := scanTemplate(rows)
			if err != nil {
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

func (s Store) GetTemplate(ctx context.Context, id int64) (model.Template, error) {
	var out model.Template
	err := s.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates t WHERE t.template_id = ?`, id)
		t, err := scanTemplate(row)
		if errors.Is(err, sql.ErrNoRows) {
			return errNotFound("template", id)
		}
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

// CreateTemplate stores a new template and returns its id. An unknown or
// blank category puts the template in Unassigned.
func (s Store) CreateTemplate(ctx context.Context, p CreateTemplateParams) (int64, error) {
	name := model.NormalizeName(p.Name)
	text := model.NormalizeText(p.Text)
	tags := model.NormalizeTags(p.Tags)

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		catID, ok, err := lookupCategoryID(ctx, tx, p.Category)
		if err != nil {
			return err
		}
		if !ok {
			catID, ok, err = lookupCategoryID(ctx, tx, model.UnassignedCategory)
			if err != nil {
				return err
			}
		}
		category := sql.NullInt64{Int64: catID, Valid: ok}

		res, err := tx.ExecContext(ctx, `INSERT INTO templates(template_name, template_text, category_id) VALUES(?, ?, ?)`, name, text, category)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		return attachTags(ctx, tx, id, tags)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateTemplate applies every non-nil field of p. It fails only when the
// template does not exist; a blank name or unknown category is skipped.
func (s Store) UpdateTemplate(ctx context.Context, id int64, p UpdateTemplateParams) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM templates WHERE template_id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errNotFound("template", id)
			}
			return err
		}

		if p.Name != nil {
			if name := model.NormalizeName(*p.Name); name != "" {
				if _, err := tx.ExecContext(ctx, `UPDATE templates SET template_name = ? WHERE template_id = ?`, name, id); err != nil {
					return err
				}
			}
		}
		if p.Text != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE templates SET template_text = ? WHERE template_id = ?`, model.NormalizeText(*p.Text), id); err != nil {
				return err
			}
		}
		if p.Category != nil {
			catID, ok, err := lookupCategoryID(ctx, tx, *p.Category)
			if err != nil {
				return err
			}
			if ok {
				if _, err := tx.ExecContext(ctx, `UPDATE templates SET category_id = ? WHERE template_id = ?`, catID, id); err != nil {
					return err
				}
			}
		}
		if p.Tags != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM template_tags WHERE template_id = ?`, id); err != nil {
				return err
			}
			if err := attachTags(ctx, tx, id, model.NormalizeTags(*p.Tags)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTemplate removes the template and its tag associations. Tag rows are
// kept. Deleting an unknown id is a no-op.
func (s Store) DeleteTemplate(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM template_tags WHERE template_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM templates WHERE template_id = ?`, id)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(r rowScanner) (model.Template, error) {
	var (
		t        model.Template
		category sql.NullInt64
		created  sql.NullString
	)
	if err := r.Scan(&t.ID, &t.Name, &t.Text, &category, &created); err != nil {
		return model.Template{}, err
	}
	if category.Valid {
		t.CategoryID = category.Int64
	}
	if created.Valid {
		t.CreatedAt = parseTimestamp(created.String)
	}
	return t, nil
}

// CURRENT_TIMESTAMP is stored as "YYYY-MM-DD HH:MM:SS" UTC; the driver may
// also hand TIMESTAMP columns back already formatted as RFC 3339.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
