package store

import (
	"context"
	"database/sql"
	"errors"

	"clipdeck/internal/model"
)

func (s Store) ListQuickCopyButtons(ctx context.Context) ([]model.QuickCopyButton, error) {
	out := []model.QuickCopyButton{}
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT button_id, button_icon, button_text FROM quick_copy_buttons ORDER BY button_id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var b model.QuickCopyButton
			if err := rows.Scan(&b.ID, &b.Icon, &b.Text); err != nil {
				return err
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s Store) GetQuickCopyButton(ctx context.Context, id int64) (model.QuickCopyButton, error) {
	var b model.QuickCopyButton
	err := s.withDB(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx, `SELECT button_id, button_icon, button_text FROM quick_copy_buttons WHERE button_id = ?`, id).
			Scan(&b.ID, &b.Icon, &b.Text)
		if errors.Is(err, sql.ErrNoRows) {
			return errNotFound("quick copy button", id)
		}
		return err
	})
	return b, err
}
