package store

import (
	"context"
	"database/sql"
	"errors"

	"clipdeck/internal/model"
)

// ListCategories returns category names in storage order.
func (s Store) ListCategories(ctx context.Context) ([]string, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Name)
	}
	return out, nil
}

func (s Store) Categories(ctx context.Context) ([]model.Category, error) {
	out := []model.Category{}
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT category_id, category_name FROM category ORDER BY category_id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var c model.Category
			if err := rows.Scan(&c.ID, &c.Name); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory adds a category (capitalized) and returns its id. Adding an
// existing name returns the existing id.
func (s Store) CreateCategory(ctx context.Context, name string) (int64, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return 0, errors.New("category name is empty")
	}
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO category(category_name) VALUES(?)`, name); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT category_id FROM category WHERE category_name = ?`, name).Scan(&id)
	})
	return id, err
}

// DeleteCategory removes a category. Its templates move to Unassigned.
func (s Store) DeleteCategory(ctx context.Context, name string) error {
	name = model.NormalizeName(name)
	if name == model.UnassignedCategory {
		return ErrProtectedCategory
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM category WHERE category_name = ?`, name)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errNotFound("category", name)
		}
		return nil
	})
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// lookupCategoryID resolves a category by its normalized name. ok is false for
// blank or unknown names.
func lookupCategoryID(ctx context.Context, q queryRower, name string) (id int64, ok bool, err error) {
	name = model.NormalizeName(name)
	if name == "" {
		return 0, false, nil
	}
	err = q.QueryRowContext(ctx, `SELECT category_id FROM category WHERE category_name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
