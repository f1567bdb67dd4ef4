package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const sqliteFileName = "clipdeck.sqlite"

// Store is the template repository. It holds no open handles: every operation
// opens the database file, does its work and closes it again.
type Store struct {
	Dir string
}

func (s Store) Path() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

// Exists reports whether the database file has been created by Init.
func (s Store) Exists() bool {
	st, err := os.Stat(s.Path())
	return err == nil && st.Mode().IsRegular()
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

// Init creates the schema and seed rows. It is safe to call on an existing
// store: tables, triggers and seed rows are only created when absent.
func (s Store) Init(ctx context.Context) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	db, err := s.openSQLite(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := seed(ctx, db); err != nil {
		return &IntegrityError{Op: "seed", Err: err}
	}
	return nil
}

func (s Store) dsn() string {
	q := url.Values{}
	// Pragmas go through the DSN so every pooled connection gets them.
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + filepath.ToSlash(s.Path()) + "?" + q.Encode()
}

func (s Store) openSQLite(ctx context.Context, create bool) (*sql.DB, error) {
	if !create && !s.Exists() {
		return nil, ErrNoStore
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return nil, err
	}
	// One connection keeps multi-statement writes and pragmas on the same handle.
	db.SetMaxOpenConns(1)
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, &IntegrityError{Op: "migrate", Err: err}
	}
	return db, nil
}

// withTx runs fn inside a transaction on a freshly opened connection.
func (s Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := s.openSQLite(ctx, false)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// withDB runs fn against a freshly opened connection.
func (s Store) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	db, err := s.openSQLite(ctx, false)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

type Stats struct {
	Path         string `json:"path"`
	Categories   int    `json:"categories"`
	Templates    int    `json:"templates"`
	Tags         int    `json:"tags"`
	TemplateTags int    `json:"templateTags"`
	Buttons      int    `json:"quickCopyButtons"`
}

func (s Store) Stats(ctx context.Context) (Stats, error) {
	out := Stats{Path: s.Path()}
	err := s.withDB(ctx, func(db *sql.DB) error {
		counts := []struct {
			table string
			dst   *int
		}{
			{"category", &out.Categories},
			{"templates", &out.Templates},
			{"tags", &out.Tags},
			{"template_tags", &out.TemplateTags},
			{"quick_copy_buttons", &out.Buttons},
		}
		for _, c := range counts {
			// Table names are constants above, never user input.
			if err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(1) FROM %s`, c.table)).Scan(c.dst); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}
