package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backup writes a consistent copy of the database to dest. dest must not
// exist yet.
func (s Store) Backup(ctx context.Context, dest string) error {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return errors.New("backup: missing destination")
	}
	dest = filepath.Clean(dest)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup: %s already exists", dest)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		// VACUUM INTO snapshots the database without the WAL sidecar files.
		_, err := db.ExecContext(ctx, `VACUUM INTO ?`, dest)
		return err
	})
}
