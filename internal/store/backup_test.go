package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"clipdeck/internal/model"
)

func TestBackup_CopyIsAUsableStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	mustCreate(t, s, CreateTemplateParams{Name: "kept", Text: "body", Category: "Links", Tags: []string{"x"}})

	backupDir := t.TempDir()
	dest := filepath.Join(backupDir, sqliteFileName)
	if err := s.Backup(ctx, dest); err != nil {
		t.Fatalf("backup: %v", err)
	}

	restored := Store{Dir: backupDir}
	got, err := restored.FindTemplates(ctx, model.TemplateFilter{Category: "Links"})
	if err != nil {
		t.Fatalf("find in backup: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Kept" {
		t.Fatalf("unexpected templates in backup: %+v", got)
	}
}

func TestBackup_RefusesToOverwrite(t *testing.T) {
	s := newTestStore(t)
	dest := filepath.Join(t.TempDir(), "existing.sqlite")
	if err := os.WriteFile(dest, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Backup(context.Background(), dest); err == nil {
		t.Fatalf("expected error when destination exists")
	}
}
