package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"clipdeck/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Path    string           `json:"path,omitempty"`
}

type DoctorReport struct {
	Stats  *Stats        `json:"stats,omitempty"`
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor inspects the store without modifying it. Problems are reported as
// issues rather than returned as errors.
func (s Store) Doctor(ctx context.Context) DoctorReport {
	if !s.Exists() {
		return DoctorReport{Issues: []DoctorIssue{{
			Level:   DoctorIssueLevelError,
			Code:    "store_missing",
			Message: "no template store; run `clipdeck init`",
			Path:    s.Path(),
		}}}
	}

	var issues []DoctorIssue
	add := func(level DoctorIssueLevel, code, msg string) {
		issues = append(issues, DoctorIssue{Level: level, Code: code, Message: msg, Path: s.Path()})
	}

	err := s.withDB(ctx, func(db *sql.DB) error {
		var res string
		if err := db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&res); err != nil {
			return err
		}
		if !strings.EqualFold(res, "ok") {
			add(DoctorIssueLevelError, "integrity_check", res)
		}

		var n int
		err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM category WHERE category_name = ?`, model.UnassignedCategory).Scan(&n)
		if err != nil {
			return err
		}
		if n == 0 {
			add(DoctorIssueLevelError, "unassigned_missing", "the Unassigned category is missing; run `clipdeck init`")
		}

		checks := []struct {
			level DoctorIssueLevel
			code  string
			query string
			msg   string
		}{
			{DoctorIssueLevelError, "template_without_category", `SELECT COUNT(1) FROM templates WHERE category_id IS NULL`, "templates without a category"},
			{DoctorIssueLevelError, "template_dangling_category", `SELECT COUNT(1) FROM templates t WHERE t.category_id IS NOT NULL AND NOT EXISTS (SELECT 1 FROM category c WHERE c.category_id = t.category_id)`, "templates referencing a missing category"},
			{DoctorIssueLevelError, "orphan_association", `SELECT COUNT(1) FROM template_tags tt WHERE NOT EXISTS (SELECT 1 FROM templates t WHERE t.template_id = tt.template_id) OR NOT EXISTS (SELECT 1 FROM tags tg WHERE tg.tag_id = tt.tag_id)`, "tag associations pointing at missing rows"},
			{DoctorIssueLevelWarn, "unused_tag", `SELECT COUNT(1) FROM tags tg WHERE NOT EXISTS (SELECT 1 FROM template_tags tt WHERE tt.tag_id = tg.tag_id)`, "tags not used by any template"},
		}
		for _, c := range checks {
			if err := db.QueryRowContext(ctx, c.query).Scan(&n); err != nil {
				return err
			}
			if n > 0 {
				add(c.level, c.code, fmt.Sprintf("%d %s", n, c.msg))
			}
		}
		return nil
	})
	if err != nil {
		code := "store_open_failed"
		var ie *IntegrityError
		if errors.As(err, &ie) {
			code = "store_" + ie.Op + "_failed"
		}
		return DoctorReport{Issues: []DoctorIssue{{Level: DoctorIssueLevelError, Code: code, Message: err.Error(), Path: s.Path()}}}
	}

	report := DoctorReport{Issues: issuesOrEmpty(issues)}
	if st, err := s.Stats(ctx); err == nil {
		report.Stats = &st
	}
	return report
}

func issuesOrEmpty(in []DoctorIssue) []DoctorIssue {
	if in == nil {
		return []DoctorIssue{}
	}
	return in
}
