package store

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"clipdeck/internal/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s := Store{Dir: t.TempDir()}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	return s
}

func mustCreate(t *testing.T, s Store, p CreateTemplateParams) int64 {
	t.Helper()
	id, err := s.CreateTemplate(context.Background(), p)
	if err != nil {
		t.Fatalf("create template %q: %v", p.Name, err)
	}
	return id
}

func templateNames(ts []model.Template) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Name)
	}
	return out
}

func categoryID(t *testing.T, s Store, name string) int64 {
	t.Helper()
	cats, err := s.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not found in %+v", name, cats)
	return 0
}

func countRows(t *testing.T, s Store, query string, args ...any) int {
	t.Helper()
	var n int
	err := s.withDB(context.Background(), func(db *sql.DB) error {
		return db.QueryRowContext(context.Background(), query, args...).Scan(&n)
	})
	if err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

func TestCreateTemplate_NormalizesAndLinksTags(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := mustCreate(t, s, CreateTemplateParams{Name: "my tpl", Text: " hello \n", Category: "Style", Tags: []string{"a", "b"}})

	got, err := s.FindTemplates(ctx, model.TemplateFilter{Category: "Style"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 template in Style, got %d: %+v", len(got), got)
	}
	if got[0].ID != id || got[0].Name != "My tpl" || got[0].Text != "hello" {
		t.Fatalf("unexpected template: %+v", got[0])
	}
	if got[0].CategoryID != categoryID(t, s, "Style") {
		t.Fatalf("expected Style category id, got %d", got[0].CategoryID)
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	tags, err := s.ListTags(ctx, id)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(tags, want) {
		t.Fatalf("tags: got %v want %v", tags, want)
	}
}

func TestCreateTemplate_TagsAreGloballyDeduplicated(t *testing.T) {
	s := newTestStore(t)

	mustCreate(t, s, CreateTemplateParams{Name: "one", Text: "x", Tags: []string{"perf"}})
	mustCreate(t, s, CreateTemplateParams{Name: "two", Text: "y", Tags: []string{"  perf ", "Perf"}})

	if n := countRows(t, s, `SELECT COUNT(1) FROM tags WHERE tag_name = ?`, "Perf"); n != 1 {
		t.Fatalf("expected exactly one Perf tag row, got %d", n)
	}
	if n := countRows(t, s, `SELECT COUNT(1) FROM template_tags`); n != 2 {
		t.Fatalf("expected 2 associations, got %d", n)
	}
}

func TestDeleteTemplate_CascadesAssociationsKeepsTags(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := mustCreate(t, s, CreateTemplateParams{Name: "a", Text: "x", Tags: []string{"shared", "only-a"}})
	b := mustCreate(t, s, CreateTemplateParams{Name: "b", Text: "y", Tags: []string{"shared"}})

	if err := s.DeleteTemplate(ctx, a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := countRows(t, s, `SELECT COUNT(1) FROM template_tags WHERE template_id = ?`, a); n != 0 {
		t.Fatalf("expected associations of deleted template to be gone, got %d", n)
	}
	if n := countRows(t, s, `SELECT COUNT(1) FROM tags`); n != 2 {
		t.Fatalf("expected tag rows to survive, got %d", n)
	}
	tags, err := s.ListTags(ctx, b)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"Shared"}) {
		t.Fatalf("unexpected tags for b: %v", tags)
	}

	// Idempotent.
	if err := s.DeleteTemplate(ctx, a); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if err := s.DeleteTemplate(ctx, 9999); err != nil {
		t.Fatalf("deleting unknown id should be a no-op: %v", err)
	}
}

func TestCategoryRemoval_FallsBackToUnassigned(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.CreateCategory(ctx, "temporary"); err != nil {
		t.Fatalf("create category: %v", err)
	}
	id := mustCreate(t, s, CreateTemplateParams{Name: "t", Text: "x", Category: "Temporary"})

	if err := s.DeleteCategory(ctx, "Temporary"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	got, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CategoryID != categoryID(t, s, model.UnassignedCategory) {
		t.Fatalf("expected Unassigned after category removal, got %d", got.CategoryID)
	}
}

func TestCategoryRemoval_RawDeleteAndNullUpdateFallBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	unassigned := categoryID(t, s, model.UnassignedCategory)

	a := mustCreate(t, s, CreateTemplateParams{Name: "a", Text: "x", Category: "Links"})
	b := mustCreate(t, s, CreateTemplateParams{Name: "b", Text: "y", Category: "Other"})

	err := s.withDB(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, `DELETE FROM category WHERE category_name = 'Links'`); err != nil {
			return err
		}
		_, err := db.ExecContext(ctx, `UPDATE templates SET category_id = NULL WHERE template_id = ?`, b)
		return err
	})
	if err != nil {
		t.Fatalf("raw writes: %v", err)
	}

	for _, id := range []int64{a, b} {
		got, err := s.GetTemplate(ctx, id)
		if err != nil {
			t.Fatalf("get %d: %v", id, err)
		}
		if got.CategoryID != unassigned {
			t.Fatalf("template %d: expected Unassigned (%d), got %d", id, unassigned, got.CategoryID)
		}
	}
	if n := countRows(t, s, `SELECT COUNT(1) FROM templates WHERE category_id IS NULL`); n != 0 {
		t.Fatalf("expected no NULL categories, got %d", n)
	}
}

func TestDeleteCategory_UnassignedIsProtected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.DeleteCategory(ctx, "unassigned"); !errors.Is(err, ErrProtectedCategory) {
		t.Fatalf("expected ErrProtectedCategory, got %v", err)
	}
	err := s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `DELETE FROM category WHERE category_name = 'Unassigned'`)
		return err
	})
	if err == nil {
		t.Fatalf("expected raw delete of Unassigned to abort")
	}
	if err := s.DeleteCategory(ctx, "Nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown category, got %v", err)
	}
}

func TestFindTemplates_CategoryFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustCreate(t, s, CreateTemplateParams{Name: "s1", Text: "x", Category: "Style"})
	mustCreate(t, s, CreateTemplateParams{Name: "e1", Text: "x", Category: "Efficiency"})
	mustCreate(t, s, CreateTemplateParams{Name: "s2", Text: "x", Category: "style"})

	got, err := s.FindTemplates(ctx, model.TemplateFilter{Category: "Style"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	styleID := categoryID(t, s, "Style")
	for _, tpl := range got {
		if tpl.CategoryID != styleID {
			t.Fatalf("non-Style template returned: %+v", tpl)
		}
	}
	if want := []string{"S1", "S2"}; !reflect.DeepEqual(templateNames(got), want) {
		t.Fatalf("got %v want %v", templateNames(got), want)
	}

	all, err := s.FindTemplates(ctx, model.TemplateFilter{})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected unconstrained filter to return all 3, got %d", len(all))
	}
}

func TestFindTemplates_TagsAreORCombinedWithoutDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustCreate(t, s, CreateTemplateParams{Name: "both", Text: "x", Tags: []string{"performance", "docs"}})
	mustCreate(t, s, CreateTemplateParams{Name: "perf only", Text: "x", Tags: []string{"perf"}})
	mustCreate(t, s, CreateTemplateParams{Name: "doc only", Text: "x", Tags: []string{"Documentation"}})
	mustCreate(t, s, CreateTemplateParams{Name: "neither", Text: "x", Tags: []string{"style"}})
	mustCreate(t, s, CreateTemplateParams{Name: "untagged", Text: "x"})

	got, err := s.FindTemplates(ctx, model.TemplateFilter{Tags: []string{"perf", "DOC"}})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if want := []string{"Both", "Perf only", "Doc only"}; !reflect.DeepEqual(templateNames(got), want) {
		t.Fatalf("got %v want %v", templateNames(got), want)
	}
}

func TestFindTemplates_NameSubstringCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustCreate(t, s, CreateTemplateParams{Name: "Missing docstring", Text: "x"})
	mustCreate(t, s, CreateTemplateParams{Name: "Loop could be a comprehension", Text: "x"})
	mustCreate(t, s, CreateTemplateParams{Name: "100% coverage", Text: "x"})
	mustCreate(t, s, CreateTemplateParams{Name: "1000 coverage", Text: "x"})

	got, err := s.FindTemplates(ctx, model.TemplateFilter{Name: "DOC"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if want := []string{"Missing docstring"}; !reflect.DeepEqual(templateNames(got), want) {
		t.Fatalf("got %v want %v", templateNames(got), want)
	}

	// LIKE wildcards in input are literal.
	got, err = s.FindTemplates(ctx, model.TemplateFilter{Name: "0%"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if want := []string{"100% coverage"}; !reflect.DeepEqual(templateNames(got), want) {
		t.Fatalf("got %v want %v", templateNames(got), want)
	}
}

// Name and Tags are AND-combined. The original tool ignored tags whenever a
// name was given; this pins the combined behaviour.
func TestFindTemplates_NameAndTagsCombine(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustCreate(t, s, CreateTemplateParams{Name: "slow loop", Text: "x", Tags: []string{"perf"}})
	mustCreate(t, s, CreateTemplateParams{Name: "slow query", Text: "x", Tags: []string{"db"}})
	mustCreate(t, s, CreateTemplateParams{Name: "fast path", Text: "x", Tags: []string{"perf"}})

	got, err := s.FindTemplates(ctx, model.TemplateFilter{Name: "slow", Tags: []string{"perf"}})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if want := []string{"Slow loop"}; !reflect.DeepEqual(templateNames(got), want) {
		t.Fatalf("got %v want %v", templateNames(got), want)
	}

	got, err = s.FindTemplates(ctx, model.TemplateFilter{Category: "Unassigned", Name: "slow", Tags: []string{"db", "perf"}})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if want := []string{"Slow loop", "Slow query"}; !reflect.DeepEqual(templateNames(got), want) {
		t.Fatalf("got %v want %v", templateNames(got), want)
	}
}

func TestFindTemplates_NoMatchIsEmptyNotError(t *testing.T) {
	s := newTestStore(t)
	got, err := s.FindTemplates(context.Background(), model.TemplateFilter{Category: "Does not exist"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListTags_UntaggedTemplateIsEmpty(t *testing.T) {
	s := newTestStore(t)
	id := mustCreate(t, s, CreateTemplateParams{Name: "plain", Text: "x"})
	for _, tid := range []int64{id, 12345} {
		tags, err := s.ListTags(context.Background(), tid)
		if err != nil {
			t.Fatalf("list tags %d: %v", tid, err)
		}
		if len(tags) != 0 {
			t.Fatalf("expected no tags for %d, got %v", tid, tags)
		}
	}
}

func TestUpdateTemplate_PartialUpdateLeavesOtherFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := mustCreate(t, s, CreateTemplateParams{Name: "old", Text: "body", Category: "Links", Tags: []string{"x", "y"}})
	before, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	name := "foo"
	if err := s.UpdateTemplate(ctx, id, UpdateTemplateParams{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Name != "Foo" {
		t.Fatalf("expected normalized name Foo, got %q", after.Name)
	}
	if after.Text != before.Text || after.CategoryID != before.CategoryID {
		t.Fatalf("unexpected changes: before=%+v after=%+v", before, after)
	}
	tags, err := s.ListTags(ctx, id)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"X", "Y"}) {
		t.Fatalf("tags changed: %v", tags)
	}
}

func TestUpdateTemplate_ReplacesTagsAndCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := mustCreate(t, s, CreateTemplateParams{Name: "t", Text: "x", Category: "Links", Tags: []string{"old"}})

	cat := "style"
	tags := []string{"new", "Newer", "new"}
	text := "  updated  "
	if err := s.UpdateTemplate(ctx, id, UpdateTemplateParams{Category: &cat, Tags: &tags, Text: &text}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CategoryID != categoryID(t, s, "Style") || got.Text != "updated" {
		t.Fatalf("unexpected template after update: %+v", got)
	}
	gotTags, err := s.ListTags(ctx, id)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if !reflect.DeepEqual(gotTags, []string{"New", "Newer"}) {
		t.Fatalf("expected tags replaced, got %v", gotTags)
	}

	// An explicit empty list clears the tags.
	empty := []string{}
	if err := s.UpdateTemplate(ctx, id, UpdateTemplateParams{Tags: &empty}); err != nil {
		t.Fatalf("update: %v", err)
	}
	gotTags, err = s.ListTags(ctx, id)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(gotTags) != 0 {
		t.Fatalf("expected tags cleared, got %v", gotTags)
	}
}

func TestUpdateTemplate_UnknownCategoryIsSkipped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := mustCreate(t, s, CreateTemplateParams{Name: "t", Text: "x", Category: "Links"})

	cat := "Nonexistent"
	if err := s.UpdateTemplate(ctx, id, UpdateTemplateParams{Category: &cat}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CategoryID != categoryID(t, s, "Links") {
		t.Fatalf("expected category to stay Links, got %d", got.CategoryID)
	}
}

func TestCreateTemplate_UnknownCategoryGoesToUnassigned(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	unassigned := categoryID(t, s, model.UnassignedCategory)

	for _, cat := range []string{"Nonexistent", "", "   "} {
		id := mustCreate(t, s, CreateTemplateParams{Name: "t", Text: "x", Category: cat})
		got, err := s.GetTemplate(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.CategoryID != unassigned {
			t.Fatalf("category %q: expected Unassigned, got %d", cat, got.CategoryID)
		}
	}
}

func TestUpdateTemplate_MissingIDFails(t *testing.T) {
	s := newTestStore(t)
	name := "x"
	err := s.UpdateTemplate(context.Background(), 42, UpdateTemplateParams{Name: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetTemplate(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
}

func TestTagsByTemplate(t *testing.T) {
	s := newTestStore(t)
	a := mustCreate(t, s, CreateTemplateParams{Name: "a", Text: "x", Tags: []string{"one", "two"}})
	mustCreate(t, s, CreateTemplateParams{Name: "b", Text: "x"})

	got, err := s.TagsByTemplate(context.Background())
	if err != nil {
		t.Fatalf("tags by template: %v", err)
	}
	want := map[int64][]string{a: {"One", "Two"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFindTemplates_NonASCIICaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := mustCreate(t, s, CreateTemplateParams{Name: "über notes", Text: "x", Tags: []string{"état"}})
	mustCreate(t, s, CreateTemplateParams{Name: "plain", Text: "y", Tags: []string{"other"}})

	cases := []struct {
		name string
		f    model.TemplateFilter
	}{
		{"name as typed", model.TemplateFilter{Name: "über"}},
		{"name upper", model.TemplateFilter{Name: "ÜBER"}},
		{"name stored form", model.TemplateFilter{Name: "Über notes"}},
		{"tag as typed", model.TemplateFilter{Tags: []string{"état"}}},
		{"tag upper", model.TemplateFilter{Tags: []string{"ÉTAT"}}},
		{"name and tag", model.TemplateFilter{Name: "ÜBER", Tags: []string{"ét"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.FindTemplates(ctx, tc.f)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(got) != 1 || got[0].ID != id {
				t.Fatalf("expected only template %d, got %+v", id, got)
			}
		})
	}
}
