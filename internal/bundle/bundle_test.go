package bundle

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"clipdeck/internal/model"
	"clipdeck/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func TestExportImport_CopiesTemplatesBetweenStores(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	if _, err := src.CreateCategory(ctx, "snippets"); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := src.CreateTemplate(ctx, store.CreateTemplateParams{Name: "slow loop", Text: "Hoist the lookup.", Category: "Efficiency", Tags: []string{"perf"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := src.CreateTemplate(ctx, store.CreateTemplateParams{Name: "sig", Text: "Best,\nMe", Category: "Snippets", Tags: []string{"mail", "short"}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	b, err := Export(ctx, src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	dst := newTestStore(t)
	res, err := Import(ctx, dst, decoded)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.Templates) != 2 {
		t.Fatalf("expected 2 imported templates, got %+v", res)
	}

	again, err := Export(ctx, dst)
	if err != nil {
		t.Fatalf("export dst: %v", err)
	}
	if !reflect.DeepEqual(again.Templates, b.Templates) {
		t.Fatalf("templates differ after round trip:\n got %+v\nwant %+v", again.Templates, b.Templates)
	}
	if !contains(again.Categories, "Snippets") {
		t.Fatalf("expected Snippets category in destination, got %v", again.Categories)
	}
}

func TestImport_NormalizesAndDedupsTags(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	in := "templates:\n  - name: greeting\n    text: '  hello  '\n    category: nowhere\n    tags: [a, A, ' a ']\n"
	b, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	res, err := Import(ctx, s, b)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := s.GetTemplate(ctx, res.Templates[0])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Greeting" || got.Text != "hello" {
		t.Fatalf("expected normalized template, got %+v", got)
	}
	tags, err := s.ListTags(ctx, got.ID)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"A"}) {
		t.Fatalf("expected deduplicated tags [A], got %v", tags)
	}
	un, err := s.FindTemplates(ctx, model.TemplateFilter{Category: model.UnassignedCategory})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(un) != 1 {
		t.Fatalf("unknown category should land in Unassigned, got %+v", un)
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "empty"},
		{name: "missing text", in: "templates:\n  - name: x\n", want: "text is required"},
		{name: "unknown key", in: "templates:\n  - name: x\n    text: y\n    colour: red\n", want: "colour"},
		{name: "future version", in: "version: 2\ntemplates: []\n", want: "unsupported bundle version"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.in))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
