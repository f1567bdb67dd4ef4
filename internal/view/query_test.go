package view

import (
	"reflect"
	"testing"

	"clipdeck/internal/model"
)

func TestParseQuery(t *testing.T) {
	cases := []struct {
		name string
		text string
		mode SearchMode
		want model.TemplateFilter
	}{
		{"empty tags", "", SearchTags, model.TemplateFilter{}},
		{"blank tags", "  ,  , ", SearchTags, model.TemplateFilter{}},
		{"tag list", " perf, doc ,,style", SearchTags, model.TemplateFilter{Tags: []string{"perf", "doc", "style"}}},
		{"name", "  loop ", SearchName, model.TemplateFilter{Name: "loop"}},
		{"name keeps commas", "a, b", SearchName, model.TemplateFilter{Name: "a, b"}},
		{"empty name", "   ", SearchName, model.TemplateFilter{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseQuery(tc.text, tc.mode)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseQuery(%q, %v) = %#v, want %#v", tc.text, tc.mode, got, tc.want)
			}
		})
	}
}

func TestBuildFilter_TabSelectsCategory(t *testing.T) {
	tabs := Tabs([]string{"Unassigned", "Style"})
	if !reflect.DeepEqual(tabs, []string{"All", "Unassigned", "Style"}) {
		t.Fatalf("unexpected tabs: %v", tabs)
	}

	got := BuildFilter(State{Tab: 0, Query: "perf"}, tabs)
	if got.Category != "" || !reflect.DeepEqual(got.Tags, []string{"perf"}) {
		t.Fatalf("All tab: unexpected filter %#v", got)
	}
	got = BuildFilter(State{Tab: 2, Query: "x", Mode: SearchName}, tabs)
	if got.Category != "Style" || got.Name != "x" || got.Tags != nil {
		t.Fatalf("Style tab: unexpected filter %#v", got)
	}
	// Out of range tabs clamp to the last tab.
	got = BuildFilter(State{Tab: 9}, tabs)
	if got.Category != "Style" {
		t.Fatalf("expected clamped tab to select Style, got %#v", got)
	}
}

func TestSearchModeRoundTrip(t *testing.T) {
	for _, m := range []SearchMode{SearchTags, SearchName} {
		if got := ParseSearchMode(m.String()); got != m {
			t.Fatalf("round trip %v -> %q -> %v", m, m.String(), got)
		}
	}
	if ParseSearchMode("bogus") != SearchTags {
		t.Fatalf("unknown mode should fall back to tags")
	}
}
