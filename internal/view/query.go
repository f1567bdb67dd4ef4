// Package view turns search-line and tab state into template queries and
// render plans, and owns the edit-form workflow. It has no terminal
// dependency; the TUI drives it and the tests drive it directly.
package view

import (
	"strings"

	"clipdeck/internal/model"
)

// AllTab is the first tab; it applies no category constraint.
const AllTab = "All"

type SearchMode int

const (
	// SearchTags treats the query as a comma separated tag list.
	SearchTags SearchMode = iota
	// SearchName treats the query as a name substring.
	SearchName
)

func (m SearchMode) String() string {
	if m == SearchName {
		return "name"
	}
	return "tags"
}

// ParseSearchMode is the inverse of String. Unknown values fall back to tags.
func ParseSearchMode(s string) SearchMode {
	if strings.EqualFold(strings.TrimSpace(s), "name") {
		return SearchName
	}
	return SearchTags
}

// ParseQuery maps the search line to the Name/Tags part of a filter. Empty
// text means no constraint.
func ParseQuery(text string, mode SearchMode) model.TemplateFilter {
	var f model.TemplateFilter
	switch mode {
	case SearchName:
		f.Name = strings.TrimSpace(text)
	default:
		if tags := model.SplitList(text); len(tags) > 0 {
			f.Tags = tags
		}
	}
	return f
}

// State is the complete user-facing filter state. It is passed into render
// calls and returned from them.
type State struct {
	Tab   int
	Query string
	Mode  SearchMode
}

// Tabs returns the tab labels: All followed by the categories in order.
func Tabs(categories []string) []string {
	out := make([]string, 0, len(categories)+1)
	out = append(out, AllTab)
	return append(out, categories...)
}

func clampTab(tab int, tabs []string) int {
	if tab < 0 || len(tabs) == 0 {
		return 0
	}
	if tab >= len(tabs) {
		return len(tabs) - 1
	}
	return tab
}

// TabCategory returns the category shown by tab, or "" for All.
func TabCategory(tab int, tabs []string) string {
	tab = clampTab(tab, tabs)
	if tab == 0 || tab >= len(tabs) {
		return ""
	}
	return tabs[tab]
}

// BuildFilter combines the selected tab and the parsed query.
func BuildFilter(st State, tabs []string) model.TemplateFilter {
	f := ParseQuery(st.Query, st.Mode)
	f.Category = TabCategory(st.Tab, tabs)
	return f
}
