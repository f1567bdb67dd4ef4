package publish

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"clipdeck/internal/bundle"
	"clipdeck/internal/model"
)

// Group is one category page.
type Group struct {
	Category string
	// File is the page's file name, unique within one publish run.
	File      string
	Templates []bundle.Entry
}

// GroupByCategory splits b into pages ordered by category name, Unassigned
// last. Categories without templates are dropped.
func GroupByCategory(b bundle.Bundle) []Group {
	byName := map[string][]bundle.Entry{}
	for _, e := range b.Templates {
		c := strings.TrimSpace(e.Category)
		if c == "" {
			c = model.UnassignedCategory
		}
		byName[c] = append(byName[c], e)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		x, y := names[i], names[j]
		if (x == model.UnassignedCategory) != (y == model.UnassignedCategory) {
			return y == model.UnassignedCategory
		}
		return x < y
	})

	out := make([]Group, 0, len(names))
	used := map[string]bool{"index": true}
	for _, name := range names {
		stem := Slug(name)
		for i := 2; used[stem]; i++ {
			stem = Slug(name) + "-" + strconv.Itoa(i)
		}
		used[stem] = true
		out = append(out, Group{Category: name, File: stem + ".md", Templates: byName[name]})
	}
	return out
}

func RenderCategoryMarkdown(g Group) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + g.Category)
	for _, e := range g.Templates {
		writeLn("")
		writeLn("## " + strings.TrimSpace(e.Name))
		writeLn("")
		if len(e.Tags) > 0 {
			writeLn("Tags: " + strings.Join(e.Tags, ", "))
			writeLn("")
		}
		fence := fenceFor(e.Text)
		writeLn(fence)
		writeLn(e.Text)
		writeLn(fence)
	}
	return buf.String()
}

func RenderIndexMarkdown(groups []Group) string {
	var buf bytes.Buffer
	buf.WriteString("# Templates\n\n")
	if len(groups) == 0 {
		buf.WriteString("(none)\n")
		return buf.String()
	}
	for _, g := range groups {
		buf.WriteString("- [" + g.Category + "](" + g.File + ") (" + strconv.Itoa(len(g.Templates)) + ")\n")
	}
	return buf.String()
}

// fenceFor returns a backtick fence longer than any backtick run in text.
func fenceFor(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}

// Slug maps a category name to a file name stem.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "category"
	}
	return out
}
