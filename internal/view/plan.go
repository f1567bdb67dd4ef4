package view

import (
	"strings"

	"clipdeck/internal/model"
)

type Row struct {
	// Index is the zero-based position in the plan.
	Index    int
	Template model.Template
	Tags     []string
	Label    string
}

// RenderPlan is everything needed to draw one frame of the template view.
type RenderPlan struct {
	State State
	Tabs  []string
	Rows  []Row
	Empty bool
}

// Category returns the category of the selected tab, "" for All.
func (p RenderPlan) Category() string {
	return TabCategory(p.State.Tab, p.Tabs)
}

// Plan builds a fresh render plan from state and query results. The tab
// index is kept as given unless it falls outside tabs.
func Plan(st State, tabs []string, templates []model.Template, tagsByID map[int64][]string) RenderPlan {
	st.Tab = clampTab(st.Tab, tabs)
	rows := make([]Row, 0, len(templates))
	for i, t := range templates {
		tags := tagsByID[t.ID]
		if tags == nil {
			tags = []string{}
		}
		rows = append(rows, Row{
			Index:    i,
			Template: t,
			Tags:     tags,
			Label:    rowLabel(t),
		})
	}
	return RenderPlan{
		State: st,
		Tabs:  append([]string(nil), tabs...),
		Rows:  rows,
		Empty: len(rows) == 0,
	}
}

func rowLabel(t model.Template) string {
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	// Fall back to the first line of the body.
	text := strings.TrimSpace(t.Text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if text == "" {
		return "(untitled)"
	}
	return text
}

// JoinForClipboard concatenates several template bodies into one clipboard
// payload. An empty sep means newline.
func JoinForClipboard(texts []string, sep string) string {
	if sep == "" {
		sep = "\n"
	}
	return strings.Join(texts, sep)
}
