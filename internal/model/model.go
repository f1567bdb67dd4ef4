package model

import "time"

// UnassignedCategory is the fallback category every template lands in when it
// has no (or no longer has a) category.
const UnassignedCategory = "Unassigned"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Template struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`

	// CategoryID is 0 only when the row was read while its category reference
	// was NULL; triggers reassign such rows to Unassigned on the same write.
	CategoryID int64     `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type QuickCopyButton struct {
	ID   int64  `json:"id"`
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// TemplateFilter selects a subset of templates. Zero values are unconstrained.
type TemplateFilter struct {
	// Category is matched exactly against the category name.
	Category string `json:"category,omitempty"`
	// Name is a case-insensitive substring of the template name.
	Name string `json:"name,omitempty"`
	// Tags are case-insensitive substrings; a template matches when any of
	// them matches any of its tags.
	Tags []string `json:"tags,omitempty"`
}

func (f TemplateFilter) IsZero() bool {
	return f.Category == "" && f.Name == "" && len(f.Tags) == 0
}
