package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeName trims s and upper-cases its first letter. It is used for
// template names, category names and tag names alike, and is idempotent.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// NormalizeText trims surrounding whitespace from a template body.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeTags normalizes every name, drops blanks and collapses duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = NormalizeName(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// SplitList splits a comma-separated list and trims each entry. Blank entries
// are dropped.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
