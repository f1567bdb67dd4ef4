package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestNormalizePane_ExactSize(t *testing.T) {
	out := normalizePane("short\na much longer line than fits", 10, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d: width %d, want 10 (%q)", i, w, ln)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis on cut line, got %q", lines[1])
	}
}

func TestRenderTabBar_KeepsSelectionVisible(t *testing.T) {
	tabs := []string{"All", "Unassigned", "Completeness", "Efficiency", "Style", "Documentation", "Links", "Other"}

	out := renderTabBar(tabs, 7, 30)
	if w := xansi.StringWidth(out); w != 30 {
		t.Fatalf("expected width 30, got %d", w)
	}
	if !strings.Contains(xansi.Strip(out), "Other") {
		t.Fatalf("selected tab scrolled out of view: %q", xansi.Strip(out))
	}

	out = renderTabBar(tabs, 0, 200)
	plain := xansi.Strip(out)
	for _, tab := range tabs {
		if !strings.Contains(plain, tab) {
			t.Fatalf("expected %q in wide tab bar: %q", tab, plain)
		}
	}
}

func TestRenderInputLine_StaysOneLine(t *testing.T) {
	out := renderInputLine(20, "abc\ndef")
	if strings.Contains(out, "\n") {
		t.Fatalf("input line wrapped: %q", out)
	}
}
