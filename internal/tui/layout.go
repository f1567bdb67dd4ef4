package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// fitWidth cuts or pads one line to exactly width columns (ANSI-aware).
func fitWidth(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the cost of StringWidth on pathological lines.
	if len(ln) > 8192 {
		ln = xansi.Cut(ln, 0, width)
	}
	w := xansi.StringWidth(ln)
	if w > width {
		if width == 1 {
			ln = xansi.Cut(ln, 0, 1)
		} else {
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// normalizePane forces s to exactly width x height so that panes joined with
// lipgloss.JoinHorizontal stay aligned.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i := range lines {
		lines[i] = fitWidth(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// renderTabBar draws the category tabs, highlighting the selected one. When
// the bar is wider than width, it scrolls so the selection stays visible.
func renderTabBar(tabs []string, selected, width int) string {
	active := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Bold(true)
	inactive := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)

	rendered := make([]string, len(tabs))
	for i, tab := range tabs {
		if i == selected {
			rendered[i] = active.Render(tab)
		} else {
			rendered[i] = inactive.Render(tab)
		}
	}

	start := 0
	for start < selected {
		w := 0
		for _, r := range rendered[start : selected+1] {
			w += xansi.StringWidth(r) + 1
		}
		if w <= width {
			break
		}
		start++
	}
	line := strings.Join(rendered[start:], " ")
	if start > 0 {
		line = styleMuted().Render("‹ ") + line
	}
	return fitWidth(line, width)
}

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderModalBox frames content with a title bar. The box is sized from the
// terminal width; callers center it.
func renderModalBox(width int, title, content string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().
		Width(bodyW).
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Render(" " + title)
	body := lipgloss.NewStyle().Width(bodyW).Render(content)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Render(header + "\n\n" + body)
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// A text input must stay one visual line even if the view carries a newline.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate styling so a cut sequence does not bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
