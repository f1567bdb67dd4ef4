package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"clipdeck/internal/view"
)

// templateItem is one row of the template list.
type templateItem struct {
	row    view.Row
	marked bool
}

func (i templateItem) Title() string { return i.row.Label }
func (i templateItem) Description() string {
	return strings.Join(i.row.Tags, ", ")
}
func (i templateItem) FilterValue() string { return i.row.Label }

// templateDelegate renders one line per template: mark, label, then tags in
// a muted style when there is room.
type templateDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	mark     lipgloss.Style
}

func newTemplateDelegate() templateDelegate {
	return templateDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		mark: lipgloss.NewStyle().Foreground(colorMarkFg).Bold(true),
	}
}

func (d templateDelegate) Height() int  { return 1 }
func (d templateDelegate) Spacing() int { return 0 }
func (d templateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d templateDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}
	it, ok := item.(templateItem)
	if !ok {
		fmt.Fprint(w, fitWidth(fmt.Sprint(item), contentW))
		return
	}

	prefix := "  "
	if it.marked {
		prefix = d.mark.Render("● ")
	}
	line := prefix + it.row.Label
	if tags := it.Description(); tags != "" {
		room := contentW - xansi.StringWidth(line) - 2
		if room > 4 {
			line += "  " + styleMuted().Render(xansi.Truncate(tags, room, "…"))
		}
	}
	line = fitWidth(line, contentW)

	if index == m.Index() {
		// Strip inner styling so the selection background is uniform.
		fmt.Fprint(w, d.selected.Render(xansi.Strip(line)))
		return
	}
	fmt.Fprint(w, d.normal.Render(line))
}

func newTemplateList() list.Model {
	l := list.New(nil, newTemplateDelegate(), 0, 0)
	l.Title = "Templates"
	// The app renders its own chrome, and filtering goes through the search line.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("template", "templates")

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}
