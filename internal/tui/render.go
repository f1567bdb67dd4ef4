package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"clipdeck/internal/view"
)

func (m appModel) View() string {
	switch m.focus {
	case focusForm:
		title := "New template"
		if m.form.Mode() == view.FormEditing {
			title = fmt.Sprintf("Edit template #%d", m.form.EditingID())
		}
		box := m.editor.render(m.width, title, m.categories(), m.formErr)
		return m.overlay(box, m.keys.formHelp(m.form.Mode() == view.FormEditing))
	case focusConfirm:
		body := fmt.Sprintf("Delete template %q? This cannot be undone.", m.form.Input.Name)
		box := renderConfirmModal(m.width, "Delete template", body, "Delete", "Cancel", m.confirmFocus)
		return m.overlay(box, nil)
	}
	return m.mainView()
}

func (m appModel) categories() []string {
	tabs := m.ctrl.Tabs()
	if len(tabs) <= 1 {
		return nil
	}
	return tabs[1:]
}

// overlay centers a modal box over the screen, with the help line below.
func (m appModel) overlay(box string, bindings []key.Binding) string {
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	placed := lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, box)
	return placed + "\n" + m.help.ShortHelpView(bindings)
}

func (m appModel) mainView() string {
	plan := m.ctrl.Plan()
	listW, bodyH := m.paneSizes()

	lines := []string{
		renderTabBar(plan.Tabs, plan.State.Tab, m.width),
		m.searchLine(),
	}

	listPane := m.list.View()
	if plan.Empty {
		listPane = styleMuted().Render("  no templates match")
	}
	body := normalizePane(listPane, listW, bodyH)
	if previewW := m.width - listW - 1; listW < m.width && previewW > 0 {
		sep := styleMuted().Render(strings.TrimRight(strings.Repeat("│\n", bodyH), "\n"))
		preview := normalizePane(m.previewPane(previewW), previewW, bodyH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sep, preview)
	}
	lines = append(lines, body, m.paletteLine(), m.minibufferLine())

	bindings := m.keys.listHelp()
	if m.focus == focusSearch {
		bindings = m.keys.searchHelp()
	}
	lines = append(lines, m.help.ShortHelpView(bindings))
	return strings.Join(lines, "\n")
}

func (m appModel) searchLine() string {
	mode := m.ctrl.Mode().String()
	label := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(fmt.Sprintf("%-5s", mode))
	if m.focus != focusSearch {
		label = styleMuted().Render(fmt.Sprintf("%-5s", mode))
	}
	inputW := m.width - 8
	return fitWidth(label+" "+renderInputLine(inputW, m.search.View()), m.width)
}

func (m appModel) previewPane(width int) string {
	row, ok := m.selected()
	if !ok {
		return ""
	}
	t := row.Template
	head := lipgloss.NewStyle().Bold(true).Render(t.Name)
	meta := []string{fmt.Sprintf("#%d", t.ID)}
	if len(row.Tags) > 0 {
		meta = append(meta, strings.Join(row.Tags, ", "))
	}
	if !t.CreatedAt.IsZero() {
		meta = append(meta, t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return strings.Join([]string{
		head,
		styleMuted().Render(strings.Join(meta, " · ")),
		"",
		renderPreview(t.Text, width),
	}, "\n")
}

func (m appModel) paletteLine() string {
	if len(m.buttons) == 0 {
		return ""
	}
	keyStyle := styleMuted()
	parts := make([]string, 0, len(m.buttons))
	for i, b := range m.buttons {
		if i >= len(paletteKeys) {
			break
		}
		parts = append(parts, keyStyle.Render(paletteKeys[i])+" "+b.Icon)
	}
	return fitWidth(strings.Join(parts, "  "), m.width)
}

func (m appModel) minibufferLine() string {
	txt := m.minibufferText
	if txt == "" {
		if n := len(m.marked); n > 0 {
			txt = fmt.Sprintf("%d marked", n)
		}
	}
	if m.minibufferErr {
		return fitWidth(styleError().Render(txt), m.width)
	}
	return fitWidth(styleMuted().Render(txt), m.width)
}
