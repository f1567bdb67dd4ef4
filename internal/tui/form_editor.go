package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clipdeck/internal/view"
)

type formField int

const (
	fieldName formField = iota
	fieldCategory
	fieldTags
	fieldText
	fieldCount
)

var formFieldLabels = [fieldCount]string{"Name", "Category", "Tags", "Text"}

// formEditor holds the widgets of the edit form. The content lives in the
// view.Form; widgets are synced to it before every commit.
type formEditor struct {
	name     textinput.Model
	category textinput.Model
	tags     textinput.Model
	text     textarea.Model
	focus    formField
}

func newFormEditor() formEditor {
	mk := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = 200
		return ti
	}
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Placeholder = "Template text"
	ta.CharLimit = 0
	ta.SetHeight(6)

	return formEditor{
		name:     mk("Template name"),
		category: mk("Category"),
		tags:     mk("comma, separated, tags"),
		text:     ta,
	}
}

// load copies the form content into the widgets and focuses the first field.
func (e *formEditor) load(in view.FormInput) tea.Cmd {
	e.name.SetValue(in.Name)
	e.name.CursorEnd()
	e.category.SetValue(in.Category)
	e.category.CursorEnd()
	e.tags.SetValue(in.Tags)
	e.tags.CursorEnd()
	e.text.SetValue(in.Text)
	return e.setFocus(fieldName)
}

func (e formEditor) input() view.FormInput {
	return view.FormInput{
		Name:     e.name.Value(),
		Category: e.category.Value(),
		Tags:     e.tags.Value(),
		Text:     e.text.Value(),
	}
}

func (e *formEditor) setFocus(f formField) tea.Cmd {
	e.name.Blur()
	e.category.Blur()
	e.tags.Blur()
	e.text.Blur()
	e.focus = (f%fieldCount + fieldCount) % fieldCount
	switch e.focus {
	case fieldName:
		return e.name.Focus()
	case fieldCategory:
		return e.category.Focus()
	case fieldTags:
		return e.tags.Focus()
	default:
		return e.text.Focus()
	}
}

func (e *formEditor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch e.focus {
	case fieldName:
		e.name, cmd = e.name.Update(msg)
	case fieldCategory:
		e.category, cmd = e.category.Update(msg)
	case fieldTags:
		e.tags, cmd = e.tags.Update(msg)
	default:
		e.text, cmd = e.text.Update(msg)
	}
	return cmd
}

func (e *formEditor) setWidth(bodyW int) {
	w := bodyW - 2
	if w < 10 {
		w = 10
	}
	e.name.Width = w
	e.category.Width = w
	e.tags.Width = w
	e.text.SetWidth(bodyW)
}

func (e formEditor) render(width int, title string, categories []string, errText string) string {
	bodyW := modalBodyWidth(width)
	label := func(f formField) string {
		st := styleMuted()
		if e.focus == f {
			st = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
		}
		return st.Render(formFieldLabels[f])
	}

	lines := []string{
		label(fieldName),
		renderInputLine(bodyW, e.name.View()),
		label(fieldCategory),
		renderInputLine(bodyW, e.category.View()),
	}
	if len(categories) > 0 {
		lines = append(lines, styleMuted().Width(bodyW).Render(strings.Join(categories, " · ")))
	}
	lines = append(lines,
		label(fieldTags),
		renderInputLine(bodyW, e.tags.View()),
		label(fieldText),
		e.text.View(),
	)
	if errText != "" {
		lines = append(lines, "", styleError().Width(bodyW).Render(errText))
	}
	return renderModalBox(width, title, strings.Join(lines, "\n"))
}
