package tui

import "github.com/charmbracelet/bubbles/key"

// paletteKeys select quick-copy buttons by position.
var paletteKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "=", "\\"}

func paletteIndex(k string) int {
	for i, p := range paletteKeys {
		if p == k {
			return i
		}
	}
	return -1
}

type keyMap struct {
	Quit       key.Binding
	Search     key.Binding
	ToggleMode key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Copy       key.Binding
	Mark       key.Binding
	ClearMarks key.Binding
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	QuickCopy  key.Binding

	// Edit form.
	Save      key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
	FormDel   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ToggleMode: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "tags/name")),
		NextTab:    key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("shift+tab", "prev tab")),
		Copy:       key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter", "copy")),
		Mark:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark")),
		ClearMarks: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear marks")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		QuickCopy:  key.NewBinding(key.WithKeys(paletteKeys...), key.WithHelp("1-9 0-=\\", "quick copy")),

		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		FormDel:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Mark, k.QuickCopy, k.Search, k.NextTab, k.New, k.Edit, k.Delete, k.Quit}
}

func (k keyMap) searchHelp() []key.Binding {
	return []key.Binding{k.ToggleMode, k.Cancel}
}

func (k keyMap) formHelp(editing bool) []key.Binding {
	out := []key.Binding{k.Save, k.NextField, k.Cancel}
	if editing {
		out = append(out, k.FormDel)
	}
	return out
}
