package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"clipdeck/internal/view"
)

// Run starts the interactive program and blocks until the user quits. The
// last tab, query and search mode are restored on start and saved on exit.
func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	initial := view.State{}
	if st, err := opts.Store.LoadTUIState(); err == nil && st != nil {
		initial = view.State{Tab: st.Tab, Query: st.Query, Mode: view.ParseSearchMode(st.Mode)}
	}

	m := newAppModel(ctx, opts, initial)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(appModel); ok {
		if serr := opts.Store.SaveTUIState(fm.uiState()); serr != nil {
			m.log.Warn("save tui state", zap.Error(serr))
		}
	}
	return err
}
