package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"clipdeck/internal/clipboard"
	"clipdeck/internal/model"
	"clipdeck/internal/store"
	"clipdeck/internal/view"
)

type focusArea int

const (
	focusList focusArea = iota
	focusSearch
	focusForm
	focusConfirm
)

// Options configures the interactive program.
type Options struct {
	Store         store.Store
	Log           *zap.Logger
	CopySeparator string
	Theme         string
	// Copy replaces the system clipboard (tests).
	Copy clipboard.Writer
}

type appModel struct {
	ctx  context.Context
	st   store.Store
	log  *zap.Logger
	keys keyMap
	help help.Model

	ctrl    *view.Controller
	form    *view.Form
	buttons []model.QuickCopyButton
	copySep string
	copyFn  clipboard.Writer

	width  int
	height int
	focus  focusArea

	search textinput.Model
	list   list.Model
	editor formEditor

	confirmFocus confirmModalFocus
	confirmFrom  focusArea
	// marked holds template ids selected for a multi-copy.
	marked map[int64]bool

	formErr        string
	minibufferText string
	minibufferErr  bool
}

func newAppModel(ctx context.Context, opts Options, initial view.State) appModel {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.Write
	}
	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "filter…"
	search.CharLimit = 200
	search.SetValue(initial.Query)

	m := appModel{
		ctx:     ctx,
		st:      opts.Store,
		log:     log,
		keys:    defaultKeyMap(),
		help:    help.New(),
		ctrl:    view.NewController(opts.Store, log, initial),
		form:    view.NewForm(opts.Store, log),
		copySep: opts.CopySeparator,
		copyFn:  copyFn,
		search:  search,
		list:    newTemplateList(),
		editor:  newFormEditor(),
		marked:  map[int64]bool{},
		width:   80,
		height:  24,
	}

	buttons, err := opts.Store.ListQuickCopyButtons(ctx)
	if err != nil {
		log.Warn("load quick copy buttons", zap.Error(err))
	}
	m.buttons = buttons
	m.refresh(m.ctrl.Refresh(ctx))
	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// uiState is what gets persisted between runs.
func (m appModel) uiState() *store.TUIState {
	st := m.ctrl.State()
	return &store.TUIState{Version: 1, Tab: st.Tab, Query: st.Query, Mode: st.Mode.String()}
}

func (m *appModel) setMessage(format string, args ...any) {
	m.minibufferText = fmt.Sprintf(format, args...)
	m.minibufferErr = false
}

func (m *appModel) setError(err error) {
	m.minibufferText = err.Error()
	m.minibufferErr = true
}

// refresh installs a freshly computed plan into the list, keeping the
// selection on the same template when it is still visible.
func (m *appModel) refresh(p view.RenderPlan, err error) {
	if err != nil {
		m.setError(err)
		return
	}
	var selectedID int64
	if it, ok := m.list.SelectedItem().(templateItem); ok {
		selectedID = it.row.Template.ID
	}

	items := make([]list.Item, 0, len(p.Rows))
	sel := 0
	for i, row := range p.Rows {
		items = append(items, templateItem{row: row, marked: m.marked[row.Template.ID]})
		if row.Template.ID == selectedID {
			sel = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(sel)
	}
}

func (m *appModel) reload() {
	m.refresh(m.ctrl.Refresh(m.ctx))
}

func (m appModel) selected() (view.Row, bool) {
	it, ok := m.list.SelectedItem().(templateItem)
	if !ok {
		return view.Row{}, false
	}
	return it.row, true
}

func (m *appModel) copyText(s string, what string) {
	if err := m.copyFn(s); err != nil {
		m.log.Warn("clipboard write failed", zap.Error(err))
		m.setError(fmt.Errorf("clipboard: %w", err))
		return
	}
	m.setMessage("copied %s", what)
}

// copySelection copies the marked templates in list order, or the selected
// one when nothing is marked.
func (m *appModel) copySelection() {
	var texts []string
	for _, it := range m.list.Items() {
		ti, ok := it.(templateItem)
		if ok && m.marked[ti.row.Template.ID] {
			texts = append(texts, ti.row.Template.Text)
		}
	}
	if len(texts) > 0 {
		m.copyText(view.JoinForClipboard(texts, m.copySep), fmt.Sprintf("%d templates", len(texts)))
		m.marked = map[int64]bool{}
		m.reload()
		return
	}
	row, ok := m.selected()
	if !ok {
		m.setMessage("nothing to copy")
		return
	}
	m.copyText(row.Template.Text, fmt.Sprintf("%q", row.Template.Name))
}

func (m *appModel) quickCopy(k string) {
	i := paletteIndex(k)
	if i < 0 || i >= len(m.buttons) {
		m.setMessage("no quick copy button %s", k)
		return
	}
	b := m.buttons[i]
	m.copyText(b.Text, b.Icon)
}

func (m *appModel) toggleMark() {
	row, ok := m.selected()
	if !ok {
		return
	}
	id := row.Template.ID
	if m.marked[id] {
		delete(m.marked, id)
	} else {
		m.marked[id] = true
	}
	m.reload()
	if idx := m.list.Index(); idx < len(m.list.Items())-1 {
		m.list.Select(idx + 1)
	}
}

func (m *appModel) openForm(edit bool) tea.Cmd {
	m.formErr = ""
	if edit {
		row, ok := m.selected()
		if !ok {
			m.setMessage("no template selected")
			return nil
		}
		if err := m.form.Load(m.ctx, row.Template); err != nil {
			m.setError(err)
			return nil
		}
	} else {
		m.form.Reset(m.ctrl.Category())
	}
	m.focus = focusForm
	m.search.Blur()
	return m.editor.load(m.form.Input)
}

func (m *appModel) commitForm() {
	m.form.Input = m.editor.input()
	editing := m.form.Mode() == view.FormEditing
	id, err := m.form.Commit(m.ctx)
	if err != nil {
		m.formErr = formErrorText(err)
		return
	}
	m.formErr = ""
	m.focus = focusList
	if editing {
		m.setMessage("updated template #%d", id)
	} else {
		m.setMessage("created template #%d", id)
	}
	m.reload()
}

func formErrorText(err error) string {
	var fe *view.FieldError
	switch {
	case errors.Is(err, view.ErrUnknownCategory):
		return err.Error() + "; pick one of the listed categories"
	case errors.As(err, &fe):
		return fe.Error()
	default:
		return err.Error()
	}
}

func (m *appModel) askDelete() {
	if m.focus != focusForm {
		row, ok := m.selected()
		if !ok {
			m.setMessage("no template selected")
			return
		}
		if err := m.form.Load(m.ctx, row.Template); err != nil {
			m.setError(err)
			return
		}
	}
	m.confirmFrom = m.focus
	m.confirmFocus = confirmFocusCancel
	m.focus = focusConfirm
}

func (m *appModel) answerDelete(yes bool) {
	if !yes {
		if m.confirmFrom == focusForm {
			m.focus = focusForm
			return
		}
		// The form was only loaded to drive the confirmation.
		m.form.Cancel()
		m.focus = focusList
		m.setMessage("delete cancelled")
		return
	}
	id := m.form.EditingID()
	deleted, err := m.form.Delete(m.ctx, view.ConfirmFunc(func(string) bool { return true }))
	m.focus = focusList
	switch {
	case err != nil:
		m.setError(err)
	case deleted:
		delete(m.marked, id)
		m.setMessage("deleted template #%d", id)
	}
	m.reload()
}

func (m *appModel) resize() {
	m.help.Width = m.width
	listW, bodyH := m.paneSizes()
	m.list.SetSize(listW, bodyH)
	m.search.Width = m.width - 16
	m.editor.setWidth(modalBodyWidth(m.width))
}

// paneSizes splits the body between list and preview.
func (m appModel) paneSizes() (listW, bodyH int) {
	listW = m.width * 2 / 5
	if listW < 20 {
		listW = m.width
	}
	// tab bar, search line, palette, minibuffer, help.
	bodyH = m.height - 5
	if bodyH < 1 {
		bodyH = 1
	}
	return listW, bodyH
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusForm:
			return m.updateForm(msg)
		case focusConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibufferText = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ToggleMode):
		m.refresh(m.ctrl.ToggleMode(m.ctx))
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.refresh(m.ctrl.ShiftTab(m.ctx, 1))
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.refresh(m.ctrl.ShiftTab(m.ctx, -1))
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
		return m, nil
	case key.Matches(msg, m.keys.Mark):
		m.toggleMark()
		return m, nil
	case key.Matches(msg, m.keys.ClearMarks):
		if len(m.marked) > 0 {
			m.marked = map[int64]bool{}
			m.reload()
		}
		return m, nil
	case key.Matches(msg, m.keys.QuickCopy):
		m.quickCopy(msg.String())
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m, m.openForm(false)
	case key.Matches(msg, m.keys.Edit):
		return m, m.openForm(true)
	case key.Matches(msg, m.keys.Delete):
		m.askDelete()
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleMode):
		m.refresh(m.ctrl.ToggleMode(m.ctx))
		return m, nil
	case msg.Type == tea.KeyEnter, msg.Type == tea.KeyEsc,
		msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		m.focus = focusList
		m.search.Blur()
		if msg.Type == tea.KeyUp || msg.Type == tea.KeyDown {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		// Every keystroke re-queries from scratch.
		m.refresh(m.ctrl.SetQuery(m.ctx, q))
	}
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		m.commitForm()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.form.Cancel()
		m.formErr = ""
		m.focus = focusList
		return m, nil
	case key.Matches(msg, m.keys.FormDel):
		if m.form.Mode() == view.FormEditing {
			m.form.Input = m.editor.input()
			m.askDelete()
		}
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.editor.setFocus(m.editor.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.editor.setFocus(m.editor.focus - 1)
	}
	return m, m.editor.update(msg)
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
	case "enter":
		m.answerDelete(m.confirmFocus == confirmFocusConfirm)
	case "y", "Y":
		m.answerDelete(true)
	case "n", "N", "esc":
		m.answerDelete(false)
	}
	return m, nil
}
