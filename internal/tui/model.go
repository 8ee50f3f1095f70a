// Package tui implements the interactive salary calculator screen.
package tui

import (
	"github.com/Veraticus/salary-ledger/internal/ledger"
	"github.com/Veraticus/salary-ledger/internal/tui/themes"
	"github.com/Veraticus/salary-ledger/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the main TUI state.
type Model struct {
	theme    themes.Theme
	ledger   *ledger.Ledger
	original string
	keymap   KeyMap
	help     help.Model
	input    textinput.Model
	focus    viewmodel.Focus
	width    int
	height   int
	editing  bool
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	l := cfg.Ledger
	if l == nil {
		l = ledger.New(nil)
	}

	input := textinput.New()
	input.Prompt = ""
	input.TextStyle = cfg.Theme.Editing
	input.Cursor.Style = cfg.Theme.Editing

	h := help.New()
	h.ShowAll = cfg.ShowHelp
	h.Width = cfg.Width

	return Model{
		theme:  cfg.Theme,
		ledger: l,
		keymap: DefaultKeyMap(),
		help:   h,
		input:  input,
		focus:  viewmodel.Focus{Field: viewmodel.FieldSalary},
		width:  cfg.Width,
		height: cfg.Height,
	}
}

// Ledger returns the ledger being edited.
func (m Model) Ledger() *ledger.Ledger {
	return m.ledger
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditingKeys(msg)
		}
		return m.handleBrowsingKeys(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render(m.snapshot())
}

func (m Model) handleBrowsingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.Up):
		m.moveUp()

	case key.Matches(msg, m.keymap.Down):
		m.moveDown()

	case key.Matches(msg, m.keymap.Left):
		if m.focus.Field == viewmodel.FieldAmount {
			m.focus.Field = viewmodel.FieldName
		}

	case key.Matches(msg, m.keymap.Right):
		if m.focus.Field == viewmodel.FieldName {
			m.focus.Field = viewmodel.FieldAmount
		}

	case key.Matches(msg, m.keymap.Next):
		m.moveNext()

	case key.Matches(msg, m.keymap.Add):
		m.ledger.AddExpense()
		m.focus = viewmodel.Focus{Field: viewmodel.FieldName, Row: m.ledger.Len() - 1}

	case key.Matches(msg, m.keymap.Remove):
		m.ledger.RemoveExpense()
		m.clampFocus()

	case key.Matches(msg, m.keymap.Edit):
		return m, m.startEditing()
	}

	return m, nil
}

func (m Model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Confirm):
		m.commit(m.input.Value())
		m.stopEditing()
		return m, nil

	case key.Matches(msg, m.keymap.Cancel):
		if m.focus.Field != viewmodel.FieldAmount {
			m.commit(m.original)
		}
		m.stopEditing()
		return m, nil
	}

	prev, pos := m.input.Value(), m.input.Position()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.focus.IsNumeric() && !ledger.IsNumericOrEmpty(m.input.Value()) {
		m.input.SetValue(prev)
		m.input.SetCursor(pos)
		return m, cmd
	}

	// Salary and names write through on every accepted keystroke; amounts
	// stay buffered until confirmed.
	if m.focus.Field != viewmodel.FieldAmount {
		m.commit(m.input.Value())
	}
	return m, cmd
}

// startEditing opens the focused field in the text input.
func (m *Model) startEditing() tea.Cmd {
	m.original = m.fieldText()
	m.editing = true
	m.input.SetValue(m.original)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) stopEditing() {
	m.editing = false
	m.original = ""
	m.input.Blur()
	m.input.Reset()
}

// commit writes text into the focused ledger field.
func (m *Model) commit(text string) {
	switch m.focus.Field {
	case viewmodel.FieldSalary:
		m.ledger.SetSalaryText(text)
	case viewmodel.FieldName:
		m.ledger.UpdateExpenseName(m.focus.Row, text)
	case viewmodel.FieldAmount:
		m.ledger.UpdateExpenseAmount(m.focus.Row, text)
	}
}

// fieldText returns the current ledger text of the focused field.
func (m Model) fieldText() string {
	if m.focus.Field == viewmodel.FieldSalary {
		return m.ledger.SalaryText()
	}

	expenses := m.ledger.Expenses()
	if m.focus.Row < 0 || m.focus.Row >= len(expenses) {
		return ""
	}
	if m.focus.Field == viewmodel.FieldName {
		return expenses[m.focus.Row].Name
	}
	return expenses[m.focus.Row].Amount
}

func (m *Model) moveUp() {
	switch {
	case m.focus.Field == viewmodel.FieldSalary:
	case m.focus.Row == 0:
		m.focus = viewmodel.Focus{Field: viewmodel.FieldSalary}
	default:
		m.focus.Row--
	}
}

func (m *Model) moveDown() {
	if m.focus.Field == viewmodel.FieldSalary {
		m.focus = viewmodel.Focus{Field: viewmodel.FieldName}
		return
	}
	if m.focus.Row < m.ledger.Len()-1 {
		m.focus.Row++
	}
}

// moveNext cycles salary, then name and amount of each row, then wraps.
func (m *Model) moveNext() {
	switch m.focus.Field {
	case viewmodel.FieldSalary:
		m.focus = viewmodel.Focus{Field: viewmodel.FieldName}
	case viewmodel.FieldName:
		m.focus.Field = viewmodel.FieldAmount
	case viewmodel.FieldAmount:
		if m.focus.Row < m.ledger.Len()-1 {
			m.focus = viewmodel.Focus{Field: viewmodel.FieldName, Row: m.focus.Row + 1}
		} else {
			m.focus = viewmodel.Focus{Field: viewmodel.FieldSalary}
		}
	}
}

func (m *Model) clampFocus() {
	if m.focus.Field == viewmodel.FieldSalary {
		return
	}
	if last := m.ledger.Len() - 1; m.focus.Row > last {
		m.focus.Row = last
	}
}

// mode reports the screen mode for the view snapshot.
func (m Model) mode() viewmodel.Mode {
	switch {
	case m.editing:
		return viewmodel.ModeEditing
	case m.help.ShowAll:
		return viewmodel.ModeHelp
	default:
		return viewmodel.ModeBrowsing
	}
}
