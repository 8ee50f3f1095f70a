package tui

import (
	"github.com/Veraticus/salary-ledger/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/key"
)

// snapshot copies the ledger and cursor into a render-ready view.
func (m Model) snapshot() viewmodel.LedgerView {
	expenses := m.ledger.Expenses()
	rows := make([]viewmodel.ExpenseRowView, len(expenses))
	for i, e := range expenses {
		rows[i] = viewmodel.ExpenseRowView{
			Name:   e.Name,
			Amount: e.Amount,
			Index:  i,
		}
	}

	salary, total := m.ledger.Salary(), m.ledger.TotalExpenses()

	var ratio float64
	switch {
	case salary.IsPositive():
		ratio = total.Div(salary).InexactFloat64()
	case total.IsPositive():
		ratio = 1
	}

	view := viewmodel.LedgerView{
		Salary:     m.ledger.SalaryText(),
		Balance:    m.ledger.RemainingBalance(),
		Total:      m.ledger.Format(total),
		Rows:       rows,
		Focus:      m.focus,
		Mode:       m.mode(),
		SpentRatio: ratio,
		IsNegative: m.ledger.Remaining().IsNegative(),
		Dimensions: viewmodel.Dimensions{
			Width:  m.width,
			Height: m.height,
		},
	}
	view.KeyBindings = m.keyBindings(view)
	return view
}

// keyBindings lists the shortcuts that apply to view.
func (m Model) keyBindings(view viewmodel.LedgerView) []viewmodel.KeyBinding {
	if view.Mode == viewmodel.ModeEditing {
		return []viewmodel.KeyBinding{
			binding(m.keymap.Confirm, true),
			binding(m.keymap.Cancel, true),
		}
	}

	return []viewmodel.KeyBinding{
		binding(m.keymap.Edit, true),
		binding(m.keymap.Add, true),
		binding(m.keymap.Remove, view.CanRemove()),
		binding(m.keymap.Help, true),
		binding(m.keymap.Quit, true),
	}
}

func binding(b key.Binding, active bool) viewmodel.KeyBinding {
	h := b.Help()
	return viewmodel.KeyBinding{
		Key:         h.Key,
		Description: h.Desc,
		IsActive:    active,
	}
}
