package viewmodel

// LedgerView is a render-ready snapshot of the ledger and cursor.
type LedgerView struct {
	Salary      string
	Balance     string
	Total       string
	Rows        []ExpenseRowView
	KeyBindings []KeyBinding
	Focus       Focus
	Dimensions  Dimensions
	SpentRatio  float64
	Mode        Mode
	IsNegative  bool
}

// ExpenseRowView is one expense line.
type ExpenseRowView struct {
	Name   string
	Amount string
	Index  int
}

// IsFocused returns true if the cursor is on field f.
func (v LedgerView) IsFocused(f Field, row int) bool {
	if v.Focus.Field != f {
		return false
	}
	return f == FieldSalary || v.Focus.Row == row
}

// IsEditing returns true if field f is open for input.
func (v LedgerView) IsEditing(f Field, row int) bool {
	return v.Mode == ModeEditing && v.IsFocused(f, row)
}

// GetActiveKeyBindings returns only the currently active key bindings.
func (v LedgerView) GetActiveKeyBindings() []KeyBinding {
	var active []KeyBinding
	for _, kb := range v.KeyBindings {
		if kb.IsActive {
			active = append(active, kb)
		}
	}
	return active
}

// CanRemove returns true if removing the last expense would do anything.
func (v LedgerView) CanRemove() bool {
	return len(v.Rows) > 1
}
