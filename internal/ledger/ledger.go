// Package ledger holds the salary and expense entries behind the calculator
// and keeps the remaining balance in step with every change.
package ledger

import (
	"sync"

	"github.com/Veraticus/salary-ledger/internal/currency"
	"github.com/shopspring/decimal"
)

// Formatter renders a signed amount as currency text.
type Formatter interface {
	Format(amount decimal.Decimal) string
}

// ExpenseEntry is one named expense. Amount is kept as the raw text the user
// typed and is only parsed when the balance is computed.
type ExpenseEntry struct {
	Name   string
	Amount string
}

// IsBlank returns true if neither name nor amount has been entered.
func (e ExpenseEntry) IsBlank() bool {
	return e.Name == "" && e.Amount == ""
}

// Ledger is the aggregate of salary text, expense entries and the derived
// remaining balance. It always holds at least one expense entry.
//
// Every method takes the ledger lock for its whole duration, so callers on
// different goroutines never observe a half-applied change.
type Ledger struct {
	formatter  Formatter
	salary     decimal.Decimal
	total      decimal.Decimal
	remaining  decimal.Decimal
	salaryText string
	balance    string
	expenses   []ExpenseEntry
	mu         sync.RWMutex
}

// New creates a ledger with empty salary text and one blank expense.
// A nil formatter falls back to the default euro formatter.
func New(formatter Formatter) *Ledger {
	if formatter == nil {
		formatter = currency.Default()
	}

	l := &Ledger{
		formatter: formatter,
		expenses:  []ExpenseEntry{{}},
	}
	l.recompute()
	return l
}

// SetSalaryText replaces the salary text. Text that does not parse counts as
// zero; callers filter with IsNumericOrEmpty before calling.
func (l *Ledger) SetSalaryText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.salaryText = text
	l.recompute()
}

// AddExpense appends a blank expense entry.
func (l *Ledger) AddExpense() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expenses = append(l.expenses, ExpenseEntry{})
	l.recompute()
}

// RemoveExpense removes the last expense entry. It does nothing when only one
// entry is left.
func (l *Ledger) RemoveExpense() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.expenses) <= 1 {
		return
	}
	l.expenses = l.expenses[:len(l.expenses)-1]
	l.recompute()
}

// UpdateExpenseName replaces the name of the entry at index. Out of range
// indexes are ignored.
func (l *Ledger) UpdateExpenseName(index int, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.inBounds(index) {
		return
	}
	l.expenses[index].Name = name
	l.recompute()
}

// UpdateExpenseAmount replaces the amount text of the entry at index. Out of
// range indexes are ignored.
func (l *Ledger) UpdateExpenseAmount(index int, amount string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.inBounds(index) {
		return
	}
	l.expenses[index].Amount = amount
	l.recompute()
}

// AppendExpense adds a filled-in entry in one step. While the ledger still
// holds only its initial blank entry, that entry is filled instead.
func (l *Ledger) AppendExpense(name, amount string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := ExpenseEntry{Name: name, Amount: amount}
	if len(l.expenses) == 1 && l.expenses[0].IsBlank() {
		l.expenses[0] = entry
	} else {
		l.expenses = append(l.expenses, entry)
	}
	l.recompute()
}

// SalaryText returns the salary text as entered.
func (l *Ledger) SalaryText() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.salaryText
}

// Expenses returns a copy of the expense entries in display order.
func (l *Ledger) Expenses() []ExpenseEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]ExpenseEntry, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// Len returns the number of expense entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.expenses)
}

// RemainingBalance returns the formatted salary minus total expenses.
func (l *Ledger) RemainingBalance() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// Salary returns the parsed salary, zero when the text does not parse.
func (l *Ledger) Salary() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.salary
}

// TotalExpenses returns the sum of all parsed expense amounts.
func (l *Ledger) TotalExpenses() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// Remaining returns the unformatted remaining balance.
func (l *Ledger) Remaining() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.remaining
}

// Format renders an amount with the ledger's formatter.
func (l *Ledger) Format(amount decimal.Decimal) string {
	return l.formatter.Format(amount)
}

func (l *Ledger) inBounds(index int) bool {
	return index >= 0 && index < len(l.expenses)
}

// recompute must be called with the write lock held.
func (l *Ledger) recompute() {
	total := decimal.Zero
	for _, e := range l.expenses {
		total = total.Add(ParseDecimalOrZero(e.Amount))
	}

	l.salary = ParseDecimalOrZero(l.salaryText)
	l.total = total
	l.remaining = l.salary.Sub(total)
	l.balance = l.formatter.Format(l.remaining)
}
