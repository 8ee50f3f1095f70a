package viewmodel

import (
	"fmt"
	"strings"
)

// Placeholders shown for blank cells.
const (
	NamePlaceholder   = "Expense name"
	AmountPlaceholder = "Amount"
	SalaryPlaceholder = "Salary amount"
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "Browsing"
	case ModeEditing:
		return "Editing"
	case ModeHelp:
		return "Help"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// String returns a string representation of the field.
func (f Field) String() string {
	switch f {
	case FieldSalary:
		return "Salary"
	case FieldName:
		return "Name"
	case FieldAmount:
		return "Amount"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// DisplayName returns the name or its placeholder when blank.
func (r ExpenseRowView) DisplayName() (string, bool) {
	if strings.TrimSpace(r.Name) == "" {
		return NamePlaceholder, true
	}
	return r.Name, false
}

// DisplayAmount returns the amount text or its placeholder when blank.
func (r ExpenseRowView) DisplayAmount() (string, bool) {
	if strings.TrimSpace(r.Amount) == "" {
		return AmountPlaceholder, true
	}
	return r.Amount, false
}

// TruncateString truncates a string to maxLen runes with an ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// AllocationBar returns a text bar showing how much of the salary is spent.
func AllocationBar(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}

	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// SpentPercentage returns the ratio as a whole percentage for display.
func SpentPercentage(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// SanitizeForDisplay removes potentially problematic characters for terminal display.
func SanitizeForDisplay(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}
