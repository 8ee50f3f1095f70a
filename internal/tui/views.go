package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/salary-ledger/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

const (
	amountColumnWidth = 14
	nameColumnWidth   = 24
	labelWidth        = 20
	barWidth          = 24
)

// render draws the calculator for a view snapshot.
func (m Model) render(view viewmodel.LedgerView) string {
	compact := view.Dimensions.IsCompact()

	nameWidth := nameColumnWidth
	if compact {
		nameWidth = max(8, view.Dimensions.Width-amountColumnWidth-4)
	}

	sections := []string{
		m.theme.Title.Render("💶 Salary Ledger"),
		m.renderSalary(view),
		"",
		m.theme.Subtitle.Render(pad("Expenses", nameWidth+2) + "Amount"),
	}

	for _, row := range view.Rows {
		sections = append(sections, m.renderRow(view, row, nameWidth))
	}

	sections = append(sections,
		"",
		m.renderTotals(view),
		m.renderAllocation(view, compact),
		"",
		m.renderFooter(view, compact),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if compact {
		return content
	}
	return m.theme.RoundedBox.Render(content)
}

func (m Model) renderSalary(view viewmodel.LedgerView) string {
	label := m.theme.Bold.Render(pad("Salary", labelWidth))

	var value string
	switch {
	case view.IsEditing(viewmodel.FieldSalary, 0):
		value = m.input.View()
	case view.Salary == "":
		value = m.cell(viewmodel.SalaryPlaceholder, true, view.IsFocused(viewmodel.FieldSalary, 0))
	default:
		value = m.cell(view.Salary, false, view.IsFocused(viewmodel.FieldSalary, 0))
	}

	return label + value
}

func (m Model) renderRow(view viewmodel.LedgerView, row viewmodel.ExpenseRowView, nameWidth int) string {
	var name string
	if view.IsEditing(viewmodel.FieldName, row.Index) {
		name = m.input.View()
	} else {
		text, placeholder := row.DisplayName()
		text = viewmodel.TruncateString(viewmodel.SanitizeForDisplay(text), nameWidth)
		name = m.cell(text, placeholder, view.IsFocused(viewmodel.FieldName, row.Index))
	}

	var amount string
	if view.IsEditing(viewmodel.FieldAmount, row.Index) {
		amount = m.input.View()
	} else {
		text, placeholder := row.DisplayAmount()
		text = viewmodel.TruncateString(text, amountColumnWidth)
		amount = m.cell(text, placeholder, view.IsFocused(viewmodel.FieldAmount, row.Index))
	}

	return "  " + pad(name, nameWidth) + amount
}

// cell styles a single value by focus and placeholder state.
func (m Model) cell(text string, placeholder, focused bool) string {
	switch {
	case focused:
		return m.theme.Selected.Render(text)
	case placeholder:
		return m.theme.Placeholder.Render(text)
	default:
		return m.theme.Normal.Render(text)
	}
}

func (m Model) renderTotals(view viewmodel.LedgerView) string {
	balanceStyle := m.theme.StatusSuccess
	if view.IsNegative {
		balanceStyle = m.theme.StatusError
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Normal.Render(pad("Total expenses", labelWidth))+m.theme.Normal.Render(view.Total),
		m.theme.Bold.Render(pad("Remaining balance", labelWidth))+balanceStyle.Render(view.Balance),
	)
}

func (m Model) renderAllocation(view viewmodel.LedgerView, compact bool) string {
	width := barWidth
	if compact {
		width = max(4, view.Dimensions.Width-12)
	}

	bar := viewmodel.AllocationBar(view.SpentRatio, width)
	filled := strings.Count(bar, "█")

	fullStyle := m.theme.ProgressFull
	if view.IsNegative {
		fullStyle = m.theme.StatusError
	}

	return fmt.Sprintf("%s%s %s",
		fullStyle.Render(strings.Repeat("█", filled)),
		m.theme.ProgressEmpty.Render(strings.Repeat("░", width-filled)),
		m.theme.Subtitle.Render(viewmodel.SpentPercentage(view.SpentRatio)+" spent"),
	)
}

func (m Model) renderFooter(view viewmodel.LedgerView, compact bool) string {
	if view.Mode == viewmodel.ModeEditing {
		return m.help.View(editingHelp{k: m.keymap})
	}
	if !compact {
		return m.help.View(m.keymap)
	}

	active := view.GetActiveKeyBindings()
	parts := make([]string, 0, len(active))
	for _, kb := range active {
		parts = append(parts, kb.Key+" "+kb.Description)
	}
	return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(strings.Join(parts, " • "))
}

// pad right-pads s to width visible cells.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}
