package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/salary-ledger/internal/cli"
	"github.com/Veraticus/salary-ledger/internal/common"
	"github.com/Veraticus/salary-ledger/internal/currency"
	"github.com/Veraticus/salary-ledger/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	unnamedExpense = "(unnamed)"
	withinBudget   = "Expenses fit within the salary"
	overBudget     = "Expenses exceed the salary"
)

func calcCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print the remaining balance for a salary and expenses",
		Long: `Compute the remaining balance without opening the calculator.

Expenses are given as NAME=AMOUNT; the amount follows the last '='.`,
		Example: `  ledger calc --salary 2000 --expense Rent=700 --expense Food=350
  ledger calc --salary 2000 --ofx january.qfx --format json`,
		Args: cobra.NoArgs,
		RunE: a.runCalc,
	}

	cmd.Flags().String("salary", "", "salary amount")
	cmd.Flags().StringArrayP("expense", "e", nil, "expense as NAME=AMOUNT (repeatable)")
	cmd.Flags().String("format", "text", "Output format (text, json)")
	addOFXFlag(cmd)

	return cmd
}

func (a *app) runCalc(cmd *cobra.Command, _ []string) error {
	salary, _ := cmd.Flags().GetString("salary")
	rawExpenses, _ := cmd.Flags().GetStringArray("expense")
	format, _ := cmd.Flags().GetString("format")

	if format != "text" && format != "json" {
		return common.NewUserError(fmt.Sprintf("Unknown output format %q (use text or json)", format), common.ErrInvalidConfig)
	}

	salary = strings.TrimSpace(salary)
	if !ledger.IsNumericOrEmpty(salary) {
		return common.NewUserError(fmt.Sprintf("Salary %q is not a number", salary), common.ErrInvalidAmount)
	}

	expenses := make([]ledger.ExpenseEntry, 0, len(rawExpenses))
	for _, raw := range rawExpenses {
		entry, err := parseExpenseFlag(raw)
		if err != nil {
			return err
		}
		expenses = append(expenses, entry)
	}

	l, err := a.newLedger(cmd)
	if err != nil {
		return err
	}

	l.SetSalaryText(salary)
	for _, e := range expenses {
		l.AppendExpense(e.Name, e.Amount)
	}

	slog.Info("Calculated balance",
		"expenses", l.Len(),
		"remaining", l.Remaining().String())

	formatter, err := a.settings.Formatter()
	if err != nil {
		return common.NewUserError("Invalid currency settings", err)
	}

	result := newCalcResult(l, formatter)
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderCalcResult(l))
	return nil
}

// parseExpenseFlag splits NAME=AMOUNT on the last '=' so names may
// contain '='.
func parseExpenseFlag(raw string) (ledger.ExpenseEntry, error) {
	idx := strings.LastIndex(raw, "=")
	if idx < 0 {
		return ledger.ExpenseEntry{}, common.NewUserError(
			fmt.Sprintf("Expense %q must look like NAME=AMOUNT", raw), common.ErrInvalidExpense)
	}

	entry := ledger.ExpenseEntry{
		Name:   strings.TrimSpace(raw[:idx]),
		Amount: strings.TrimSpace(raw[idx+1:]),
	}
	if !ledger.IsNumericOrEmpty(entry.Amount) {
		return ledger.ExpenseEntry{}, common.NewUserError(
			fmt.Sprintf("Amount %q of expense %q is not a number", entry.Amount, entry.Name), common.ErrInvalidAmount)
	}
	return entry, nil
}

type calcResult struct {
	Locale    string          `json:"locale"`
	Currency  string          `json:"currency"`
	Balance   string          `json:"balance"`
	Expenses  []calcExpense   `json:"expenses"`
	Salary    decimal.Decimal `json:"salary"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
}

type calcExpense struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func newCalcResult(l *ledger.Ledger, f *currency.Formatter) calcResult {
	entries := l.Expenses()
	expenses := make([]calcExpense, 0, len(entries))
	for _, e := range entries {
		expenses = append(expenses, calcExpense{
			Name:   e.Name,
			Amount: ledger.ParseDecimalOrZero(e.Amount),
		})
	}

	return calcResult{
		Locale:    f.Locale(),
		Currency:  f.Code(),
		Balance:   l.RemainingBalance(),
		Expenses:  expenses,
		Salary:    l.Salary(),
		Total:     l.TotalExpenses(),
		Remaining: l.Remaining(),
	}
}

func renderCalcResult(l *ledger.Ledger) string {
	rows := []cli.Row{{Label: "Salary", Value: l.Format(l.Salary())}}
	for _, e := range l.Expenses() {
		name := e.Name
		if strings.TrimSpace(name) == "" {
			name = unnamedExpense
		}
		rows = append(rows, cli.Row{Label: name, Value: l.Format(ledger.ParseDecimalOrZero(e.Amount))})
	}
	rows = append(rows, cli.Row{Label: "Total expenses", Value: l.Format(l.TotalExpenses())})

	negative := l.Remaining().IsNegative()
	content := cli.RenderTable(rows) + "\n\n" +
		cli.FormatBalance(l.RemainingBalance(), negative)

	status := cli.FormatSuccess(withinBudget)
	if negative {
		status = cli.FormatWarning(overBudget)
	}

	return cli.FormatTitle("Salary Ledger") + "\n" +
		cli.RenderBox("Remaining balance", content) + "\n" + status
}
