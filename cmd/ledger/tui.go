package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/salary-ledger/internal/cli"
	"github.com/Veraticus/salary-ledger/internal/common"
	"github.com/Veraticus/salary-ledger/internal/config"
	"github.com/Veraticus/salary-ledger/internal/ledger"
	"github.com/Veraticus/salary-ledger/internal/ofx"
	"github.com/Veraticus/salary-ledger/internal/tui"
	"github.com/Veraticus/salary-ledger/internal/tui/themes"
	"github.com/spf13/cobra"
)

const annotationInteractive = "interactive"

func tuiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive calculator",
		Long: `Open the full screen calculator.

Use --ofx to start with the debits of a bank statement as expenses.`,
		Args:        cobra.NoArgs,
		RunE:        a.runTUI,
		Annotations: map[string]string{annotationInteractive: "true"},
	}

	addOFXFlag(cmd)
	return cmd
}

func addOFXFlag(cmd *cobra.Command) {
	cmd.Flags().String("ofx", "", "OFX/QFX statement whose debits seed the expense list")
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	l, err := a.newLedger(cmd)
	if err != nil {
		return err
	}

	final, err := tui.Run(cmd.Context(),
		tui.WithLedger(l),
		tui.WithTheme(themes.GetTheme(a.settings.UI.Theme)),
	)
	if err != nil {
		common.LogError(err, "Calculator exited with an error", nil)
		return err
	}

	negative := final.Remaining().IsNegative()
	fmt.Fprintln(cmd.OutOrStdout(), "Remaining balance: "+cli.FormatBalance(final.RemainingBalance(), negative))
	return nil
}

// newLedger creates a ledger with the configured formatter, seeded from
// the --ofx statement when one is given.
func (a *app) newLedger(cmd *cobra.Command) (*ledger.Ledger, error) {
	formatter, err := a.settings.Formatter()
	if err != nil {
		return nil, common.NewUserError("Invalid currency settings", err)
	}
	l := ledger.New(formatter)

	path, _ := cmd.Flags().GetString("ofx")
	if path == "" {
		return l, nil
	}

	path = config.ExpandPath(path)
	f, err := os.Open(path) // #nosec G304 - path is provided by the user
	if err != nil {
		common.LogError(err, "Failed to open statement", common.Fields{"file": path})
		return nil, common.NewUserError(fmt.Sprintf("Cannot open statement %s", path), err)
	}
	defer f.Close()

	debits, err := ofx.NewParser().ParseDebits(cmd.Context(), f)
	if err != nil {
		common.LogError(err, "Failed to parse statement", common.Fields{"file": path})
		return nil, common.NewUserError(fmt.Sprintf("Cannot read statement %s", path), err)
	}

	ofx.Seed(l, debits)
	slog.Info("Seeded expenses from statement",
		"file", path,
		"debits", len(debits))

	return l, nil
}
