package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/salary-ledger/internal/ledger"
	tea "github.com/charmbracelet/bubbletea"
)

// New creates the calculator model.
func New(opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(cfg)
}

// Run starts the calculator on the terminal and blocks until the user
// quits or ctx is canceled. It returns the edited ledger.
func Run(ctx context.Context, opts ...Option) (*ledger.Ledger, error) {
	m := New(opts...)

	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			slog.Info("ledger session canceled", "reason", ctx.Err())
			return m.Ledger(), nil
		}
		return nil, fmt.Errorf("failed to run ledger TUI: %w", err)
	}

	l := m.Ledger()
	if fm, ok := final.(Model); ok {
		l = fm.Ledger()
	}

	slog.Info("ledger session finished",
		"expenses", l.Len(),
		"total", l.Format(l.TotalExpenses()),
		"remaining", l.RemainingBalance(),
	)

	return l, nil
}
