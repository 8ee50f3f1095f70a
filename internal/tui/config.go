package tui

import (
	"github.com/Veraticus/salary-ledger/internal/ledger"
	"github.com/Veraticus/salary-ledger/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Ledger   *ledger.Ledger
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  80,
		Height: 24,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithLedger edits l instead of a fresh ledger. The caller keeps the
// final state after the program exits.
func WithLedger(l *ledger.Ledger) Option {
	return func(c *Config) {
		c.Ledger = l
	}
}

// WithHelp opens the full help on start.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
