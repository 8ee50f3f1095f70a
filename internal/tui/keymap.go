package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Next  key.Binding

	// Editing
	Edit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding

	// Rows
	Add    key.Binding
	Remove key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "name column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "amount column"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next field"),
		),

		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("Enter/e", "edit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),

		Add: key.NewBinding(
			key.WithKeys("a", "+"),
			key.WithHelp("a/+", "add expense"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "-"),
			key.WithHelp("d/-", "remove last"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Add, k.Remove, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Next},
		{k.Edit, k.Confirm, k.Cancel},
		{k.Add, k.Remove},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

// editingHelp is the short help shown while a field is open.
type editingHelp struct {
	k KeyMap
}

func (e editingHelp) ShortHelp() []key.Binding {
	return []key.Binding{e.k.Confirm, e.k.Cancel}
}

func (e editingHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{e.ShortHelp()}
}
