// Package testing provides test utilities for TUI components.
package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Driver feeds messages to a Bubble Tea model without a terminal and
// keeps the resulting model and commands.
type Driver struct {
	Model    tea.Model
	Commands []tea.Cmd
}

// NewDriver wraps a model.
func NewDriver(model tea.Model) *Driver {
	return &Driver{Model: model}
}

// Send applies each message in order.
func (d *Driver) Send(msgs ...tea.Msg) *Driver {
	for _, msg := range msgs {
		var cmd tea.Cmd
		d.Model, cmd = d.Model.Update(msg)
		if cmd != nil {
			d.Commands = append(d.Commands, cmd)
		}
	}
	return d
}

// Play applies an input sequence.
func (d *Driver) Play(seq *InputSequence) *Driver {
	return d.Send(seq.Messages()...)
}

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

// Plain renders the current model without ANSI escape codes.
func (d *Driver) Plain() string {
	return StripANSI(d.Model.View())
}

// LastCommand returns the most recent command, or nil if no commands were generated.
func (d *Driver) LastCommand() tea.Cmd {
	if len(d.Commands) == 0 {
		return nil
	}
	return d.Commands[len(d.Commands)-1]
}
