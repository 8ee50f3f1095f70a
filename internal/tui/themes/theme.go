package themes

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Selected      lipgloss.Style
	Editing       lipgloss.Style
	Placeholder   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	ProgressFull  lipgloss.Style
	ProgressEmpty lipgloss.Style
	BorderedBox   lipgloss.Style
	RoundedBox    lipgloss.Style
	Secondary     lipgloss.Color
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    "#7c3aed",
	secondary:  "#a78bfa",
	success:    "#10b981",
	errorColor: "#ef4444",
	info:       "#3b82f6",
	foreground: "#fafafa",
	subtitle:   "#a3a3a3",
	border:     "#404040",
	muted:      "#737373",
	onSelected: "#fafafa",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    "#cba6f7",
	secondary:  "#f5c2e7",
	success:    "#a6e3a1",
	errorColor: "#f38ba8",
	info:       "#89dceb",
	foreground: "#cdd6f4",
	subtitle:   "#a6adc8",
	border:     "#45475a",
	muted:      "#6c7086",
	onSelected: "#1e1e2e",
})

var byName = map[string]Theme{
	"default":          Default,
	"catppuccin-mocha": CatppuccinMocha,
}

// Lookup returns the theme registered under name.
func Lookup(name string) (Theme, bool) {
	t, ok := byName[name]
	return t, ok
}

// Names lists the registered theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns a theme by name, or Default for an unknown name.
func GetTheme(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return Default
}

type palette struct {
	primary    string
	secondary  string
	success    string
	errorColor string
	info       string
	foreground string
	subtitle   string
	border     string
	muted      string
	onSelected string
}

func newTheme(p palette) Theme {
	return Theme{
		Primary:    lipgloss.Color(p.primary),
		Secondary:  lipgloss.Color(p.secondary),
		Success:    lipgloss.Color(p.success),
		Error:      lipgloss.Color(p.errorColor),
		Foreground: lipgloss.Color(p.foreground),
		Border:     lipgloss.Color(p.border),
		Muted:      lipgloss.Color(p.muted),

		// Text styles
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.foreground)).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtitle)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.foreground)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.foreground)),
		Placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Italic(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color(p.onSelected)).
			Bold(true),
		Editing: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.secondary)).
			Bold(true),

		// Component styles
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(1, 2),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		ProgressFull: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.primary)),
		ProgressEmpty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.border)),

		// Status styles
		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.errorColor)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),
	}
}
