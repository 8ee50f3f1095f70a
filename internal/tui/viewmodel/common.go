package viewmodel

// Mode represents what the calculator screen is doing.
type Mode int

const (
	// ModeBrowsing indicates the cursor moves between fields.
	ModeBrowsing Mode = iota
	// ModeEditing indicates a field is open for text input.
	ModeEditing
	// ModeHelp indicates the help overlay is shown.
	ModeHelp
)

// Field identifies an editable cell.
type Field int

const (
	// FieldSalary is the salary input.
	FieldSalary Field = iota
	// FieldName is an expense name.
	FieldName
	// FieldAmount is an expense amount.
	FieldAmount
)

// Focus locates the cursor. Row is ignored for FieldSalary.
type Focus struct {
	Field Field
	Row   int
}

// IsNumeric returns true if the focused field takes decimal input.
func (f Focus) IsNumeric() bool {
	return f.Field == FieldSalary || f.Field == FieldAmount
}

// KeyBinding represents a keyboard shortcut.
type KeyBinding struct {
	Key         string
	Description string
	IsActive    bool
}

// Dimensions represents size constraints.
type Dimensions struct {
	Width  int
	Height int
}

// IsCompact returns true if the terminal is too narrow for the side panel.
func (d Dimensions) IsCompact() bool {
	return d.Width < 60
}
