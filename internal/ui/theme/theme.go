package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme and styles for the UI
type Theme struct {
	Name  string
	Light bool

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Progress bar gradient
	ProgressStart string
	ProgressEnd   string
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	// Base styles
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style

	Title lipgloss.Style
	Label lipgloss.Style

	// Time fields
	Field         lipgloss.Style
	FieldFocused  lipgloss.Style
	FieldRunning  lipgloss.Style
	FieldSelected lipgloss.Style
	Separator     lipgloss.Style
	Strip         lipgloss.Style

	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style

	// Panel styles
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	field := lipgloss.NewStyle().
		Foreground(t.Foreground).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Bold(true).
		Padding(0, 1)

	return Styles{
		App: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Field: field,

		FieldFocused: field.
			BorderForeground(t.Primary),

		FieldRunning: field.
			Foreground(t.Warning).
			BorderForeground(t.Warning),

		FieldSelected: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Bold(true),

		Strip: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 2),

		ButtonActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Warning).
			Bold(true).
			Padding(0, 2),

		Status: lipgloss.NewStyle().
			Foreground(t.Info),

		StatusError: lipgloss.NewStyle().
			Foreground(t.Error),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Dark,
	Styles: NewStyles(Dark),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// ForSettings returns the light or the dark theme
func ForSettings(light bool) Theme {
	if light {
		return Light
	}
	return Dark
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Dark,
		Light,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
