package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/luccascomvoce/temporizador/internal/settings"
	"github.com/luccascomvoce/temporizador/internal/ui/theme"
)

// SettingsChangedMsg is sent when a toggle in the popup changes
type SettingsChangedMsg struct {
	Settings settings.Settings
}

// SettingsClosedMsg is sent when the popup is dismissed
type SettingsClosedMsg struct{}

const (
	optionLightTheme = iota
	optionSound
	optionCount
)

// SettingsView is the popup with the theme and sound toggles
type SettingsView struct {
	settings settings.Settings
	cursor   int
	width    int
	height   int
}

// NewSettingsView creates the popup showing st
func NewSettingsView(st settings.Settings) SettingsView {
	return SettingsView{settings: st}
}

// Init initializes the settings view
func (v SettingsView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v SettingsView) SetSize(width, height int) SettingsView {
	v.width = width
	v.height = height
	return v
}

// SetSettings replaces the displayed values
func (v SettingsView) SetSettings(st settings.Settings) SettingsView {
	v.settings = st
	return v
}

// Settings returns the displayed values
func (v SettingsView) Settings() settings.Settings {
	return v.settings
}

// Update handles messages
func (v SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyMsg.String() {
	case "down", "j", "tab":
		v.cursor = (v.cursor + 1) % optionCount
	case "up", "k", "shift+tab":
		v.cursor = (v.cursor + optionCount - 1) % optionCount
	case "enter", " ":
		switch v.cursor {
		case optionLightTheme:
			v.settings.LightTheme = !v.settings.LightTheme
		case optionSound:
			v.settings.SoundEnabled = !v.settings.SoundEnabled
		}
		st := v.settings
		return v, func() tea.Msg { return SettingsChangedMsg{Settings: st} }
	case "esc", "s", "q":
		return v, func() tea.Msg { return SettingsClosedMsg{} }
	}
	return v, nil
}

// View renders the popup centered in the view
func (v SettingsView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	options := []struct {
		label string
		on    bool
	}{
		{"Tema claro", v.settings.LightTheme},
		{"Som ao terminar", v.settings.SoundEnabled},
	}

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Configurações"))
	b.WriteString("\n\n")
	for i, opt := range options {
		line := check(opt.on) + " " + opt.label
		if i == v.cursor {
			line = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpDesc.Render("espaço alterna · tab navega · esc fecha"))

	panel := styles.Panel.Render(b.String())
	if v.width == 0 || v.height == 0 {
		return panel
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, panel)
}
