package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Timer
	Toggle key.Binding
	Focus  key.Binding
	Step   key.Binding
	Digits key.Binding
	Blur   key.Binding
	Reset  key.Binding

	// Preferences
	Settings key.Binding
	Theme    key.Binding
	Sound    key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("espaço", "iniciar/pausar"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "campo"),
		),
		Step: key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑/↓", "ajustar"),
		),
		Digits: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "digitar"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "confirmar"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "zerar"),
		),

		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "configurações"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tema"),
		),
		Sound: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "som"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ajuda"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "sair"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Focus, k.Reset, k.Settings, k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Focus, k.Step},
		{k.Digits, k.Blur, k.Reset},
		{k.Settings, k.Theme, k.Sound},
		{k.Help, k.Quit},
	}
}
