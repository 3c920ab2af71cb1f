package theme

import "github.com/charmbracelet/lipgloss"

// Dark is the Nord Polar Night palette
// https://www.nordtheme.com/
var Dark = Theme{
	Name: "dark",

	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),

	// Frost
	Primary:   lipgloss.Color("#88C0D0"), // Nord8
	Secondary: lipgloss.Color("#81A1C1"), // Nord9
	Info:      lipgloss.Color("#5E81AC"), // Nord10

	// Aurora
	Success: lipgloss.Color("#A3BE8C"), // Nord14
	Warning: lipgloss.Color("#EBCB8B"), // Nord13
	Error:   lipgloss.Color("#BF616A"), // Nord11

	ProgressStart: "#5E81AC",
	ProgressEnd:   "#88C0D0",
}

// Light is the Nord Snow Storm palette with Polar Night text
var Light = Theme{
	Name:  "light",
	Light: true,

	Background: lipgloss.Color("#ECEFF4"),
	Foreground: lipgloss.Color("#2E3440"),
	Subtle:     lipgloss.Color("#7B88A1"),
	Highlight:  lipgloss.Color("#D8DEE9"),
	Border:     lipgloss.Color("#A7B1C2"),

	Primary:   lipgloss.Color("#5E81AC"),
	Secondary: lipgloss.Color("#81A1C1"),
	Info:      lipgloss.Color("#4C566A"),

	Success: lipgloss.Color("#6E8B57"),
	Warning: lipgloss.Color("#D08770"), // Nord12, yellow is unreadable on white
	Error:   lipgloss.Color("#BF616A"),

	ProgressStart: "#81A1C1",
	ProgressEnd:   "#5E81AC",
}
