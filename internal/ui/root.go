package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/luccascomvoce/temporizador/internal/app"
	"github.com/luccascomvoce/temporizador/internal/duration"
	"github.com/luccascomvoce/temporizador/internal/logging"
	"github.com/luccascomvoce/temporizador/internal/model"
	"github.com/luccascomvoce/temporizador/internal/settings"
	"github.com/luccascomvoce/temporizador/internal/timer"
	"github.com/luccascomvoce/temporizador/internal/ui/theme"
	"github.com/luccascomvoce/temporizador/internal/ui/views"
)

// Rows outside the content area: header, status line, key hints
const chromeHeight = 3

// RootModel is the main application model
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	settings      settings.Settings
	themeOverride bool

	timerView       views.TimerView
	settingsView    views.SettingsView
	settingsVisible bool
	helpVisible     bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model. A non-empty themeName overrides the
// stored theme preference for this session.
func NewRootModel(application *app.App, themeName string) RootModel {
	h := help.New()
	h.ShowAll = false

	st := application.Settings()
	m := RootModel{
		app:          application,
		keys:         DefaultKeyMap(),
		help:         h,
		settings:     st,
		settingsView: views.NewSettingsView(st),
	}

	if t, ok := theme.ByName(themeName); ok {
		theme.SetTheme(t)
		m.themeOverride = true
	} else {
		theme.SetTheme(theme.ForSettings(st.LightTheme))
	}

	ctrl := timer.New(application.TimerOptions())
	m.timerView = views.NewTimerView(ctrl, application.Config.Timer.Tick, views.TimerHooks{
		Completed: func(planned duration.Value) tea.Cmd {
			return func() tea.Msg {
				application.Complete(planned.String())
				return nil
			}
		},
		RunEnded: func(run model.Run) tea.Cmd {
			return func() tea.Msg {
				if err := application.RecordRun(run); err != nil {
					return ErrorMsg{Err: err}
				}
				return nil
			}
		},
	})
	return m
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.timerView.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.app.Logger.Log(context.Background(), logging.LevelTrace, "update", "msg", fmt.Sprintf("%T", msg))

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		contentHeight := m.contentHeight()
		m.timerView = m.timerView.SetSize(m.width, contentHeight)
		m.settingsView = m.settingsView.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.settingsVisible || m.helpVisible {
			return m, nil
		}
		// content starts below the header
		msg.Y--
		return m.updateTimer(msg)

	case views.SettingsChangedMsg:
		return m.applySettings(msg.Settings)

	case views.SettingsClosedMsg:
		m.settingsVisible = false
		return m, nil

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		m.app.Logger.Error("ui error", "error", msg.Err)
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Tema: %s", themeLabel(msg.ThemeName))
		return m, nil
	}

	// Ticks and animation frames keep flowing while an overlay is open
	return m.updateTimer(msg)
}

func (m RootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear status/error on any keypress
	m.statusMsg = ""
	m.errorMsg = ""

	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	if m.settingsVisible {
		sv, cmd := m.settingsView.Update(msg)
		m.settingsView = sv.(views.SettingsView)
		return m, cmd
	}

	if m.helpVisible {
		switch msg.String() {
		case "?", "esc", "q":
			m.helpVisible = false
		}
		return m, nil
	}

	// Letters are bindings only while no field takes typed input
	if !m.timerView.IsInputMode() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()

		case key.Matches(msg, m.keys.Help):
			m.helpVisible = true
			return m, nil

		case key.Matches(msg, m.keys.Settings):
			m.settingsVisible = true
			m.settingsView = m.settingsView.SetSettings(m.settings)
			return m, nil

		case key.Matches(msg, m.keys.Theme):
			st := m.settings
			st.LightTheme = !st.LightTheme
			return m.applySettings(st)

		case key.Matches(msg, m.keys.Sound):
			st := m.settings
			st.SoundEnabled = !st.SoundEnabled
			return m.applySettings(st)
		}
	}

	return m.updateTimer(msg)
}

func (m RootModel) updateTimer(msg tea.Msg) (tea.Model, tea.Cmd) {
	tv, cmd := m.timerView.Update(msg)
	m.timerView = tv.(views.TimerView)
	return m, cmd
}

// quit records an interrupted run before leaving
func (m RootModel) quit() tea.Cmd {
	return tea.Sequence(m.timerView.Shutdown(), tea.Quit)
}

// applySettings makes st current at once and persists it in the background
func (m RootModel) applySettings(st settings.Settings) (tea.Model, tea.Cmd) {
	themeChanged := st.LightTheme != m.settings.LightTheme
	m.settings = st
	m.settingsView = m.settingsView.SetSettings(st)

	var done tea.Msg = StatusMsg{Message: "Som " + onOff(st.SoundEnabled)}
	if themeChanged {
		m.themeOverride = false
		t := theme.ForSettings(st.LightTheme)
		theme.SetTheme(t)
		done = ThemeChangedMsg{ThemeName: t.Name}
	}

	application := m.app
	return m, func() tea.Msg {
		if err := application.UpdateSettings(st); err != nil {
			return ErrorMsg{Err: err}
		}
		return done
	}
}

// Settings returns the preferences in effect
func (m RootModel) Settings() settings.Settings {
	return m.settings
}

func (m RootModel) contentHeight() int {
	h := m.height - chromeHeight
	if h < 0 {
		return 0
	}
	return h
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	contentHeight := m.contentHeight()
	var content string
	switch {
	case m.settingsVisible:
		content = m.settingsView.View()
	case m.helpVisible:
		content = m.renderHelp()
	default:
		content = m.timerView.View()
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}

	return strings.Join([]string{m.renderHeader(), content, m.renderFooter()}, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("temporizador")

	indicatorStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	themeText := themeLabel(t.Name)
	if m.themeOverride {
		themeText += " (sessão)"
	}
	right := indicatorStyle.Render(fmt.Sprintf("tema: %s  som: %s", themeText, onOff(m.settings.SoundEnabled)))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return title + strings.Repeat(" ", gap) + right
}

// renderFooter renders the status line and the key hints
func (m RootModel) renderFooter() string {
	t := theme.Current.Theme

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	return statusLine + "\n" + m.help.View(m.keys)
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Temporizador", [][2]string{
			{"espaço", "Iniciar ou pausar"},
			{"enter", "Confirmar campo e iniciar/pausar"},
			{"r", "Zerar (parado)"},
		}},
		{"Campos", [][2]string{
			{"tab ←/→", "Escolher campo"},
			{"↑/↓", "Somar ou subtrair um"},
			{"0-9", "Digitar o valor"},
			{"backspace", "Apagar"},
			{"esc", "Confirmar campo"},
			{"roda do mouse", "Ajustar o campo sob o cursor"},
			{"arrastar", "Ajuste contínuo, mais rápido quanto mais longe"},
		}},
		{"Preferências", [][2]string{
			{"s", "Configurações"},
			{"t", "Alternar tema claro/escuro"},
			{"m", "Ligar/desligar som"},
		}},
		{"Sistema", [][2]string{
			{"?", "Mostrar/ocultar esta ajuda"},
			{"q / ctrl+c", "Sair"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Ajuda"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, kv := range s.keys {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Render("Pressione ? ou esc para fechar"))
	return b.String()
}

func themeLabel(name string) string {
	if name == theme.Light.Name {
		return "claro"
	}
	return "escuro"
}

func onOff(on bool) string {
	if on {
		return "ligado"
	}
	return "desligado"
}
