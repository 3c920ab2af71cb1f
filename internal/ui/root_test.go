package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luccascomvoce/temporizador/internal/app"
	"github.com/luccascomvoce/temporizador/internal/config"
	"github.com/luccascomvoce/temporizador/internal/ui/theme"
	"github.com/luccascomvoce/temporizador/internal/ui/views"
)

func newTestRoot(t *testing.T, themeName string) (RootModel, *app.App) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Notify.Enabled = false

	application, err := app.New(cfg, app.Options{})
	require.NoError(t, err)
	t.Cleanup(func() {
		application.Close()
		theme.SetTheme(theme.Dark)
	})

	m := NewRootModel(application, themeName)
	// 27 rows leave a 24 row content area below the header
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 27}), application
}

func send(t *testing.T, m RootModel, msg tea.Msg) RootModel {
	t.Helper()
	next, _ := sendCmd(t, m, msg)
	return next
}

func sendCmd(t *testing.T, m RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	rm, ok := next.(RootModel)
	require.True(t, ok)
	return rm, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRootModelRendersFullScreen(t *testing.T) {
	m, _ := newTestRoot(t, "")

	out := m.View()
	assert.Len(t, strings.Split(out, "\n"), 27)
	assert.Contains(t, out, "temporizador")
	assert.Contains(t, out, "tema: escuro")
	assert.Contains(t, out, "Iniciar")
}

func TestRootModelThemeOverride(t *testing.T) {
	m, application := newTestRoot(t, "light")
	assert.Equal(t, theme.Light.Name, theme.Current.Theme.Name)
	assert.False(t, application.Settings().LightTheme, "override is not persisted")
	assert.Contains(t, m.View(), "(sessão)")
}

func TestRootModelToggleThemePersists(t *testing.T) {
	m, application := newTestRoot(t, "")

	m, cmd := sendCmd(t, m, keyRunes("t"))
	require.NotNil(t, cmd)
	assert.Equal(t, theme.Light.Name, theme.Current.Theme.Name)
	assert.True(t, m.Settings().LightTheme)

	msg := cmd()
	assert.Equal(t, ThemeChangedMsg{ThemeName: theme.Light.Name}, msg)
	assert.True(t, application.Settings().LightTheme)

	m = send(t, m, msg)
	assert.Equal(t, "Tema: claro", m.statusMsg)
}

func TestRootModelToggleSound(t *testing.T) {
	m, application := newTestRoot(t, "")

	m, cmd := sendCmd(t, m, keyRunes("m"))
	require.NotNil(t, cmd)
	assert.False(t, m.Settings().SoundEnabled)
	assert.Equal(t, StatusMsg{Message: "Som desligado"}, cmd())
	assert.False(t, application.Settings().SoundEnabled)
}

func TestRootModelSettingsPopup(t *testing.T) {
	m, _ := newTestRoot(t, "")

	m = send(t, m, keyRunes("s"))
	require.True(t, m.settingsVisible)
	assert.Contains(t, m.View(), "Configurações")

	// keys go to the popup, not the timer
	m, cmd := sendCmd(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	assert.False(t, m.timerView.Controller().IsRunning())
	changed, ok := cmd().(views.SettingsChangedMsg)
	require.True(t, ok)

	m, cmd = sendCmd(t, m, changed)
	require.NotNil(t, cmd)
	assert.True(t, m.Settings().LightTheme)
	cmd()

	m, cmd = sendCmd(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m = send(t, m, cmd())
	assert.False(t, m.settingsVisible)
}

func TestRootModelHelpOverlay(t *testing.T) {
	m, _ := newTestRoot(t, "")

	m = send(t, m, keyRunes("?"))
	require.True(t, m.helpVisible)
	assert.Contains(t, m.View(), "Ajuda")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.helpVisible)
}

func TestRootModelLettersAreTypedWhileEditing(t *testing.T) {
	m, _ := newTestRoot(t, "")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, m.timerView.IsInputMode())

	m, cmd := sendCmd(t, m, keyRunes("q"))
	assert.Nil(t, cmd, "q does not quit while a field is focused")
	m = send(t, m, keyRunes("t"))
	assert.Equal(t, theme.Dark.Name, theme.Current.Theme.Name)
	assert.True(t, m.timerView.IsInputMode())
}

func TestRootModelMouseIsOffsetByHeader(t *testing.T) {
	m, _ := newTestRoot(t, "")

	// minutes digits sit on content row 9, screen row 10
	m = send(t, m, tea.MouseMsg{X: 39, Y: 10, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Equal(t, 1, m.timerView.Controller().Value().Minutes)
}

func TestRootModelErrorMsg(t *testing.T) {
	m, _ := newTestRoot(t, "")
	m = send(t, m, ErrorMsg{Err: assert.AnError})
	assert.Contains(t, m.View(), assert.AnError.Error())
}
