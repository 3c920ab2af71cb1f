package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfigPath writes a config file pointing at a temporary data dir
func testConfigPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := fmt.Sprintf("data_dir: %s\nnotify:\n  enabled: false\n", filepath.Join(dir, "data"))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	t.Cleanup(func() {
		if logCloser != nil {
			logCloser.Close()
			logCloser = nil
		}
		cfg = nil
	})
	return path
}

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cfg = nil
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testConfigPath(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "temporizador v"+Version+"\n", out)
}

func TestSettingsCommands(t *testing.T) {
	path := testConfigPath(t)

	out, err := execute(t, path, "settings", "get")
	require.NoError(t, err)
	assert.Equal(t, "sound: \"on\"\ntheme: dark\n", out)

	out, err = execute(t, path, "settings", "set", "--sound", "off", "--theme", "light")
	require.NoError(t, err)
	assert.Equal(t, "Salvo: som=off tema=light\n", out)

	out, err = execute(t, path, "settings", "get")
	require.NoError(t, err)
	assert.Equal(t, "sound: \"off\"\ntheme: light\n", out)

	_, err = execute(t, path, "settings", "set", "--sound", "maybe")
	assert.Error(t, err)
	_, err = execute(t, path, "settings", "set")
	assert.Error(t, err)
}

func TestHistoryEmpty(t *testing.T) {
	out, err := execute(t, testConfigPath(t), "history")
	require.NoError(t, err)
	assert.Equal(t, "Nenhuma contagem registrada.\n", out)
}

func TestCacheListEmptyAndPurge(t *testing.T) {
	path := testConfigPath(t)

	out, err := execute(t, path, "cache", "list", "--all")
	require.NoError(t, err)
	assert.Equal(t, "Cache vazio.\n", out)

	out, err = execute(t, path, "cache", "purge")
	require.NoError(t, err)
	assert.Equal(t, "Cache timer-pwa-cache-v1 apagado.\n", out)
}

func TestCacheInstallNeedsUpstream(t *testing.T) {
	_, err := execute(t, testConfigPath(t), "cache", "install")
	assert.ErrorContains(t, err, "no upstream configured")
}

func TestRunRejectsBadArgs(t *testing.T) {
	path := testConfigPath(t)
	_, err := execute(t, path, "run")
	assert.Error(t, err)
	_, err = execute(t, path, "run", "00:00:00")
	assert.ErrorIs(t, err, errRejected)
}
