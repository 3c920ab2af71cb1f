package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Timer.ResetDelay)
	assert.Equal(t, "timer-pwa-cache-v1", cfg.Cache.Name)

	_, err = os.Stat(path)
	require.NoError(t, err, "defaults should be written to disk")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOverridesAndRepairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
data_dir: /tmp/temporizador-test
timer:
  reset_delay: 0s
  tick: 0s
drag:
  max_hz: 8
  max_offset: -1
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/temporizador-test", cfg.DataDir)
	assert.Equal(t, time.Duration(0), cfg.Timer.ResetDelay)
	assert.Equal(t, time.Second, cfg.Timer.Tick)
	assert.Equal(t, 8.0, cfg.Drag.MaxHz)
	assert.Equal(t, 4.0, cfg.Drag.MaxOffset)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join("/tmp/temporizador-test", "temporizador.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join("/tmp/temporizador-test", "temporizador.log"), cfg.LogPath())
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timer: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
