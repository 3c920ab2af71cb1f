package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luccascomvoce/temporizador/internal/config"
	"github.com/luccascomvoce/temporizador/internal/model"
	"github.com/luccascomvoce/temporizador/internal/settings"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Notify.Enabled = false
	return cfg
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg, Options{Lock: true})
	require.NoError(t, err)
	defer first.Close()

	_, err = New(cfg, Options{Lock: true})
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	// commands that only read history do not need the lock
	reader, err := New(cfg, Options{})
	require.NoError(t, err)
	require.NoError(t, reader.Close())
}

func TestSettingsPersistAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), a.Settings())

	want := settings.Settings{SoundEnabled: false, LightTheme: true}
	require.NoError(t, a.UpdateSettings(want))
	require.NoError(t, a.Close())

	a, err = New(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, want, a.Settings())
}

func TestRecordRun(t *testing.T) {
	a, err := New(testConfig(t), Options{})
	require.NoError(t, err)
	defer a.Close()

	now := time.Now()
	require.NoError(t, a.RecordRun(model.Run{
		PlannedSeconds: 90, Outcome: model.OutcomeCompleted, StartedAt: now, EndedAt: now.Add(90 * time.Second),
	}))

	runs, err := a.DB.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 90, runs[0].ElapsedSeconds())
}

func TestTimerOptionsFollowConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timer.ResetDelay = 0
	cfg.Drag.MaxHz = 10

	a, err := New(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	opts := a.TimerOptions()
	assert.Equal(t, time.Duration(0), opts.ResetDelay)
	assert.Equal(t, 10.0, opts.Drag.MaxHz)
}

func TestBrokenSoundFileFallsBackToChime(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sound.File = filepath.Join(t.TempDir(), "missing.wav")

	a, err := New(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	p := a.Player()
	require.NotNil(t, p)
	assert.Greater(t, p.Duration(), time.Duration(0))
	assert.Same(t, p, a.Player())
}

func TestOfflineWorkerNeedsUpstream(t *testing.T) {
	a, err := New(testConfig(t), Options{})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.OfflineWorker("")
	assert.Error(t, err)

	w, err := a.OfflineWorker("http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "timer-pwa-cache-v1", w.CacheName())
	require.NoError(t, w.Close())
}
