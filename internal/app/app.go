package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/luccascomvoce/temporizador/internal/config"
	"github.com/luccascomvoce/temporizador/internal/db"
	"github.com/luccascomvoce/temporizador/internal/model"
	"github.com/luccascomvoce/temporizador/internal/notify"
	"github.com/luccascomvoce/temporizador/internal/offline"
	"github.com/luccascomvoce/temporizador/internal/settings"
	"github.com/luccascomvoce/temporizador/internal/sound"
	"github.com/luccascomvoce/temporizador/internal/timer"
)

// ErrAlreadyRunning is returned when another process holds the instance lock
var ErrAlreadyRunning = errors.New("another instance of temporizador is already running")

// Options controls what New sets up
type Options struct {
	// Lock takes the single-instance lock. Only the interactive timer needs it.
	Lock   bool
	Logger *slog.Logger
}

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	DB       *db.DB
	Notifier *notify.Notifier
	Logger   *slog.Logger

	mu       sync.Mutex
	settings settings.Settings
	player   *sound.Player
	lockFile *flock.Flock
}

// New creates a new application instance
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		Notifier: notify.NewNotifier(),
		Logger:   logger,
	}
	app.Notifier.SetEnabled(cfg.Notify.Enabled)

	if opts.Lock {
		if err := app.acquireLock(); err != nil {
			return nil, err
		}
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		app.releaseLock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	st, err := settings.Load(database)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "error", err)
	}
	app.settings = st

	return app, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "temporizador.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrAlreadyRunning
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Settings returns the current preferences
func (a *App) Settings() settings.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// UpdateSettings stores st and makes it current
func (a *App) UpdateSettings(st settings.Settings) error {
	if err := settings.Save(a.DB, st); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	a.mu.Lock()
	a.settings = st
	a.mu.Unlock()
	a.Logger.Info("settings saved", "sound", st.SoundEnabled, "light", st.LightTheme)
	return nil
}

// TimerOptions builds controller options from the config
func (a *App) TimerOptions() timer.Options {
	return timer.Options{
		ResetDelay: a.Config.Timer.ResetDelay,
		Drag: timer.DragOptions{
			MinHz:       a.Config.Drag.MinHz,
			MaxHz:       a.Config.Drag.MaxHz,
			MaxOffset:   a.Config.Drag.MaxOffset,
			ReturnSpeed: a.Config.Drag.ReturnSpeed,
		},
	}
}

// RecordRun stores a finished run segment
func (a *App) RecordRun(r model.Run) error {
	if err := a.DB.InsertRun(&r); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	a.Logger.Debug("run recorded", "id", r.ID, "outcome", r.Outcome, "elapsed", r.ElapsedSeconds())
	return nil
}

// Player returns the completion sound, loading it on first use. A broken
// sound file falls back to the generated chime.
func (a *App) Player() *sound.Player {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.player != nil {
		return a.player
	}
	p, err := sound.New(sound.Options{File: a.Config.Sound.File, Volume: a.Config.Sound.Volume})
	if err != nil {
		a.Logger.Warn("failed to load sound file, using chime", "file", a.Config.Sound.File, "error", err)
		p, _ = sound.New(sound.Options{Volume: a.Config.Sound.Volume})
	}
	a.player = p
	return p
}

// Complete runs the completion side effects: the sound when enabled and the
// desktop notification. planned is the HH:MM:SS length of the countdown.
func (a *App) Complete(planned string) {
	if a.Settings().SoundEnabled {
		if err := a.Player().Play(); err != nil {
			a.Logger.Warn("failed to play sound", "error", err)
		}
	}
	if err := a.Notifier.SendTimerComplete(planned); err != nil {
		a.Logger.Debug("notification failed", "error", err)
	}
}

// OfflineWorker returns a cache worker backed by the database. An empty
// upstream uses the configured one.
func (a *App) OfflineWorker(upstream string) (*offline.Worker, error) {
	if upstream == "" {
		upstream = a.Config.Cache.Upstream
	}
	if upstream == "" {
		return nil, fmt.Errorf("no upstream configured (set cache.upstream or pass --upstream)")
	}
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream %q: %w", upstream, err)
	}
	return offline.New(a.DB, offline.Options{
		CacheName:    a.Config.Cache.Name,
		Upstream:     u,
		Manifest:     a.Config.Cache.Manifest,
		AllowedHosts: a.Config.Cache.AllowedHosts,
		Logger:       a.Logger,
	})
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	return errors.Join(errs...)
}
