package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration file.
type Config struct {
	DataDir string       `yaml:"data_dir"`
	Timer   TimerConfig  `yaml:"timer"`
	Drag    DragConfig   `yaml:"drag"`
	Sound   SoundConfig  `yaml:"sound"`
	Notify  NotifyConfig `yaml:"notify"`
	Log     LogConfig    `yaml:"log"`
	Cache   CacheConfig  `yaml:"cache"`
}

type TimerConfig struct {
	// ResetDelay is how long 00:00:00 stays on screen after completion.
	ResetDelay time.Duration `yaml:"reset_delay"`
	Tick       time.Duration `yaml:"tick"`
}

type DragConfig struct {
	MinHz       float64 `yaml:"min_hz"`
	MaxHz       float64 `yaml:"max_hz"`
	MaxOffset   float64 `yaml:"max_offset"`
	ReturnSpeed float64 `yaml:"return_speed"`
}

type SoundConfig struct {
	// File is an optional WAV file played on completion instead of the chime.
	File string `yaml:"file"`
	// Volume is in beep's log2 units, 0 leaves the source untouched.
	Volume float64 `yaml:"volume"`
}

type NotifyConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type CacheConfig struct {
	Name         string   `yaml:"name"`
	Upstream     string   `yaml:"upstream"`
	Addr         string   `yaml:"addr"`
	Manifest     []string `yaml:"manifest"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// DefaultManifest lists the assets precached by the offline worker.
var DefaultManifest = []string{
	"/",
	"/index.html",
	"/styles.css",
	"/scripts.js",
	"/images/favicon.svg",
	"/images/icon-48x48.png",
	"/images/icon-72x72.png",
	"/images/icon-96x96.png",
	"/images/icon-144x144.png",
	"/images/icon-192x192.png",
	"/images/icon-512x512.png",
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Timer: TimerConfig{
			ResetDelay: 2 * time.Second,
			Tick:       time.Second,
		},
		Drag: DragConfig{
			MinHz:       1,
			MaxHz:       16,
			MaxOffset:   4,
			ReturnSpeed: 40,
		},
		Notify: NotifyConfig{Enabled: true},
		Log:    LogConfig{Level: "warn"},
		Cache: CacheConfig{
			Name:     "timer-pwa-cache-v1",
			Addr:     "127.0.0.1:7070",
			Manifest: append([]string(nil), DefaultManifest...),
			AllowedHosts: []string{
				"fonts.gstatic.com",
				"fonts.googleapis.com",
				"cdn.jsdelivr.net",
				"www.myinstants.com",
			},
		},
	}
}

// DefaultDataDir returns ~/.local/share/temporizador.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".temporizador"
	}
	return filepath.Join(home, ".local", "share", "temporizador")
}

// DefaultPath returns ~/.config/temporizador/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "temporizador", "config.yaml")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "temporizador.yaml")
}

// DBPath returns the SQLite file inside the data dir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "temporizador.db")
}

// LogPath returns the configured log file or one inside the data dir.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "temporizador.log")
}

// Load reads the file at path. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp, path)
}

// fillDefaults repairs values a hand-edited file may have zeroed.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.Timer.Tick <= 0 {
		c.Timer.Tick = def.Timer.Tick
	}
	if c.Timer.ResetDelay < 0 {
		c.Timer.ResetDelay = 0
	}
	if c.Drag.MinHz <= 0 {
		c.Drag.MinHz = def.Drag.MinHz
	}
	if c.Drag.MaxHz < c.Drag.MinHz {
		c.Drag.MaxHz = c.Drag.MinHz
	}
	if c.Drag.MaxOffset <= 0 {
		c.Drag.MaxOffset = def.Drag.MaxOffset
	}
	if c.Drag.ReturnSpeed <= 0 {
		c.Drag.ReturnSpeed = def.Drag.ReturnSpeed
	}
	if c.Cache.Name == "" {
		c.Cache.Name = def.Cache.Name
	}
	if c.Cache.Addr == "" {
		c.Cache.Addr = def.Cache.Addr
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
