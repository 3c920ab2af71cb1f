// Package settings reads and writes the two user preferences of the timer.
package settings

import (
	"fmt"
	"sync"
)

// Keys as stored. Values are "true" or "false".
const (
	KeySoundEnabled = "isSoundEnabled"
	KeyLightTheme   = "isLightTheme"
)

// Settings are the user preferences. The zero value is not the default; use
// Defaults.
type Settings struct {
	SoundEnabled bool `json:"isSoundEnabled"`
	LightTheme   bool `json:"isLightTheme"`
}

// Defaults returns sound on and the dark theme.
func Defaults() Settings {
	return Settings{SoundEnabled: true}
}

// Store is a string key-value store.
type Store interface {
	// Get returns ok=false when the key was never written.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Load reads settings from s. Missing keys fall back to Defaults; any value
// other than "true" for a present key reads as false.
func Load(s Store) (Settings, error) {
	out := Defaults()

	v, ok, err := s.Get(KeySoundEnabled)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", KeySoundEnabled, err)
	}
	if ok {
		out.SoundEnabled = v == "true"
	}

	v, ok, err = s.Get(KeyLightTheme)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", KeyLightTheme, err)
	}
	if ok {
		out.LightTheme = v == "true"
	}

	return out, nil
}

// Save writes both keys.
func Save(s Store, st Settings) error {
	if err := s.Set(KeySoundEnabled, formatBool(st.SoundEnabled)); err != nil {
		return fmt.Errorf("write %s: %w", KeySoundEnabled, err)
	}
	if err := s.Set(KeyLightTheme, formatBool(st.LightTheme)); err != nil {
		return fmt.Errorf("write %s: %w", KeyLightTheme, err)
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// MemoryStore keeps values in a map. Used by the shell and tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
