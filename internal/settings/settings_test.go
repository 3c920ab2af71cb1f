package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	st, err := Load(NewMemoryStore())
	require.NoError(t, err)
	assert.Equal(t, Settings{SoundEnabled: true, LightTheme: false}, st)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, Save(store, Settings{SoundEnabled: false, LightTheme: true}))

	v, ok, _ := store.Get(KeySoundEnabled)
	assert.True(t, ok)
	assert.Equal(t, "false", v)
	v, _, _ = store.Get(KeyLightTheme)
	assert.Equal(t, "true", v)

	st, err := Load(store)
	require.NoError(t, err)
	assert.False(t, st.SoundEnabled)
	assert.True(t, st.LightTheme)
}

func TestLoadPartialKeys(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(KeyLightTheme, "true"))

	st, err := Load(store)
	require.NoError(t, err)
	assert.True(t, st.SoundEnabled, "missing key keeps the default")
	assert.True(t, st.LightTheme)
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("boom") }
func (failingStore) Set(string, string) error         { return errors.New("boom") }

func TestStoreErrorsPropagate(t *testing.T) {
	st, err := Load(failingStore{})
	assert.Error(t, err)
	assert.Equal(t, Defaults(), st)
	assert.Error(t, Save(failingStore{}, Defaults()))
}
