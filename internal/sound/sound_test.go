package sound

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peak(t *testing.T, s beep.Streamer) (float64, int) {
	t.Helper()
	buf := make([][2]float64, 512)
	var top float64
	total := 0
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			top = math.Max(top, math.Abs(smp[0]))
		}
		total += n
		if !ok {
			return top, total
		}
	}
}

func TestGeneratedChime(t *testing.T) {
	p, err := New(Options{})
	require.NoError(t, err)

	assert.Equal(t, SampleRate, p.Format().SampleRate)
	assert.InDelta(t, time.Second.Seconds(), p.Duration().Seconds(), 0.01)

	top, n := peak(t, p.Streamer())
	assert.Equal(t, SampleRate.N(350*time.Millisecond)+SampleRate.N(650*time.Millisecond), n)
	assert.Greater(t, top, 0.1)
	assert.LessOrEqual(t, top, 0.4)
}

func TestVolumeScalesAmplitude(t *testing.T) {
	full, err := New(Options{})
	require.NoError(t, err)
	half, err := New(Options{Volume: -1})
	require.NoError(t, err)

	maxFull, _ := peak(t, full.Streamer())
	maxHalf, _ := peak(t, half.Streamer())
	assert.InDelta(t, maxFull/2, maxHalf, 0.001)
}

func TestLoadWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	src := chime()
	require.NoError(t, wav.Encode(f, src.Streamer(0, src.Len()), src.Format()))
	require.NoError(t, f.Close())

	p, err := New(Options{File: path})
	require.NoError(t, err)
	assert.Equal(t, src.Len(), p.buffer.Len())
	assert.Equal(t, src.Format().SampleRate, p.Format().SampleRate)
}

func TestMissingFile(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "nope.wav")})
	assert.Error(t, err)
}
