package confetti

import (
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestBurstLaunchesFromBothEdges(t *testing.T) {
	b := New(80, 24, rand.New(rand.NewSource(1)))

	assert.Len(t, b.Pieces, Count)
	left, right := 0, 0
	for i, p := range b.Pieces {
		assert.Equal(t, Colors[i%len(Colors)], p.Color)
		switch p.X {
		case 0:
			left++
			assert.Greater(t, p.VX, 0.0)
		case 79:
			right++
			assert.Less(t, p.VX, 0.0)
		}
		assert.Less(t, p.VY, 0.0, "pieces start moving up")
	}
	assert.Equal(t, Count/2, left)
	assert.Equal(t, Count/2, right)
}

func TestBurstEndsAfterLifetime(t *testing.T) {
	b := New(80, 24, rand.New(rand.NewSource(2)))
	assert.Greater(t, b.Visible(), 0)

	frames := 0
	for b.Step(FrameInterval) {
		frames++
		if frames > 1000 {
			t.Fatal("burst never finished")
		}
	}
	assert.True(t, b.Done())
	assert.InDelta(t, int(Lifetime/FrameInterval), frames, 2)
	assert.Zero(t, b.Visible())
	assert.Equal(t, "    ", b.Row(10, 0, 4))
}

func TestRowWidth(t *testing.T) {
	b := New(40, 10, rand.New(rand.NewSource(3)))
	b.Step(100 * time.Millisecond)
	for y := 0; y < 10; y++ {
		assert.Equal(t, 40, lipgloss.Width(b.Row(y, 0, 40)))
	}
	assert.Equal(t, "", b.Row(0, 5, 5))
}
