package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luccascomvoce/temporizador/internal/duration"
)

func newController(t *testing.T, v string) *Controller {
	t.Helper()
	c := New(DefaultOptions())
	d, err := duration.Parse(v)
	require.NoError(t, err)
	require.True(t, c.SetFromTotalSeconds(d.TotalSeconds()))
	return c
}

func effectTypes(effects []Effect) []EffectType {
	var types []EffectType
	for _, e := range effects {
		types = append(types, e.Type)
	}
	return types
}

func TestModifyFieldCarry(t *testing.T) {
	c := newController(t, "00:00:00")
	require.True(t, c.ModifyField(duration.Seconds, 125))
	assert.Equal(t, "00:02:05", c.Value().String())

	c = newController(t, "00:01:00")
	c.ModifyField(duration.Seconds, -1)
	assert.Equal(t, "00:00:59", c.Value().String())

	c = newController(t, "99:00:00")
	c.ModifyField(duration.Hours, 1)
	assert.Equal(t, "00:00:00", c.Value().String())
}

func TestStartAtZeroIsRejected(t *testing.T) {
	c := New(DefaultOptions())

	effects := c.Start()

	assert.Equal(t, []EffectType{EffectRejected}, effectTypes(effects))
	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, "Defina um tempo válido para iniciar.", effects[0].Status())
}

func TestStartPauseKeepsRemainingTime(t *testing.T) {
	c := newController(t, "00:10:00")

	started := c.Start()
	require.Equal(t, []EffectType{EffectStarted}, effectTypes(started))
	assert.True(t, c.IsRunning())

	c.Tick(started[0].Seq)
	assert.Equal(t, 599, c.TotalSeconds())

	paused := c.Pause()
	assert.Equal(t, []EffectType{EffectPaused}, effectTypes(paused))
	assert.False(t, c.IsRunning())
	assert.Equal(t, 599, c.TotalSeconds())
}

func TestFieldsReadOnlyWhileRunning(t *testing.T) {
	c := newController(t, "00:00:30")
	c.Start()

	assert.False(t, c.ModifyField(duration.Seconds, 5))
	assert.False(t, c.SetFromTotalSeconds(100))
	assert.False(t, c.SetField(duration.Minutes, 3))
	assert.False(t, c.Reset())

	c.Focus(duration.Seconds)
	assert.False(t, c.Wheel(-1))
	_, handled := c.HandleKey(KeyEvent{Key: KeyRune, Rune: '7'})
	assert.True(t, handled)
	c.HandleKey(KeyEvent{Key: KeyUp})
	assert.Equal(t, "00:00:30", c.Value().String())
	assert.Equal(t, "30", c.FieldText(duration.Seconds))

	c.Pause()
	assert.Equal(t, 30, c.TotalSeconds())
	assert.True(t, c.ModifyField(duration.Seconds, 5))
	assert.Equal(t, 35, c.TotalSeconds())
}

func TestTickCompletesExactlyOnce(t *testing.T) {
	opts := DefaultOptions()
	c := New(opts)
	c.SetFromTotalSeconds(1)
	seq := c.Start()[0].Seq

	effects := c.Tick(seq)
	require.Equal(t, []EffectType{EffectCompleted}, effectTypes(effects))
	assert.Equal(t, "00:00:00", c.Value().String())
	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, opts.ResetDelay, effects[0].Delay)

	assert.Empty(t, c.Tick(seq), "a late tick must not complete again")
	assert.Empty(t, c.Tick(c.RunSeq()), "a stopped timer ignores ticks")
}

func TestStaleTicksAreDropped(t *testing.T) {
	c := newController(t, "00:00:10")
	first := c.Start()[0].Seq
	c.Pause()
	second := c.Start()[0].Seq
	require.NotEqual(t, first, second)

	c.Tick(first)
	assert.Equal(t, 10, c.TotalSeconds())
	c.Tick(second)
	assert.Equal(t, 9, c.TotalSeconds())
}

func TestDeferredReset(t *testing.T) {
	c := newController(t, "00:00:01")
	c.Start()
	completed := c.Tick(c.RunSeq())
	require.Len(t, completed, 1)

	effects := c.ResetElapsed(completed[0].Seq)
	assert.Equal(t, []EffectType{EffectReset}, effectTypes(effects))
	assert.Empty(t, c.ResetElapsed(completed[0].Seq), "reset fires once")
}

func TestDeferredResetCancelledByEdit(t *testing.T) {
	c := newController(t, "00:00:01")
	c.Start()
	completed := c.Tick(c.RunSeq())

	c.ModifyField(duration.Minutes, 3)

	assert.Empty(t, c.ResetElapsed(completed[0].Seq))
	assert.Equal(t, "00:03:00", c.Value().String())
}

func TestImmediateResetWithoutDelay(t *testing.T) {
	c := New(Options{ResetDelay: 0})
	c.SetFromTotalSeconds(1)
	c.Start()

	effects := c.Tick(c.RunSeq())

	assert.Equal(t, []EffectType{EffectCompleted, EffectReset}, effectTypes(effects))
	assert.True(t, c.Value().IsZero())
}

func TestBlurCommitUsesCarry(t *testing.T) {
	c := newController(t, "00:00:00")
	c.Focus(duration.Hours)
	c.HandleKey(KeyEvent{Key: KeyRune, Rune: '1'})
	c.Focus(duration.Seconds)
	c.HandleKey(KeyEvent{Key: KeyRune, Rune: '7'})
	assert.Equal(t, "7", c.FieldText(duration.Seconds))

	c.Blur()
	assert.Equal(t, "01:00:07", c.Value().String())
}

func TestBlurCommitOverflow(t *testing.T) {
	c := newController(t, "00:00:00")
	c.Focus(duration.Minutes)
	c.HandleKey(KeyEvent{Key: KeyRune, Rune: '7'})
	c.HandleKey(KeyEvent{Key: KeyRune, Rune: '5'})

	// minutes filled up, focus moved on and the buffer was committed
	f, ok := c.Focused()
	require.True(t, ok)
	assert.Equal(t, duration.Seconds, f)
	assert.Equal(t, "01:15:00", c.Value().String())
	assert.True(t, c.Selected(duration.Seconds))
}

func TestNormalizeFieldCommitsBuffer(t *testing.T) {
	c := newController(t, "00:00:00")
	c.Focus(duration.Seconds)
	c.HandleKey(KeyEvent{Key: KeyRune, Rune: '9'})
	c.HandleKey(KeyEvent{Key: KeyRune, Rune: '0'})

	// seconds wraps focus to hours, which committed 90 seconds
	assert.Equal(t, "00:01:30", c.Value().String())

	c.NormalizeField(duration.Minutes)
	assert.Equal(t, "00:01:30", c.Value().String())
}

func TestSetFieldClamps(t *testing.T) {
	c := newController(t, "00:00:00")
	c.SetField(duration.Seconds, 65)
	c.SetField(duration.Hours, -4)
	assert.Equal(t, "00:00:59", c.Value().String())
}

func TestWheelDirection(t *testing.T) {
	c := newController(t, "00:05:00")
	assert.False(t, c.Wheel(-120), "wheel without focus does nothing")

	c.Focus(duration.Minutes)
	c.Wheel(-120)
	assert.Equal(t, "00:06:00", c.Value().String())
	c.Wheel(120)
	c.Wheel(120)
	assert.Equal(t, "00:04:00", c.Value().String())
}

func TestWheelAfterTypingCommitsFirst(t *testing.T) {
	c := newController(t, "00:00:00")
	c.Focus(duration.Hours)
	c.HandleKey(KeyEvent{Key: KeyRune, Rune: '7'})
	c.Wheel(-1)
	assert.Equal(t, "08:00:00", c.Value().String())
	assert.Equal(t, "08", c.FieldText(duration.Hours))
}

func TestReset(t *testing.T) {
	c := newController(t, "01:02:03")
	c.Focus(duration.Minutes)
	require.True(t, c.Reset())
	assert.True(t, c.Value().IsZero())
	_, focused := c.Focused()
	assert.False(t, focused)
}

func TestDragStepsWhileStopped(t *testing.T) {
	c := newController(t, "00:00:10")
	require.True(t, c.BeginDrag(duration.Seconds, 10))
	c.MoveDrag(2) // far above the start: max offset, increment

	assert.InDelta(t, 16.0, c.DragRate(), 0.001)
	changed := 0
	for i := 0; i < 60; i++ {
		if c.AdvanceFrame(time.Second / 60) {
			changed++
		}
	}
	assert.GreaterOrEqual(t, changed, 13)
	assert.LessOrEqual(t, changed, 16)
	assert.Equal(t, 10+changed, c.TotalSeconds())

	c.EndDrag()
	assert.True(t, c.DragActive(), "indicator still settling")
	for i := 0; i < 60 && c.DragActive(); i++ {
		assert.False(t, c.AdvanceFrame(time.Second/60))
	}
	assert.False(t, c.DragActive())
}

func TestDragRejectedWhileRunning(t *testing.T) {
	c := newController(t, "00:00:10")
	c.Start()
	assert.False(t, c.BeginDrag(duration.Seconds, 0))
	assert.False(t, c.DragActive())
}
