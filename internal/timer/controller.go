// Package timer owns the countdown: the duration being edited, the run state
// and every input modality that can change them.
//
// A Controller is not safe for concurrent use. All modalities and ticks are
// expected to arrive serially from one event loop, which is how bubbletea and
// the shell drive it.
package timer

import (
	"time"

	"github.com/luccascomvoce/temporizador/internal/duration"
)

// DefaultResetDelay is how long a finished countdown keeps showing before
// the fields return to zero.
const DefaultResetDelay = 2 * time.Second

// Options configures a Controller.
type Options struct {
	// ResetDelay postpones the post-completion reset. Zero resets at once.
	ResetDelay time.Duration
	Drag       DragOptions
}

// DefaultOptions returns the options used by the TUI.
func DefaultOptions() Options {
	return Options{
		ResetDelay: DefaultResetDelay,
		Drag:       DefaultDragOptions(),
	}
}

// Controller is the single owner of the duration value and run state.
type Controller struct {
	opts  Options
	value duration.Value
	state State

	edit *editSession
	drag dragStepper

	// runSeq tags the tick source of the current run. Pausing or finishing
	// bumps it so ticks already in flight are dropped.
	runSeq uint64

	resetSeq     uint64
	resetPending bool
}

// New returns a stopped controller at 00:00:00.
func New(opts Options) *Controller {
	if opts.Drag == (DragOptions{}) {
		opts.Drag = DefaultDragOptions()
	}
	return &Controller{
		opts: opts,
		drag: dragStepper{opts: opts.Drag},
	}
}

// Value returns the committed duration.
func (c *Controller) Value() duration.Value {
	return c.value
}

// State returns the run state.
func (c *Controller) State() State {
	return c.state
}

// IsRunning reports whether the countdown is ticking.
func (c *Controller) IsRunning() bool {
	return c.state == Running
}

// RunSeq returns the tag the current run's ticks must carry.
func (c *Controller) RunSeq() uint64 {
	return c.runSeq
}

// TotalSeconds returns the committed duration in seconds.
func (c *Controller) TotalSeconds() int {
	return c.value.TotalSeconds()
}

// SetFromTotalSeconds replaces the duration. Ignored while running.
func (c *Controller) SetFromTotalSeconds(n int) bool {
	if c.IsRunning() {
		return false
	}
	if c.edit != nil {
		c.edit.dirty = false
	}
	c.mutated()
	c.value = duration.FromTotalSeconds(n)
	c.syncEdit()
	return true
}

// ModifyField steps field f by delta with carry/borrow. Ignored while running.
func (c *Controller) ModifyField(f duration.Field, delta int) bool {
	if c.IsRunning() {
		return false
	}
	if c.edit != nil && c.edit.field == f {
		c.commitEdit()
	}
	c.mutated()
	c.value = c.value.Step(f, delta)
	c.syncEdit()
	return true
}

// SetField sets one field to n, saturating at the field bounds. Ignored while
// running.
func (c *Controller) SetField(f duration.Field, n int) bool {
	if c.IsRunning() {
		return false
	}
	if c.edit != nil && c.edit.field == f {
		c.edit.dirty = false
	}
	c.mutated()
	c.value = c.value.SetClamped(f, n)
	c.syncEdit()
	return true
}

// NormalizeField commits any text typed into field f using the carry policy.
func (c *Controller) NormalizeField(f duration.Field) {
	if c.edit != nil && c.edit.field == f {
		c.commitEdit()
		return
	}
	c.value = c.value.Normalize(duration.Carry)
}

// Reset returns the duration to zero. Ignored while running.
func (c *Controller) Reset() bool {
	if c.IsRunning() {
		return false
	}
	c.mutated()
	c.value = duration.Value{}
	c.edit = nil
	return true
}

// Start begins the countdown. Pending text is committed first. Starting at
// zero is rejected without changing state.
func (c *Controller) Start() []Effect {
	if c.IsRunning() {
		return nil
	}
	c.Blur()
	if c.value.IsZero() {
		return []Effect{{Type: EffectRejected, Value: c.value}}
	}
	c.resetPending = false
	c.state = Running
	c.runSeq++
	return []Effect{{Type: EffectStarted, Value: c.value, Seq: c.runSeq}}
}

// Pause stops the countdown without touching the remaining time.
func (c *Controller) Pause() []Effect {
	if !c.IsRunning() {
		return nil
	}
	c.state = Stopped
	c.runSeq++
	return []Effect{{Type: EffectPaused, Value: c.value}}
}

// Toggle pauses a running countdown or starts a stopped one.
func (c *Controller) Toggle() []Effect {
	if c.IsRunning() {
		return c.Pause()
	}
	return c.Start()
}

// Tick advances the countdown by one second. Ticks carrying a stale seq are
// ignored. Reaching zero stops the run and yields Completed exactly once.
func (c *Controller) Tick(seq uint64) []Effect {
	if !c.IsRunning() || seq != c.runSeq {
		return nil
	}

	total := c.value.TotalSeconds() - 1
	if total < 0 {
		total = 0
	}
	c.value = duration.FromTotalSeconds(total)
	if total > 0 {
		return nil
	}

	c.state = Stopped
	c.runSeq++
	if c.opts.ResetDelay <= 0 {
		c.value = duration.Value{}
		return []Effect{
			{Type: EffectCompleted, Value: c.value},
			{Type: EffectReset, Value: c.value},
		}
	}

	c.resetSeq++
	c.resetPending = true
	return []Effect{{
		Type:  EffectCompleted,
		Value: c.value,
		Seq:   c.resetSeq,
		Delay: c.opts.ResetDelay,
	}}
}

// ResetElapsed performs the deferred post-completion reset announced by a
// Completed effect. It does nothing if the user changed the timer since.
func (c *Controller) ResetElapsed(seq uint64) []Effect {
	if !c.resetPending || seq != c.resetSeq || c.IsRunning() {
		return nil
	}
	c.resetPending = false
	c.value = duration.Value{}
	c.syncEdit()
	return []Effect{{Type: EffectReset, Value: c.value}}
}

// Focus selects the whole content of field f, committing any other field
// that was being edited.
func (c *Controller) Focus(f duration.Field) {
	if c.edit != nil && c.edit.field == f {
		c.commitEdit()
		c.edit.selected = true
		return
	}
	c.Blur()
	c.edit = newEditSession(f, c.value)
}

// Blur commits the focused field, if any, and clears focus.
func (c *Controller) Blur() {
	if c.edit == nil {
		return
	}
	c.commitEdit()
	c.edit = nil
}

// Focused returns the focused field.
func (c *Controller) Focused() (duration.Field, bool) {
	if c.edit == nil {
		return 0, false
	}
	return c.edit.field, true
}

// FieldText returns what field f displays: the typed buffer while it is
// being edited, the committed value otherwise.
func (c *Controller) FieldText(f duration.Field) string {
	if c.edit != nil && c.edit.field == f && c.edit.dirty {
		return c.edit.text
	}
	return c.value.FieldText(f)
}

// Selected reports whether field f has its whole content selected.
func (c *Controller) Selected(f duration.Field) bool {
	return c.edit != nil && c.edit.field == f && c.edit.selected
}

// Wheel applies one discrete step to the focused field. A positive deltaY
// (scrolling down) decrements, anything else increments.
func (c *Controller) Wheel(deltaY int) bool {
	f, ok := c.Focused()
	if !ok || c.IsRunning() {
		return false
	}
	step := 1
	if deltaY > 0 {
		step = -1
	}
	return c.ModifyField(f, step)
}

// BeginDrag starts a continuous drag on field f at pointer height y.
func (c *Controller) BeginDrag(f duration.Field, y float64) bool {
	if c.IsRunning() {
		return false
	}
	c.drag.begin(f, y)
	return true
}

// MoveDrag updates the pointer height of an ongoing drag.
func (c *Controller) MoveDrag(y float64) {
	c.drag.move(y)
}

// EndDrag releases the pointer. The indicator keeps settling until
// DragActive turns false.
func (c *Controller) EndDrag() {
	c.drag.end()
}

// DragActive reports whether frames still need to be scheduled.
func (c *Controller) DragActive() bool {
	return c.drag.active()
}

// Dragging returns the dragged field and its current displacement.
func (c *Controller) Dragging() (duration.Field, float64, bool) {
	return c.drag.field, c.drag.offset, c.drag.dragging
}

// DragRate returns the current stepping frequency in Hz.
func (c *Controller) DragRate() float64 {
	return c.drag.rate()
}

// AdvanceFrame runs the drag scheduler for dt and applies the resulting
// step, if any. It reports whether the value changed.
func (c *Controller) AdvanceFrame(dt time.Duration) bool {
	step := c.drag.advance(dt)
	if step == 0 {
		return false
	}
	return c.ModifyField(c.drag.field, step)
}

// commitEdit parses the focused buffer and writes it back carry normalized.
func (c *Controller) commitEdit() {
	e := c.edit
	if e == nil || !e.dirty {
		return
	}
	n := duration.ParseField(e.text)
	c.mutated()
	c.value = c.value.With(e.field, n).Normalize(duration.Carry)
	e.dirty = false
	e.text = c.value.FieldText(e.field)
}

// syncEdit refreshes an untouched edit buffer after the value changed.
func (c *Controller) syncEdit() {
	if c.edit != nil && !c.edit.dirty {
		c.edit.text = c.value.FieldText(c.edit.field)
	}
}

// mutated cancels a pending post-completion reset.
func (c *Controller) mutated() {
	c.resetPending = false
}

func (c *Controller) moveFocus(delta int) {
	f, ok := c.Focused()
	if !ok {
		return
	}
	n := len(duration.Fields)
	c.Focus(duration.Field((int(f) + delta + n) % n))
}
