package timer

import (
	"math"
	"time"

	"github.com/luccascomvoce/temporizador/internal/duration"
)

// DragOptions tunes the continuous drag modality. Offsets are in the same
// unit as the pointer coordinates (terminal rows for the TUI).
type DragOptions struct {
	MinHz float64
	MaxHz float64
	// MaxOffset is the displacement at which MaxHz is reached.
	MaxOffset float64
	// ReturnSpeed is how fast the indicator springs back, in units/second.
	ReturnSpeed float64
}

// DefaultDragOptions returns 1 Hz to 16 Hz over four rows.
func DefaultDragOptions() DragOptions {
	return DragOptions{
		MinHz:       1,
		MaxHz:       16,
		MaxOffset:   4,
		ReturnSpeed: 40,
	}
}

// dragStepper turns a held pointer into a stream of ±1 steps. It is a
// logical scheduler: the owner calls advance once per frame for as long as
// active reports true.
type dragStepper struct {
	opts     DragOptions
	field    duration.Field
	dragging bool
	startY   float64
	offset   float64
	// sinceStep is the time elapsed since the last emitted step.
	sinceStep time.Duration
}

func (d *dragStepper) begin(f duration.Field, y float64) {
	d.field = f
	d.dragging = true
	d.startY = y
	d.offset = 0
	d.sinceStep = 0
}

func (d *dragStepper) move(y float64) {
	if !d.dragging {
		return
	}
	limit := d.opts.MaxOffset
	d.offset = math.Max(-limit, math.Min(limit, y-d.startY))
}

func (d *dragStepper) end() {
	d.dragging = false
}

// active is true while dragging or while the indicator is still settling.
func (d *dragStepper) active() bool {
	return d.dragging || d.offset != 0
}

// rate returns the current stepping frequency in Hz.
func (d *dragStepper) rate() float64 {
	factor := 1.0
	if d.opts.MaxOffset > 0 {
		factor = math.Min(1, math.Abs(d.offset)/d.opts.MaxOffset)
	}
	return d.opts.MinHz + (d.opts.MaxHz-d.opts.MinHz)*factor
}

// direction is +1 when the pointer is above its starting point.
func (d *dragStepper) direction() int {
	if d.offset < 0 {
		return 1
	}
	return -1
}

// advance moves the scheduler forward by dt and returns the step to apply
// (0, +1 or -1). At most one step is emitted per frame.
func (d *dragStepper) advance(dt time.Duration) int {
	if !d.dragging {
		d.settle(dt)
		return 0
	}

	d.sinceStep += dt
	hz := d.rate()
	if hz <= 0 {
		return 0
	}
	period := time.Duration(float64(time.Second) / hz)
	if d.sinceStep < period {
		return 0
	}
	d.sinceStep = 0
	return d.direction()
}

func (d *dragStepper) settle(dt time.Duration) {
	if d.offset == 0 {
		return
	}
	step := d.opts.ReturnSpeed * dt.Seconds()
	if d.offset > 0 {
		d.offset = math.Max(0, d.offset-step)
	} else {
		d.offset = math.Min(0, d.offset+step)
	}
	if math.Abs(d.offset) < 0.05 {
		d.offset = 0
	}
}
