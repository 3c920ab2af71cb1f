package timer

import (
	"time"

	"github.com/luccascomvoce/temporizador/internal/duration"
)

// State is the run state of the countdown.
type State int

const (
	Stopped State = iota
	Running
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// EffectType names a side effect the presentation layer has to carry out.
type EffectType string

const (
	EffectStarted   EffectType = "Started"
	EffectPaused    EffectType = "Paused"
	EffectRejected  EffectType = "StartRejected"
	EffectCompleted EffectType = "Completed"
	EffectReset     EffectType = "Reset"
)

// Effect is produced by the controller without being executed. Adapters (the
// TUI, the shell, the headless runner) decide how to play sounds, schedule
// ticks and record history.
type Effect struct {
	Type EffectType
	// Value is the duration at the moment the effect was produced.
	Value duration.Value
	// Seq is the run sequence for Started and the reset sequence for
	// Completed, to be echoed back through Tick and ResetElapsed.
	Seq uint64
	// Delay is set on Completed when the reset is deferred.
	Delay time.Duration
}

// Status returns the user-facing status line for an effect.
func (e Effect) Status() string {
	switch e.Type {
	case EffectStarted:
		return "O temporizador começou."
	case EffectPaused:
		return "O temporizador foi pausado."
	case EffectRejected:
		return "Defina um tempo válido para iniciar."
	case EffectCompleted:
		return "O tempo acabou."
	default:
		return ""
	}
}

// Has reports whether effects contains one of type t.
func Has(effects []Effect, t EffectType) bool {
	for _, e := range effects {
		if e.Type == t {
			return true
		}
	}
	return false
}
