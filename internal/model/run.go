package model

import (
	"time"
)

// Outcome tells how a running segment ended
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomePaused    Outcome = "paused"
	// OutcomeAbandoned is recorded when the program exits mid-run
	OutcomeAbandoned Outcome = "abandoned"
)

// Run is one Running segment of the countdown, from start to pause or completion
type Run struct {
	ID               string    `json:"id"`
	PlannedSeconds   int       `json:"planned_seconds"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Outcome          Outcome   `json:"outcome"`
	StartedAt        time.Time `json:"started_at"`
	EndedAt          time.Time `json:"ended_at"`
}

// ElapsedSeconds returns how many seconds were counted down
func (r *Run) ElapsedSeconds() int {
	if r.RemainingSeconds >= r.PlannedSeconds {
		return 0
	}
	return r.PlannedSeconds - r.RemainingSeconds
}

// WallTime returns the wall clock time between start and end
func (r *Run) WallTime() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
