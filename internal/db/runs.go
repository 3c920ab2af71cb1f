package db

import (
	"github.com/google/uuid"
	"github.com/luccascomvoce/temporizador/internal/model"
)

// InsertRun stores a finished run segment, assigning an ID when empty
func (db *DB) InsertRun(r *model.Run) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	_, err := db.Exec(`
		INSERT INTO runs (id, planned_seconds, remaining_seconds, outcome, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.PlannedSeconds, r.RemainingSeconds, r.Outcome, r.StartedAt, r.EndedAt)
	return err
}

// ListRuns returns the most recent runs first. limit <= 0 returns all of them.
func (db *DB) ListRuns(limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`
		SELECT id, planned_seconds, remaining_seconds, outcome, started_at, ended_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.PlannedSeconds, &r.RemainingSeconds, &r.Outcome, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunTotals returns how many runs completed and the seconds counted down
// across every run
func (db *DB) RunTotals() (completed int, elapsed int, err error) {
	err = db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(planned_seconds - remaining_seconds), 0)
		FROM runs
	`).Scan(&completed, &elapsed)
	return completed, elapsed, err
}
