package movement

import (
	"time"
)

// ActiveSummary describes the active movement. Times are in seconds.
type ActiveSummary struct {
	MovementID string        `json:"movement_id"`
	ShotType   ShotType      `json:"operation"`
	Mode       ExecutionMode `json:"execution_mode"`
	Status     string        `json:"status"`
	Progress   float64       `json:"progress"`
	Elapsed    float64       `json:"elapsed_time"`
	Remaining  float64       `json:"remaining_time"`
	Duration   float64       `json:"total_duration"`
}

// QueuedSummary describes one queued movement. Times are in seconds.
type QueuedSummary struct {
	MovementID string        `json:"movement_id"`
	ShotType   ShotType      `json:"operation"`
	Mode       ExecutionMode `json:"execution_mode"`
	Duration   float64       `json:"duration"`
	// EstimatedStart is the offset from now at which the movement would
	// start if nothing is paused or gated.
	EstimatedStart float64 `json:"estimated_start_time"`
	Position       int     `json:"position"`
}

// Snapshot is a consistent copy of the engine's status.
type Snapshot struct {
	QueueState         QueueState      `json:"queue_state"`
	ActiveCount        int             `json:"active_count"`
	QueuedCount        int             `json:"queued_count"`
	Active             *ActiveSummary  `json:"active,omitempty"`
	Queued             []QueuedSummary `json:"queued_shots"`
	TotalDuration      float64         `json:"total_duration"`
	EstimatedRemaining float64         `json:"estimated_remaining"`
	Timestamp          time.Time       `json:"timestamp"`
}

// GetStatus copies out the engine state under the same lock every mutation
// takes. Durations are re-derived on each call.
func (m *Manager) GetStatus() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	snap := Snapshot{
		QueueState:  m.state,
		QueuedCount: len(m.queue),
		Queued:      make([]QueuedSummary, 0, len(m.queue)),
		Timestamp:   now,
	}

	var total time.Duration
	if a := m.active; a != nil {
		remaining := a.remaining(now)
		snap.ActiveCount = 1
		snap.Active = &ActiveSummary{
			MovementID: a.mv.ID,
			ShotType:   a.mv.ShotType,
			Mode:       a.mv.Mode,
			Status:     a.status(),
			Progress:   a.progress(now),
			Elapsed:    a.elapsed(now).Seconds(),
			Remaining:  remaining.Seconds(),
			Duration:   a.mv.Duration.Seconds(),
		}
		total = remaining
	}

	for i, mv := range m.queue {
		snap.Queued = append(snap.Queued, QueuedSummary{
			MovementID:     mv.ID,
			ShotType:       mv.ShotType,
			Mode:           mv.Mode,
			Duration:       mv.Duration.Seconds(),
			EstimatedStart: total.Seconds(),
			Position:       i + 1,
		})
		total += mv.Duration
	}

	snap.TotalDuration = total.Seconds()
	snap.EstimatedRemaining = snap.TotalDuration
	return snap
}

// MovementStatus describes one movement, wherever it is.
type MovementStatus struct {
	MovementID    string   `json:"movement_id"`
	Found         bool     `json:"found"`
	ShotType      ShotType `json:"operation,omitempty"`
	Status        string   `json:"status"`
	Progress      float64  `json:"progress"`
	Completed     bool     `json:"completed"`
	Elapsed       float64  `json:"elapsed_time"`
	Duration      float64  `json:"total_duration"`
	QueuePosition int      `json:"queue_position"`
	Error         string   `json:"error,omitempty"`
}

// Movement statuses beyond the queue states.
const (
	StatusQueued = "queued"
)

// MovementStatus reports on an active, queued or recently finished movement.
// Unknown ids return a *NotFoundError.
func (m *Manager) MovementStatus(id string) (MovementStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if a := m.active; a != nil && a.mv.ID == id {
		return MovementStatus{
			MovementID: id,
			Found:      true,
			ShotType:   a.mv.ShotType,
			Status:     a.status(),
			Progress:   a.progress(now),
			Elapsed:    a.elapsed(now).Seconds(),
			Duration:   a.mv.Duration.Seconds(),
		}, nil
	}

	for i, mv := range m.queue {
		if mv.ID == id {
			return MovementStatus{
				MovementID:    id,
				Found:         true,
				ShotType:      mv.ShotType,
				Status:        StatusQueued,
				Duration:      mv.Duration.Seconds(),
				QueuePosition: i + 1,
			}, nil
		}
	}

	if rec, ok := m.history.lookup(id); ok {
		st := MovementStatus{
			MovementID: id,
			Found:      true,
			ShotType:   rec.shotType,
			Status:     string(rec.outcome),
			Completed:  rec.outcome == OutcomeCompleted,
			Error:      rec.err,
		}
		if st.Completed {
			st.Progress = 1
		}
		return st, nil
	}

	return MovementStatus{MovementID: id}, &NotFoundError{MovementID: id}
}
