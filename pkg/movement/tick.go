package movement

import (
	"time"
)

// heartbeatTicks is how often Tick logs a debug heartbeat.
const heartbeatTicks = 300

// emission is one pose to hand to the sink.
type emission struct {
	active *activeMovement
	pose   Pose
	final  bool
	endAt  time.Time
}

// Tick advances the engine to now and emits at most one pose per movement
// reached. It is the host frame callback's entry point and must only be
// called from that one goroutine; overlapping calls are dropped.
//
// A completed movement emits its final pose and the next auto movement starts
// at the exact completion instant within the same call. A pose the sink
// rejects aborts only the active movement; the queue moves on next frame.
func (m *Manager) Tick(now time.Time) {
	if !m.ticking.CompareAndSwap(false, true) {
		m.logger.Warn("overlapping tick dropped")
		return
	}
	defer m.ticking.Store(false)

	n := m.tickCount.Add(1)
	if n%heartbeatTicks == 0 {
		m.logger.Debug("tick heartbeat", "ticks", n, "errors", m.errorCount.Load())
	}

	for {
		e, ok := m.nextEmission(now)
		if !ok {
			return
		}
		// The sink may be slow (network, render host); never hold mu here.
		err := m.sink.ApplyPose(e.pose)
		if !m.settle(e, err, now) {
			return
		}
	}
}

// nextEmission decides what the active movement should show at now,
// starting the next auto movement first when nothing is active.
func (m *Manager) nextEmission(now time.Time) (emission, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.advanceLocked(now) {
		return emission{}, false
	}

	a := m.active
	if a.paused {
		return emission{}, false
	}

	elapsed := now.Sub(a.effectiveStart)
	if elapsed >= a.mv.Duration {
		return emission{
			active: a,
			pose:   a.mv.FinalPose(),
			final:  true,
			endAt:  a.effectiveStart.Add(a.mv.Duration),
		}, true
	}

	progress := float64(elapsed) / float64(a.mv.Duration)
	return emission{active: a, pose: a.poseAt(progress)}, true
}

// settle records the result of an emission. It reports whether Tick should
// keep going (a movement completed and another one started).
func (m *Manager) settle(e emission, err error, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The camera is wherever the sink put it, even if the movement was
	// stopped meanwhile.
	if err == nil {
		p := e.pose
		m.lastPose = &p
	}

	// Stopped or replaced while the sink was busy.
	if m.active != e.active {
		return false
	}

	id := e.active.mv.ID
	if err != nil {
		sinkErr := &SinkError{MovementID: id, Err: err}
		n := m.errorCount.Add(1)
		if n == 1 || n%100 == 0 {
			m.logger.Warn("movement failed", "movement_id", id, "error", err, "total_errors", n)
		}
		m.history.record(e.active.mv, OutcomeFailed, sinkErr, now)
		m.active = nil
		// The next head starts now but emits nothing until the next frame.
		m.advanceLocked(now)
		return false
	}

	if !e.final {
		return false
	}

	m.history.record(e.active.mv, OutcomeCompleted, nil, e.endAt)
	m.active = nil
	m.logger.Info("movement completed", "movement_id", id, "shot", e.active.mv.ShotType)

	// Paused while the final pose was in flight: the pause carries over to
	// the next movement, which waits for Play.
	if e.active.paused {
		m.held = len(m.queue) > 0
		m.advanceLocked(e.endAt)
		return false
	}

	// Zero gap: the follower's clock starts where this one ended.
	return m.advanceLocked(e.endAt)
}
