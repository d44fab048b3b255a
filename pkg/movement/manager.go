package movement

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-cinematic/internal/log"
)

// activeMovement wraps the one movement currently owning the camera.
// effectiveStart is startedAt shifted by every completed pause, so
// now-effectiveStart is the continuous elapsed time.
type activeMovement struct {
	mv               *Movement
	startedAt        time.Time
	accumulatedPause time.Duration
	effectiveStart   time.Time
	pausedAt         time.Time
	paused           bool

	// lead is the offset from the movement's own first pose to where the
	// camera actually was at start. It fades out with eased progress.
	lead *Pose
}

func newActive(mv *Movement, at time.Time) *activeMovement {
	return &activeMovement{mv: mv, startedAt: at, effectiveStart: at}
}

// poseAt is the movement's pose at linear progress, shifted by lead.
func (a *activeMovement) poseAt(progress float64) Pose {
	p := a.mv.PoseAt(progress)
	if a.lead == nil {
		return p
	}
	w := 1 - a.mv.eased(progress)
	p.Position = p.Position.Add(a.lead.Position.Mul(w))
	p.Target = p.Target.Add(a.lead.Target.Mul(w))
	return p
}

func (a *activeMovement) elapsed(now time.Time) time.Duration {
	if a.paused {
		now = a.pausedAt
	}
	e := now.Sub(a.effectiveStart)
	if e < 0 {
		return 0
	}
	return e
}

func (a *activeMovement) remaining(now time.Time) time.Duration {
	r := a.mv.Duration - a.elapsed(now)
	if r < 0 {
		return 0
	}
	return r
}

func (a *activeMovement) progress(now time.Time) float64 {
	if a.mv.Duration <= 0 {
		return 0
	}
	return min(float64(a.elapsed(now))/float64(a.mv.Duration), 1)
}

func (a *activeMovement) pause(now time.Time) {
	a.pausedAt = now
	a.paused = true
}

func (a *activeMovement) resume(now time.Time) {
	a.accumulatedPause += now.Sub(a.pausedAt)
	a.effectiveStart = a.startedAt.Add(a.accumulatedPause)
	a.pausedAt = time.Time{}
	a.paused = false
}

func (a *activeMovement) status() string {
	if a.paused {
		return string(StatePaused)
	}
	return string(StateRunning)
}

type discardSink struct{}

func (discardSink) ApplyPose(Pose) error { return nil }

// Manager owns the movement queue, the active movement and the queue state.
// Enqueue, Play, Pause, Stop and the status readers are safe from any
// goroutine. Tick must only be called from the host's frame callback.
type Manager struct {
	cfg    Config
	clock  Clock
	sink   PoseSink
	logger *slog.Logger

	// mu guards everything below; it is the single consistency boundary
	// for mutations and snapshots.
	mu      sync.Mutex
	bounds  BoundsProvider
	state   QueueState
	queue   []*Movement
	active  *activeMovement
	history *history

	// lastPose is the last pose the sink accepted; nil until the first.
	lastPose *Pose

	// held keeps an auto head waiting for Play after a pause that landed
	// as the previous movement finished.
	held bool

	ticking atomic.Bool

	// Diagnostics
	tickCount  atomic.Uint64
	errorCount atomic.Uint64
}

// NewManager creates an idle engine. A nil clock uses SystemClock; a nil
// sink discards poses.
func NewManager(cfg Config, clock Clock, sink PoseSink) *Manager {
	if clock == nil {
		clock = SystemClock{}
	}
	if sink == nil {
		sink = discardSink{}
	}
	if cfg.DefaultEasing == "" {
		cfg.DefaultEasing = DefaultConfig().DefaultEasing
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.With("component", "movement")
	}
	return &Manager{
		cfg:     cfg,
		clock:   clock,
		sink:    sink,
		logger:  logger,
		state:   StateIdle,
		history: newHistory(cfg.HistoryLimit),
	}
}

// SetBoundsProvider sets the object bounds lookup used by frame_object shots.
func (m *Manager) SetBoundsProvider(b BoundsProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bounds = b
}

// EnqueueResult reports an accepted movement.
type EnqueueResult struct {
	Success    bool       `json:"success"`
	MovementID string     `json:"movement_id,omitempty"`
	QueueState QueueState `json:"queue_state"`
	// Position is 0 when the movement started immediately, otherwise its
	// 1-based place in the queue.
	Position int `json:"position"`
}

// ControlResult reports the effect of Play or Pause.
type ControlResult struct {
	Success    bool       `json:"success"`
	QueueState QueueState `json:"queue_state"`
	MovementID string     `json:"movement_id,omitempty"`
}

// StopResult reports the effect of Stop.
type StopResult struct {
	Success      bool       `json:"success"`
	StoppedCount int        `json:"stopped_count"`
	QueueState   QueueState `json:"queue_state"`
}

// Enqueue validates req and appends it to the queue. An auto movement
// arriving at an idle engine starts immediately; its first pose is emitted
// by the next Tick.
func (m *Manager) Enqueue(req Request) (EnqueueResult, error) {
	m.mu.Lock()
	bounds := m.bounds
	m.mu.Unlock()

	mv, err := newMovement(uuid.NewString(), req, m.cfg, bounds, m.clock.Now())
	if err != nil {
		m.logger.Debug("movement rejected", "shot", req.ShotType, "error", err)
		return EnqueueResult{QueueState: m.State()}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.MaxQueueSize > 0 && len(m.queue) >= m.cfg.MaxQueueSize {
		return EnqueueResult{QueueState: m.state}, fmt.Errorf("%w (max %d movements)", ErrQueueFull, m.cfg.MaxQueueSize)
	}

	m.queue = append(m.queue, mv)
	res := EnqueueResult{Success: true, MovementID: mv.ID, Position: len(m.queue)}

	m.logger.Info("movement queued",
		"movement_id", mv.ID,
		"shot", mv.ShotType,
		"mode", mv.Mode,
		"duration", mv.Duration,
		"position", res.Position)

	if m.state == StateIdle {
		if m.advanceLocked(m.clock.Now()) {
			res.Position = 0
		}
	}

	res.QueueState = m.state
	return res, nil
}

// Play resumes a paused movement, or starts the queue head regardless of its
// execution mode. It never reaches past the head.
func (m *Manager) Play() ControlResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	switch {
	case m.active != nil && m.active.paused:
		m.active.resume(now)
		m.setStateLocked(StateRunning)
		m.logger.Info("movement resumed",
			"movement_id", m.active.mv.ID,
			"paused_total", m.active.accumulatedPause)
		return ControlResult{Success: true, QueueState: m.state, MovementID: m.active.mv.ID}

	case m.active != nil:
		return ControlResult{QueueState: m.state, MovementID: m.active.mv.ID}

	case len(m.queue) == 0:
		return ControlResult{QueueState: m.state}

	default:
		mv := m.startHeadLocked(now)
		return ControlResult{Success: true, QueueState: m.state, MovementID: mv.ID}
	}
}

// Pause freezes the running movement. The camera keeps its last pose.
func (m *Manager) Pause() ControlResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil || m.active.paused {
		return ControlResult{QueueState: m.state}
	}

	now := m.clock.Now()
	m.active.pause(now)
	m.setStateLocked(StatePaused)
	m.logger.Info("movement paused",
		"movement_id", m.active.mv.ID,
		"elapsed", m.active.elapsed(now))
	return ControlResult{Success: true, QueueState: m.state, MovementID: m.active.mv.ID}
}

// Stop discards the active movement and clears the queue.
func (m *Manager) Stop() StopResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	count := len(m.queue)
	for _, mv := range m.queue {
		m.history.record(mv, OutcomeStopped, nil, now)
	}
	m.queue = nil
	m.held = false

	if m.active != nil {
		m.history.record(m.active.mv, OutcomeStopped, nil, now)
		m.active = nil
		count++
	}

	if count > 0 {
		m.setStateLocked(StateStopped)
		m.logger.Info("queue stopped", "stopped_count", count)
	}
	m.setStateLocked(StateIdle)

	return StopResult{Success: count > 0, StoppedCount: count, QueueState: m.state}
}

// ClearQueue drops every queued movement but keeps the active one.
// It returns how many were removed.
func (m *Manager) ClearQueue() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	n := len(m.queue)
	for _, mv := range m.queue {
		m.history.record(mv, OutcomeStopped, nil, now)
	}
	m.queue = nil
	m.held = false
	if m.active == nil {
		m.setStateLocked(StateIdle)
	}
	if n > 0 {
		m.logger.Info("queue cleared", "cleared_count", n)
	}
	return n
}

// Remove drops one queued movement. The active movement cannot be removed;
// use Stop instead.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && m.active.mv.ID == id {
		return fmt.Errorf("%w: %s (use stop)", ErrActiveMovement, id)
	}
	for i, mv := range m.queue {
		if mv.ID != id {
			continue
		}
		copy(m.queue[i:], m.queue[i+1:])
		m.queue[len(m.queue)-1] = nil
		m.queue = m.queue[:len(m.queue)-1]
		m.history.record(mv, OutcomeStopped, nil, m.clock.Now())
		m.logger.Info("movement removed", "movement_id", id)
		if m.active == nil {
			m.advanceLocked(m.clock.Now())
		}
		return nil
	}
	return &NotFoundError{MovementID: id}
}

// State returns the current queue state.
func (m *Manager) State() QueueState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// startHeadLocked makes the queue head active at time at.
func (m *Manager) startHeadLocked(at time.Time) *Movement {
	mv := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]

	m.held = false
	m.active = newActive(mv, at)
	m.active.lead = m.leadLocked(mv)
	m.setStateLocked(StateRunning)
	m.logger.Info("movement started",
		"movement_id", mv.ID,
		"shot", mv.ShotType,
		"mode", mv.Mode,
		"duration", mv.Duration,
		"queued", len(m.queue))
	return mv
}

// leadLocked returns the offset that re-bases mv onto the camera's current
// pose, or nil when the camera is within TransitionThreshold of mv's first
// pose. Instant shots jump by definition.
func (m *Manager) leadLocked(mv *Movement) *Pose {
	threshold := m.cfg.TransitionThreshold
	if threshold <= 0 || m.lastPose == nil || mv.gen.Instant() {
		return nil
	}
	first := mv.PoseAt(0)
	gap := Distance(m.lastPose.Position, first.Position)
	if gap <= threshold {
		return nil
	}
	m.logger.Debug("smoothing transition",
		"movement_id", mv.ID,
		"from", m.lastPose.Position,
		"to", first.Position,
		"gap", gap)
	return &Pose{
		Position: m.lastPose.Position.Sub(first.Position),
		Target:   m.lastPose.Target.Sub(first.Target),
	}
}

// advanceLocked applies the auto-advance/manual-gate rules when nothing is
// active. It reports whether a movement is now active.
func (m *Manager) advanceLocked(at time.Time) bool {
	if m.active != nil {
		return true
	}
	if len(m.queue) == 0 {
		m.held = false
		m.setStateLocked(StateIdle)
		return false
	}
	if m.held || m.queue[0].Mode == Manual {
		if m.state != StatePending {
			m.logger.Info("waiting for play", "movement_id", m.queue[0].ID)
		}
		m.setStateLocked(StatePending)
		return false
	}
	m.startHeadLocked(at)
	return true
}

func (m *Manager) setStateLocked(s QueueState) {
	if m.state == s {
		return
	}
	m.logger.Debug("queue state transition", "from", m.state, "to", s)
	m.state = s
}
