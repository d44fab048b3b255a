package movement

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/teslashibe/go-cinematic/internal/log"
	"github.com/teslashibe/go-cinematic/pkg/easing"
)

const floatTolerance = 1e-9

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: t0}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// mockSink records every pose it is handed.
type mockSink struct {
	mu      sync.Mutex
	poses   []Pose
	fail    int        // reject this many calls before accepting
	onApply func(Pose) // runs after an accepted pose, outside mu
}

var errSinkDown = errors.New("viewer unreachable")

func (s *mockSink) ApplyPose(p Pose) error {
	s.mu.Lock()
	if s.fail > 0 {
		s.fail--
		s.mu.Unlock()
		return errSinkDown
	}
	s.poses = append(s.poses, p)
	hook := s.onApply
	s.mu.Unlock()

	if hook != nil {
		hook(p)
	}
	return nil
}

func (s *mockSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.poses)
}

func (s *mockSink) last() Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.poses) == 0 {
		return Pose{}
	}
	return s.poses[len(s.poses)-1]
}

func (s *mockSink) all() []Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Pose(nil), s.poses...)
}

// staticBounds serves fixed boxes by object path.
type staticBounds map[string]BoundingBox

func (b staticBounds) ObjectBounds(ref string) (BoundingBox, error) {
	box, ok := b[ref]
	if !ok {
		return BoundingBox{}, errors.New("no such prim")
	}
	return box, nil
}

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Logger = log.Discard()
	return cfg
}

func newTestManager() (*Manager, *fakeClock, *mockSink) {
	clock := newFakeClock()
	sink := &mockSink{}
	return NewManager(quietConfig(), clock, sink), clock, sink
}

func pose(x, y, z float64) *Pose {
	return &Pose{Position: mgl64.Vec3{x, y, z}, Up: WorldUp}
}

// linearMove is a smooth_move from a to b at the given speed.
func linearMove(a, b *Pose, speed float64, mode ExecutionMode) Request {
	return Request{
		ShotType: SmoothMove,
		Start:    a,
		End:      b,
		Speed:    speed,
		Easing:   easing.Linear,
		Mode:     mode,
	}
}

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-6, "component %d of %v", i, got)
	}
}
