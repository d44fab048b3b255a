package movement

import (
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-cinematic/pkg/easing"
)

func TestManager_AutoMoveRunsToCompletion(t *testing.T) {
	m, clock, sink := newTestManager()

	res, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, StateRunning, res.QueueState)
	assert.Equal(t, 0, res.Position, "started immediately")

	st, err := m.MovementStatus(res.MovementID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, st.Duration, floatTolerance)

	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{5, 0, 0}, sink.last().Position)

	m.Tick(clock.Advance(1500 * time.Millisecond))
	assertVec(t, mgl64.Vec3{10, 0, 0}, sink.last().Position)
	assert.Equal(t, StateIdle, m.State())

	st, err = m.MovementStatus(res.MovementID)
	require.NoError(t, err)
	assert.True(t, st.Completed)
	assert.Equal(t, string(OutcomeCompleted), st.Status)
	assert.Equal(t, 1.0, st.Progress)
}

func TestManager_EnqueueRejectsBeforeQueueing(t *testing.T) {
	m, _, _ := newTestManager()

	req := linearMove(pose(0, 0, 0), pose(10, 0, 0), 0, Auto)
	res, err := m.Enqueue(req)
	require.ErrorIs(t, err, ErrInvalidSpeed)
	assert.False(t, res.Success)

	snap := m.GetStatus()
	assert.Equal(t, StateIdle, snap.QueueState)
	assert.Equal(t, 0, snap.ActiveCount)
	assert.Equal(t, 0, snap.QueuedCount)
}

func TestManager_EnqueueValidation(t *testing.T) {
	m, _, _ := newTestManager()

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"bad mode", Request{ShotType: SetPosition, End: pose(0, 0, 0), Mode: "later"}, ErrInvalidMode},
		{"bad easing", Request{ShotType: SetPosition, End: pose(0, 0, 0), Easing: "wobble"}, ErrInvalidEasing},
		{"bad shot", Request{ShotType: "zoom"}, ErrInvalidShotType},
		{"instant negative duration", Request{ShotType: SetPosition, End: pose(0, 0, 0), Duration: -1}, ErrInvalidDuration},
		{"negative duration", Request{ShotType: SmoothMove, Start: pose(0, 0, 0), End: pose(1, 0, 0), Duration: -1}, ErrInvalidDuration},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Enqueue(tc.req)
			require.ErrorIs(t, err, tc.want)
			assert.True(t, IsValidation(err))
		})
	}
	assert.Equal(t, 0, m.GetStatus().QueuedCount)
}

func TestManager_DefaultsModeAndEasing(t *testing.T) {
	m, _, _ := newTestManager()

	res, err := m.Enqueue(Request{ShotType: SmoothMove, Start: pose(0, 0, 0), End: pose(1, 0, 0), Duration: 1})
	require.NoError(t, err)

	snap := m.GetStatus()
	require.NotNil(t, snap.Active)
	assert.Equal(t, res.MovementID, snap.Active.MovementID)
	assert.Equal(t, Auto, snap.Active.Mode)
	assert.Equal(t, easing.Default, m.active.mv.Easing)
}

func TestManager_ManualWaitsForPlay(t *testing.T) {
	m, clock, sink := newTestManager()

	res, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Manual))
	require.NoError(t, err)
	assert.Equal(t, StatePending, res.QueueState)
	assert.Equal(t, 1, res.Position)

	m.Tick(clock.Advance(time.Second))
	assert.Equal(t, 0, sink.count(), "manual shot must not move before play")

	play := m.Play()
	assert.True(t, play.Success)
	assert.Equal(t, res.MovementID, play.MovementID)
	assert.Equal(t, StateRunning, play.QueueState)

	// Elapsed time is measured from play, not enqueue.
	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{5, 0, 0}, sink.last().Position)
}

func TestManager_PlayNoOps(t *testing.T) {
	m, _, _ := newTestManager()

	res := m.Play()
	assert.False(t, res.Success)
	assert.Equal(t, StateIdle, res.QueueState)

	_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)

	res = m.Play()
	assert.False(t, res.Success, "play while running")
	assert.Equal(t, StateRunning, res.QueueState)
}

func TestManager_PauseResumeContinuity(t *testing.T) {
	m, clock, sink := newTestManager()

	_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)

	m.Tick(clock.Advance(500 * time.Millisecond))
	before := sink.last()

	pause := m.Pause()
	assert.True(t, pause.Success)
	assert.Equal(t, StatePaused, pause.QueueState)
	assert.False(t, m.Pause().Success, "double pause")

	n := sink.count()
	m.Tick(clock.Advance(10 * time.Second))
	assert.Equal(t, n, sink.count(), "no poses while paused")

	snap := m.GetStatus()
	require.NotNil(t, snap.Active)
	assert.Equal(t, string(StatePaused), snap.Active.Status)
	assert.InDelta(t, 0.5, snap.Active.Elapsed, 1e-6)
	assert.InDelta(t, 0.25, snap.Active.Progress, 1e-6)

	assert.True(t, m.Play().Success)
	m.Tick(clock.Now())
	assertVec(t, before.Position, sink.last().Position)

	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{7.5, 0, 0}, sink.last().Position)

	m.Tick(clock.Advance(500 * time.Millisecond))
	assertVec(t, mgl64.Vec3{10, 0, 0}, sink.last().Position)
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_MultiplePausesAccumulate(t *testing.T) {
	m, clock, _ := newTestManager()

	_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 1, Auto))
	require.NoError(t, err)

	for _i := 0; _i < 3; _i++ {
		clock.Advance(time.Second)
		m.Pause()
		clock.Advance(5 * time.Second)
		m.Play()
	}

	snap := m.GetStatus()
	require.NotNil(t, snap.Active)
	assert.InDelta(t, 3.0, snap.Active.Elapsed, 1e-6)
	assert.InDelta(t, 7.0, snap.Active.Remaining, 1e-6)
}

func TestManager_AutoCascadeWithinOneTick(t *testing.T) {
	m, clock, sink := newTestManager()

	first, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	second, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(0, 10, 0), 5, Auto))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)

	// 3s in: the first ended at 2s, the second has run for 1s.
	m.Tick(clock.Advance(3 * time.Second))

	poses := sink.all()
	require.Len(t, poses, 2)
	assertVec(t, mgl64.Vec3{10, 0, 0}, poses[0].Position)
	// The second starts where the first left the camera and converges on
	// its own path: halfway along, half the 10 unit gap remains.
	assertVec(t, mgl64.Vec3{5, 5, 0}, poses[1].Position)

	st, err := m.MovementStatus(first.MovementID)
	require.NoError(t, err)
	assert.True(t, st.Completed)

	st, err = m.MovementStatus(second.MovementID)
	require.NoError(t, err)
	assert.Equal(t, string(StateRunning), st.Status)
	assert.InDelta(t, 1.0, st.Elapsed, 1e-6)
}

func TestManager_TransitionRebasesFarStart(t *testing.T) {
	m, clock, sink := newTestManager()

	_, err := m.Enqueue(Request{ShotType: SetPosition, End: &Pose{
		Position: mgl64.Vec3{10, 0, 0},
		Target:   mgl64.Vec3{10, 5, 0},
		Up:       WorldUp,
	}})
	require.NoError(t, err)
	m.Tick(clock.Now())
	require.Equal(t, 1, sink.count())

	_, err = m.Enqueue(linearMove(pose(0, 0, 0), pose(0, 10, 0), 5, Auto))
	require.NoError(t, err)

	m.Tick(clock.Now())
	assertVec(t, mgl64.Vec3{10, 0, 0}, sink.last().Position)
	assertVec(t, mgl64.Vec3{10, 5, 0}, sink.last().Target)

	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{5, 5, 0}, sink.last().Position)
	assertVec(t, mgl64.Vec3{5, 2.5, 0}, sink.last().Target)

	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{0, 10, 0}, sink.last().Position)
	assertVec(t, mgl64.Vec3{}, sink.last().Target)
}

func TestManager_TransitionKeepsNearStart(t *testing.T) {
	m, clock, sink := newTestManager()

	_, err := m.Enqueue(Request{ShotType: SetPosition, End: pose(0.5, 0, 0)})
	require.NoError(t, err)
	m.Tick(clock.Now())

	_, err = m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)

	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{5, 0, 0}, sink.last().Position)
}

func TestManager_TransitionDisabled(t *testing.T) {
	cfg := quietConfig()
	cfg.TransitionThreshold = 0
	clock := newFakeClock()
	sink := &mockSink{}
	m := NewManager(cfg, clock, sink)

	_, err := m.Enqueue(Request{ShotType: SetPosition, End: pose(10, 0, 0)})
	require.NoError(t, err)
	m.Tick(clock.Now())

	_, err = m.Enqueue(linearMove(pose(0, 0, 0), pose(0, 10, 0), 5, Auto))
	require.NoError(t, err)

	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{0, 5, 0}, sink.last().Position)
}

func TestManager_PauseDuringFinalPoseHoldsFollower(t *testing.T) {
	m, clock, sink := newTestManager()

	first, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	second, err := m.Enqueue(linearMove(pose(10, 0, 0), pose(10, 10, 0), 5, Auto))
	require.NoError(t, err)

	var paused ControlResult
	sink.onApply = func(p Pose) {
		if p.Position == (mgl64.Vec3{10, 0, 0}) && !paused.Success {
			paused = m.Pause()
		}
	}

	m.Tick(clock.Advance(2500 * time.Millisecond))
	require.True(t, paused.Success)
	assert.Equal(t, 1, sink.count())
	assert.Equal(t, StatePending, m.State())

	st, err := m.MovementStatus(first.MovementID)
	require.NoError(t, err)
	assert.True(t, st.Completed)

	st, err = m.MovementStatus(second.MovementID)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, st.Status)

	m.Tick(clock.Advance(time.Second))
	assert.Equal(t, 1, sink.count(), "follower waits for play")

	play := m.Play()
	assert.True(t, play.Success)
	assert.Equal(t, second.MovementID, play.MovementID)

	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{10, 5, 0}, sink.last().Position)
}

func TestManager_ManualHeadHaltsCascade(t *testing.T) {
	m, clock, sink := newTestManager()

	_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	manual, err := m.Enqueue(linearMove(pose(10, 0, 0), pose(20, 0, 0), 5, Manual))
	require.NoError(t, err)

	m.Tick(clock.Advance(3 * time.Second))
	assert.Equal(t, 1, sink.count())
	assert.Equal(t, StatePending, m.State())

	snap := m.GetStatus()
	assert.Nil(t, snap.Active)
	require.Len(t, snap.Queued, 1)
	assert.Equal(t, manual.MovementID, snap.Queued[0].MovementID)

	assert.True(t, m.Play().Success)
	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{15, 0, 0}, sink.last().Position)
}

func TestManager_InstantShot(t *testing.T) {
	m, clock, sink := newTestManager()

	res, err := m.Enqueue(Request{ShotType: SetPosition, End: pose(1, 2, 3)})
	require.NoError(t, err)

	m.Tick(clock.Now())
	require.Equal(t, 1, sink.count())
	assertVec(t, mgl64.Vec3{1, 2, 3}, sink.last().Position)
	assert.Equal(t, StateIdle, m.State())

	st, err := m.MovementStatus(res.MovementID)
	require.NoError(t, err)
	assert.True(t, st.Completed)
	assert.Zero(t, st.Duration)
}

func TestManager_Stop(t *testing.T) {
	m, clock, sink := newTestManager()

	var ids []string
	for _i := 0; _i < 4; _i++ {
		res, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
		require.NoError(t, err)
		ids = append(ids, res.MovementID)
	}
	m.Tick(clock.Advance(500 * time.Millisecond))
	n := sink.count()

	res := m.Stop()
	assert.True(t, res.Success)
	assert.Equal(t, 4, res.StoppedCount)
	assert.Equal(t, StateIdle, res.QueueState)

	snap := m.GetStatus()
	assert.Equal(t, 0, snap.ActiveCount)
	assert.Equal(t, 0, snap.QueuedCount)
	assert.Zero(t, snap.TotalDuration)

	m.Tick(clock.Advance(time.Second))
	assert.Equal(t, n, sink.count(), "no poses after stop")

	for _, id := range ids {
		st, err := m.MovementStatus(id)
		require.NoError(t, err)
		assert.Equal(t, string(OutcomeStopped), st.Status)
	}

	again := m.Stop()
	assert.False(t, again.Success)
	assert.Zero(t, again.StoppedCount)
}

func TestManager_StopWhilePaused(t *testing.T) {
	m, clock, _ := newTestManager()

	_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	clock.Advance(time.Second)
	m.Pause()

	res := m.Stop()
	assert.Equal(t, 1, res.StoppedCount)
	assert.Equal(t, StateIdle, m.State())
}

func TestManager_SinkFailureFailsOnlyActive(t *testing.T) {
	m, clock, sink := newTestManager()
	sink.fail = 1

	first, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	second, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(0, 10, 0), 5, Auto))
	require.NoError(t, err)

	m.Tick(clock.Advance(time.Second))
	assert.Equal(t, 0, sink.count())

	st, err := m.MovementStatus(first.MovementID)
	require.NoError(t, err)
	assert.Equal(t, string(OutcomeFailed), st.Status)
	assert.Contains(t, st.Error, errSinkDown.Error())

	// The next movement started at the failure and emits on the next frame.
	assert.Equal(t, StateRunning, m.State())
	m.Tick(clock.Advance(time.Second))
	assertVec(t, mgl64.Vec3{0, 5, 0}, sink.last().Position)

	st, err = m.MovementStatus(second.MovementID)
	require.NoError(t, err)
	assert.Equal(t, string(StateRunning), st.Status)
}

func TestManager_TotalDuration(t *testing.T) {
	m, clock, _ := newTestManager()

	_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto)) // 2s
	require.NoError(t, err)
	_, err = m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto)) // 2s
	require.NoError(t, err)
	_, err = m.Enqueue(linearMove(pose(0, 0, 0), pose(20, 0, 0), 5, Manual)) // 4s
	require.NoError(t, err)

	m.Tick(clock.Advance(500 * time.Millisecond))

	snap := m.GetStatus()
	require.NotNil(t, snap.Active)
	assert.Equal(t, 1, snap.ActiveCount)
	assert.Equal(t, 2, snap.QueuedCount)
	assert.InDelta(t, 1.5, snap.Active.Remaining, 1e-6)
	assert.InDelta(t, 7.5, snap.TotalDuration, 1e-6)
	assert.InDelta(t, snap.TotalDuration, snap.EstimatedRemaining, floatTolerance)

	require.Len(t, snap.Queued, 2)
	assert.InDelta(t, 1.5, snap.Queued[0].EstimatedStart, 1e-6)
	assert.InDelta(t, 3.5, snap.Queued[1].EstimatedStart, 1e-6)
	assert.Equal(t, 1, snap.Queued[0].Position)
	assert.Equal(t, Manual, snap.Queued[1].Mode)

	sum := snap.Active.Remaining
	for _, q := range snap.Queued {
		sum += q.Duration
	}
	assert.InDelta(t, sum, snap.TotalDuration, 1e-6)
}

func TestManager_QueueFull(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxQueueSize = 2
	m := NewManager(cfg, newFakeClock(), &mockSink{})

	for _i := 0; _i < 3; _i++ { // one active, two queued
		_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
		require.NoError(t, err)
	}
	_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 2, m.GetStatus().QueuedCount)
}

func TestManager_RemoveAndClear(t *testing.T) {
	m, _, _ := newTestManager()

	active, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	queued, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	_, err = m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)

	require.ErrorIs(t, m.Remove(active.MovementID), ErrActiveMovement)
	require.NoError(t, m.Remove(queued.MovementID))
	assert.True(t, IsNotFound(m.Remove("nope")))
	assert.Equal(t, 1, m.GetStatus().QueuedCount)

	assert.Equal(t, 1, m.ClearQueue())
	snap := m.GetStatus()
	assert.Equal(t, 0, snap.QueuedCount)
	assert.Equal(t, 1, snap.ActiveCount)
	assert.Equal(t, StateRunning, snap.QueueState)
}

func TestManager_RemoveReleasesSlot(t *testing.T) {
	m, _, _ := newTestManager()

	var ids []string
	for _i := 0; _i < 3; _i++ {
		res, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Manual))
		require.NoError(t, err)
		ids = append(ids, res.MovementID)
	}
	require.NoError(t, m.Remove(ids[0]))

	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.queue, 2)
	assert.Equal(t, ids[1], m.queue[0].ID)
	assert.Equal(t, ids[2], m.queue[1].ID)
	assert.Nil(t, m.queue[:3][2], "removed movement still referenced")
}

func TestManager_ClampsLongDuration(t *testing.T) {
	m, _, _ := newTestManager()

	res, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 1e-12, Auto))
	require.NoError(t, err)

	st, err := m.MovementStatus(res.MovementID)
	require.NoError(t, err)
	assert.InDelta(t, DefaultMaxDuration.Seconds(), st.Duration, floatTolerance)
}

func TestManager_RemovePendingHeadStartsAutoFollower(t *testing.T) {
	m, _, _ := newTestManager()

	manual, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Manual))
	require.NoError(t, err)
	follower, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	assert.Equal(t, StatePending, m.State())

	require.NoError(t, m.Remove(manual.MovementID))
	snap := m.GetStatus()
	assert.Equal(t, StateRunning, snap.QueueState)
	require.NotNil(t, snap.Active)
	assert.Equal(t, follower.MovementID, snap.Active.MovementID)
}

func TestManager_HistoryEviction(t *testing.T) {
	cfg := quietConfig()
	cfg.HistoryLimit = 2
	clock := newFakeClock()
	m := NewManager(cfg, clock, &mockSink{})

	var ids []string
	for _i := 0; _i < 3; _i++ {
		res, err := m.Enqueue(Request{ShotType: SetPosition, End: pose(1, 0, 0)})
		require.NoError(t, err)
		ids = append(ids, res.MovementID)
		m.Tick(clock.Advance(10 * time.Millisecond))
	}

	_, err := m.MovementStatus(ids[0])
	assert.True(t, IsNotFound(err))
	for _, id := range ids[1:] {
		st, err := m.MovementStatus(id)
		require.NoError(t, err)
		assert.True(t, st.Completed)
	}
}

func TestManager_MovementStatusQueued(t *testing.T) {
	m, _, _ := newTestManager()

	_, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Auto))
	require.NoError(t, err)
	queued, err := m.Enqueue(linearMove(pose(0, 0, 0), pose(10, 0, 0), 5, Manual))
	require.NoError(t, err)

	st, err := m.MovementStatus(queued.MovementID)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, st.Status)
	assert.Equal(t, 1, st.QueuePosition)
	assert.False(t, st.Completed)
}

func TestManager_FrameObjectUsesBoundsProvider(t *testing.T) {
	m, clock, sink := newTestManager()

	_, err := m.Enqueue(Request{ShotType: FrameObject, ObjectPath: "/World/Robot", Duration: 1})
	require.ErrorIs(t, err, ErrNoBoundsProvider)

	m.SetBoundsProvider(staticBounds{
		"/World/Robot": {Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
	})
	_, err = m.Enqueue(Request{ShotType: FrameObject, ObjectPath: "/World/Robot", Duration: 1})
	require.NoError(t, err)

	m.Tick(clock.Advance(2 * time.Second))
	assertVec(t, mgl64.Vec3{0, 5, 1}, sink.last().Position)
}

func TestManager_ConcurrentCommands(t *testing.T) {
	m, clock, _ := newTestManager()

	var wg sync.WaitGroup
	for _i := 0; _i < 4; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _i := 0; _i < 25; _i++ {
				_, _ = m.Enqueue(linearMove(pose(0, 0, 0), pose(1, 0, 0), 10, Auto))
				m.Pause()
				m.Play()
				_ = m.GetStatus()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _i := 0; _i < 200; _i++ {
			m.Tick(clock.Advance(5 * time.Millisecond))
		}
	}()

	wg.Wait()
	<-done

	m.Stop()
	snap := m.GetStatus()
	assert.Equal(t, StateIdle, snap.QueueState)
	assert.Equal(t, 0, snap.ActiveCount+snap.QueuedCount)
}
