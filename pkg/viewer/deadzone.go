package viewer

import (
	"sync"

	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// DefaultDeadZone is the smallest position or target change (scene units)
// worth sending.
const DefaultDeadZone = 1e-4

// DeadZone forwards a pose only when it differs from the last one sent by at
// least Threshold. Skipped poses count as applied. Failed sends are not
// remembered, so the next pose is always retried.
type DeadZone struct {
	next      movement.PoseSink
	threshold float64

	mu       sync.Mutex
	lastSent *movement.Pose
	skipped  uint64
}

// NewDeadZone wraps next. A non-positive threshold uses DefaultDeadZone.
func NewDeadZone(next movement.PoseSink, threshold float64) *DeadZone {
	if threshold <= 0 {
		threshold = DefaultDeadZone
	}
	return &DeadZone{next: next, threshold: threshold}
}

// ApplyPose implements movement.PoseSink.
func (d *DeadZone) ApplyPose(p movement.Pose) error {
	d.mu.Lock()
	if d.lastSent != nil && d.within(*d.lastSent, p) {
		d.skipped++
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	if err := d.next.ApplyPose(p); err != nil {
		return err
	}

	d.mu.Lock()
	d.lastSent = &p
	d.mu.Unlock()
	return nil
}

func (d *DeadZone) within(a, b movement.Pose) bool {
	return a.Position.Sub(b.Position).Len() < d.threshold &&
		a.Target.Sub(b.Target).Len() < d.threshold &&
		a.Up.Sub(b.Up).Len() < d.threshold
}

// Skipped returns how many poses were dropped.
func (d *DeadZone) Skipped() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.skipped
}
