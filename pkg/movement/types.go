// Package movement implements the cinematic movement queue and execution
// engine. Callers enqueue camera shots and issue play/pause/stop commands from
// any goroutine; the render host calls Manager.Tick once per frame, which
// advances the active shot and hands the resulting pose to a PoseSink.
//
// Architecture:
//   - Shots are queued FIFO; at most one is active at a time
//   - Auto shots start as soon as they reach the head, manual shots wait for Play
//   - All state lives behind one mutex; poses are emitted only from Tick
package movement

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-cinematic/pkg/easing"
)

// WorldUp is the default camera up vector (the host scene is Z-up).
var WorldUp = mgl64.Vec3{0, 0, 1}

// Pose is a complete camera placement.
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Up       mgl64.Vec3 `json:"up"`
}

// withDefaults fills a zero up vector with WorldUp.
func (p Pose) withDefaults() Pose {
	if p.Up.Len() < epsilon {
		p.Up = WorldUp
	}
	return p
}

// Lerp interpolates between p and other. Up is re-normalized.
func (p Pose) Lerp(other Pose, t float64) Pose {
	return Pose{
		Position: lerpVec(p.Position, other.Position, t),
		Target:   lerpVec(p.Target, other.Target, t),
		Up:       lerpUp(p.Up, other.Up, t),
	}
}

// BoundingBox is an axis-aligned world-space box.
type BoundingBox struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// MaxExtent returns the largest side length.
func (b BoundingBox) MaxExtent() float64 {
	size := b.Max.Sub(b.Min)
	return max(size.X(), size.Y(), size.Z())
}

// IsEmpty reports whether the box has no volume along every axis.
func (b BoundingBox) IsEmpty() bool {
	return b.MaxExtent() <= 0
}

// ShotType is the camera movement algorithm.
type ShotType string

// Shot types.
const (
	SmoothMove      ShotType = "smooth_move"
	ArcShot         ShotType = "arc_shot"
	Orbit           ShotType = "orbit"
	FrameObject     ShotType = "frame_object"
	SetPosition     ShotType = "set_position"
	SetCameraTarget ShotType = "set_camera_target"
)

// ShotTypes returns every supported shot type.
func ShotTypes() []ShotType {
	return []ShotType{SmoothMove, ArcShot, Orbit, FrameObject, SetPosition, SetCameraTarget}
}

// ExecutionMode controls whether a queued shot starts by itself.
type ExecutionMode string

// Execution modes.
const (
	Auto   ExecutionMode = "auto"
	Manual ExecutionMode = "manual"
)

// QueueState is the engine-wide state.
type QueueState string

// Queue states.
const (
	StateIdle    QueueState = "idle"    // nothing active, queue empty
	StateRunning QueueState = "running" // active movement advancing
	StatePaused  QueueState = "paused"  // active movement frozen
	StatePending QueueState = "pending" // manual head waiting for Play
	StateStopped QueueState = "stopped" // transient, settles to idle
)

// OrbitParams describes a spherical orbit. Angles are in degrees.
type OrbitParams struct {
	Center         mgl64.Vec3
	Distance       float64
	StartAzimuth   float64
	EndAzimuth     float64
	StartElevation float64
	EndElevation   float64
}

// Request is a caller's description of a shot. It is validated and frozen
// into a Movement by Manager.Enqueue.
type Request struct {
	ShotType ShotType

	// Start and End are nil when not supplied.
	Start *Pose
	End   *Pose

	// Speed (units/second) and Duration (seconds); zero means not supplied.
	// Duration wins when both are set.
	Speed    float64
	Duration float64

	Easing easing.Type
	Mode   ExecutionMode

	// Orbit is required for orbit shots.
	Orbit *OrbitParams

	// ObjectPath and FrameDistance drive frame_object. A zero FrameDistance
	// derives the distance from the object's bounds.
	ObjectPath    string
	FrameDistance float64

	// Curvature scales the arc_shot bend; zero uses DefaultCurvature.
	Curvature float64
}

// Clock supplies monotonic time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock (time.Now carries a monotonic reading).
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// PoseSink applies a computed pose to the live camera. It is only ever called
// from Manager.Tick.
type PoseSink interface {
	ApplyPose(p Pose) error
}

// BoundsProvider resolves an object's world-space bounds. It is queried once
// per frame_object shot, at enqueue time.
type BoundsProvider interface {
	ObjectBounds(ref string) (BoundingBox, error)
}
