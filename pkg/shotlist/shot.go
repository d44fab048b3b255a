// Package shotlist defines the wire form of a camera shot and reads and
// writes ordered shot lists.
//
// A Shot uses the viewer's request parameter names so the same document can
// be POSTed to the API one shot at a time or loaded from a YAML file as a
// whole sequence.
package shotlist

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-cinematic/pkg/easing"
	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// Orbit defaults.
const (
	DefaultOrbitDistance   = 10.0
	DefaultOrbitElevation  = 15.0
	DefaultOrbitEndAzimuth = 360.0
)

// ErrNoOperation is returned for a shot without an operation.
var ErrNoOperation = errors.New("shotlist: operation is required")

// Vec is an [x, y, z] triple.
type Vec [3]float64

// Shot is one camera movement request.
type Shot struct {
	Operation movement.ShotType `json:"operation,omitempty" yaml:"operation,omitempty"`

	// Explicit poses.
	StartPosition *Vec `json:"start_position,omitempty" yaml:"start_position,omitempty"`
	StartTarget   *Vec `json:"start_target,omitempty" yaml:"start_target,omitempty"`
	EndPosition   *Vec `json:"end_position,omitempty" yaml:"end_position,omitempty"`
	EndTarget     *Vec `json:"end_target,omitempty" yaml:"end_target,omitempty"`
	UpVector      *Vec `json:"up_vector,omitempty" yaml:"up_vector,omitempty"`

	// set_position / set_camera_target shorthand for the end pose.
	Position *Vec `json:"position,omitempty" yaml:"position,omitempty"`
	Target   *Vec `json:"target,omitempty" yaml:"target,omitempty"`

	// Timing. Zero means not supplied; duration wins over speed.
	Speed    float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Duration float64 `json:"duration,omitempty" yaml:"duration,omitempty"`

	EasingType    easing.Type            `json:"easing_type,omitempty" yaml:"easing_type,omitempty"`
	ExecutionMode movement.ExecutionMode `json:"execution_mode,omitempty" yaml:"execution_mode,omitempty"`

	// orbit
	Center       *Vec     `json:"center,omitempty" yaml:"center,omitempty"`
	Distance     float64  `json:"distance,omitempty" yaml:"distance,omitempty"`
	StartAzimuth float64  `json:"start_azimuth,omitempty" yaml:"start_azimuth,omitempty"`
	EndAzimuth   *float64 `json:"end_azimuth,omitempty" yaml:"end_azimuth,omitempty"`
	Elevation    *float64 `json:"elevation,omitempty" yaml:"elevation,omitempty"`
	EndElevation *float64 `json:"end_elevation,omitempty" yaml:"end_elevation,omitempty"`

	// frame_object
	ObjectPath string `json:"object_path,omitempty" yaml:"object_path,omitempty"`

	// arc_shot
	Curvature float64 `json:"curvature,omitempty" yaml:"curvature,omitempty"`
}

// Request converts the shot into an engine request. Only structural problems
// are reported here; the engine validates everything else on enqueue.
func (s Shot) Request() (movement.Request, error) {
	req := movement.Request{
		ShotType: s.Operation,
		Speed:    s.Speed,
		Duration: s.Duration,
		Easing:   s.EasingType,
		Mode:     s.ExecutionMode,
	}

	switch s.Operation {
	case movement.Orbit:
		req.Orbit = s.orbit()

	case movement.FrameObject:
		req.ObjectPath = s.ObjectPath
		req.FrameDistance = s.Distance
		req.Start = s.pose(s.StartPosition, s.StartTarget)

	case movement.SetPosition, movement.SetCameraTarget:
		pos, target := s.EndPosition, s.EndTarget
		if pos == nil {
			pos = s.Position
		}
		if target == nil {
			target = s.Target
		}
		req.End = s.pose(pos, target)

	case "":
		return req, ErrNoOperation

	default:
		req.Start = s.pose(s.StartPosition, s.StartTarget)
		req.End = s.pose(s.EndPosition, s.EndTarget)
		req.Curvature = s.Curvature
	}
	return req, nil
}

// pose builds a pose from a position and optional target. A missing target
// looks at the origin.
func (s Shot) pose(pos, target *Vec) *movement.Pose {
	if pos == nil {
		return nil
	}
	p := &movement.Pose{Position: mgl64.Vec3(*pos)}
	if target != nil {
		p.Target = mgl64.Vec3(*target)
	}
	if s.UpVector != nil {
		p.Up = mgl64.Vec3(*s.UpVector)
	}
	return p
}

func (s Shot) orbit() *movement.OrbitParams {
	o := &movement.OrbitParams{
		Distance:       DefaultOrbitDistance,
		StartAzimuth:   s.StartAzimuth,
		EndAzimuth:     DefaultOrbitEndAzimuth,
		StartElevation: DefaultOrbitElevation,
	}
	if s.Center != nil {
		o.Center = mgl64.Vec3(*s.Center)
	}
	if s.Distance != 0 {
		o.Distance = s.Distance
	}
	if s.EndAzimuth != nil {
		o.EndAzimuth = *s.EndAzimuth
	}
	if s.Elevation != nil {
		o.StartElevation = *s.Elevation
	}
	o.EndElevation = o.StartElevation
	if s.EndElevation != nil {
		o.EndElevation = *s.EndElevation
	}
	return o
}
