package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Generator produces the camera pose for one shot at an eased progress value
// in [0,1] (bounce and elastic curves may step slightly outside).
type Generator interface {
	// ComputePose returns the pose at progress.
	ComputePose(progress float64) Pose

	// PathLength is the distance the camera travels, used for speed-based
	// durations.
	PathLength() float64

	// Instant reports whether the shot completes on its first tick.
	Instant() bool
}

// Framing and arc constants.
const (
	DefaultCurvature = 0.25

	arcLiftFactor       = 0.1 // control point rise, as a fraction of travel
	frameDistanceFactor = 2.5 // camera distance per unit of object extent
	frameLiftFactor     = 0.5 // camera height per unit of object extent
	framePullBack       = 1.5 // implied start distance when no start pose is given
)

type generatorBuilder func(req Request, bounds BoundsProvider) (Generator, error)

// generators is the closed set of shot types.
var generators = map[ShotType]generatorBuilder{
	SmoothMove:      newSmoothMove,
	ArcShot:         newArcShot,
	Orbit:           newOrbitShot,
	FrameObject:     newFrameObject,
	SetPosition:     newInstant,
	SetCameraTarget: newInstant,
}

// NewGenerator validates the shot-specific fields of req and returns its
// generator. bounds may be nil unless req is a frame_object shot.
func NewGenerator(req Request, bounds BoundsProvider) (Generator, error) {
	build, ok := generators[req.ShotType]
	if !ok {
		return nil, invalid("shot_type", ErrInvalidShotType, "%q", string(req.ShotType))
	}
	return build(req, bounds)
}

func requirePoses(req Request) (Pose, Pose, error) {
	if req.Start == nil {
		return Pose{}, Pose{}, invalid("start", ErrMissingPose, "%s requires a start pose", req.ShotType)
	}
	if req.End == nil {
		return Pose{}, Pose{}, invalid("end", ErrMissingPose, "%s requires an end pose", req.ShotType)
	}
	return req.Start.withDefaults(), req.End.withDefaults(), nil
}

// ============================================================
// smooth_move
// ============================================================

type smoothMove struct {
	start, end Pose
}

func newSmoothMove(req Request, _ BoundsProvider) (Generator, error) {
	start, end, err := requirePoses(req)
	if err != nil {
		return nil, err
	}
	return &smoothMove{start: start, end: end}, nil
}

func (m *smoothMove) ComputePose(progress float64) Pose {
	return m.start.Lerp(m.end, progress)
}

func (m *smoothMove) PathLength() float64 {
	return Distance(m.start.Position, m.end.Position)
}

func (m *smoothMove) Instant() bool { return false }

// ============================================================
// arc_shot - quadratic Bezier path
// ============================================================

type arcShot struct {
	start, end Pose
	control    mgl64.Vec3
}

func newArcShot(req Request, _ BoundsProvider) (Generator, error) {
	start, end, err := requirePoses(req)
	if err != nil {
		return nil, err
	}
	curvature := req.Curvature
	if curvature == 0 {
		curvature = DefaultCurvature
	}
	return &arcShot{
		start:   start,
		end:     end,
		control: arcControlPoint(start.Position, end.Position, curvature),
	}, nil
}

// arcControlPoint offsets the midpoint sideways (horizontal perpendicular to
// the travel direction) and slightly upward.
func arcControlPoint(from, to mgl64.Vec3, curvature float64) mgl64.Vec3 {
	move := to.Sub(from)
	dist := move.Len()
	if dist < epsilon {
		return from
	}
	dir := move.Mul(1 / dist)

	perp := mgl64.Vec3{0, 1, 0}
	if math.Abs(dir.Z()) < 0.9 {
		perp = mgl64.Vec3{dir.Y(), -dir.X(), 0}.Normalize()
	}

	mid := from.Add(move.Mul(0.5))
	return mid.Add(perp.Mul(dist * curvature)).Add(WorldUp.Mul(dist * arcLiftFactor))
}

func (m *arcShot) ComputePose(progress float64) Pose {
	u := 1 - progress
	pos := m.start.Position.Mul(u * u).
		Add(m.control.Mul(2 * u * progress)).
		Add(m.end.Position.Mul(progress * progress))
	return Pose{
		Position: pos,
		Target:   lerpVec(m.start.Target, m.end.Target, progress),
		Up:       lerpUp(m.start.Up, m.end.Up, progress),
	}
}

// PathLength is the chord length; speed-based arc durations are measured
// start-to-end like every other shot.
func (m *arcShot) PathLength() float64 {
	return Distance(m.start.Position, m.end.Position)
}

func (m *arcShot) Instant() bool { return false }

// ============================================================
// orbit - spherical coordinates around a center
// ============================================================

type orbitShot struct {
	center         mgl64.Vec3
	distance       float64
	azStart, azEnd float64 // radians
	elStart, elEnd float64 // radians
}

func newOrbitShot(req Request, _ BoundsProvider) (Generator, error) {
	o := req.Orbit
	if o == nil {
		return nil, invalid("orbit", ErrMissingPose, "orbit requires center and distance")
	}
	if !(o.Distance > 0) {
		return nil, invalid("distance", ErrInvalidDistance, "must be positive, got %v", o.Distance)
	}
	return &orbitShot{
		center:   o.Center,
		distance: o.Distance,
		azStart:  mgl64.DegToRad(o.StartAzimuth),
		azEnd:    mgl64.DegToRad(o.EndAzimuth),
		elStart:  mgl64.DegToRad(o.StartElevation),
		elEnd:    mgl64.DegToRad(o.EndElevation),
	}, nil
}

func (m *orbitShot) ComputePose(progress float64) Pose {
	az := lerp(m.azStart, m.azEnd, progress)
	el := lerp(m.elStart, m.elEnd, progress)
	offset := mgl64.Vec3{
		math.Cos(el) * math.Cos(az),
		math.Cos(el) * math.Sin(az),
		math.Sin(el),
	}.Mul(m.distance)
	return Pose{
		Position: m.center.Add(offset),
		Target:   m.center,
		Up:       WorldUp,
	}
}

// PathLength approximates the sweep as a straight line in (azimuth,
// elevation) space scaled by the radius.
func (m *orbitShot) PathLength() float64 {
	midEl := (m.elStart + m.elEnd) / 2
	horizontal := math.Cos(midEl) * (m.azEnd - m.azStart)
	vertical := m.elEnd - m.elStart
	return m.distance * math.Hypot(horizontal, vertical)
}

func (m *orbitShot) Instant() bool { return false }

// ============================================================
// frame_object - smooth move onto a pose that frames an object
// ============================================================

type frameObject struct {
	smoothMove
	bounds BoundingBox
}

func newFrameObject(req Request, bounds BoundsProvider) (Generator, error) {
	if req.ObjectPath == "" {
		return nil, invalid("object_path", ErrMissingObject, "frame_object requires an object path")
	}
	if req.FrameDistance < 0 {
		return nil, invalid("distance", ErrInvalidDistance, "must be positive, got %v", req.FrameDistance)
	}
	if bounds == nil {
		return nil, invalid("object_path", ErrNoBoundsProvider, "cannot resolve %s", req.ObjectPath)
	}

	box, err := bounds.ObjectBounds(req.ObjectPath)
	if err != nil {
		return nil, invalid("object_path", ErrMissingObject, "bounds lookup for %s: %v", req.ObjectPath, err)
	}
	if box.IsEmpty() {
		return nil, invalid("object_path", ErrMissingObject, "%s has no valid bounds", req.ObjectPath)
	}

	end := framingPose(box, req.FrameDistance)
	start := pullBack(end, box.Center())
	if req.Start != nil {
		start = req.Start.withDefaults()
	}

	return &frameObject{
		smoothMove: smoothMove{start: start, end: end},
		bounds:     box,
	}, nil
}

// framingPose places the camera in front of and slightly above the box,
// looking at its center.
func framingPose(box BoundingBox, distance float64) Pose {
	center := box.Center()
	extent := box.MaxExtent()
	if distance == 0 {
		distance = extent * frameDistanceFactor
	}
	return Pose{
		Position: center.Add(mgl64.Vec3{0, distance, extent * frameLiftFactor}),
		Target:   center,
		Up:       WorldUp,
	}
}

func pullBack(p Pose, center mgl64.Vec3) Pose {
	p.Position = center.Add(p.Position.Sub(center).Mul(framePullBack))
	return p
}

// ============================================================
// set_position / set_camera_target - instantaneous
// ============================================================

type instant struct {
	end Pose
}

func newInstant(req Request, _ BoundsProvider) (Generator, error) {
	if req.End == nil {
		return nil, invalid("end", ErrMissingPose, "%s requires an end pose", req.ShotType)
	}
	return &instant{end: req.End.withDefaults()}, nil
}

func (m *instant) ComputePose(float64) Pose { return m.end }

func (m *instant) PathLength() float64 { return 0 }

func (m *instant) Instant() bool { return true }
