// Package viewer connects the movement engine to a running scene viewer.
//
// The engine only knows two small interfaces, movement.PoseSink and
// movement.BoundsProvider. This package provides the implementations:
//   - HTTPClient talks to the worldviewer HTTP API (poses and object bounds)
//   - StreamSink pushes poses over a WebSocket for low-latency hosts
//   - LogSink logs poses for dry runs
//   - DeadZone wraps any sink and drops imperceptible pose changes
//
// RunFrames is the headless host frame loop that drives Manager.Tick.
package viewer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// Compile-time interface checks.
var (
	_ movement.PoseSink       = (*HTTPClient)(nil)
	_ movement.BoundsProvider = (*HTTPClient)(nil)
	_ movement.PoseSink       = (*StreamSink)(nil)
	_ movement.PoseSink       = (*LogSink)(nil)
	_ movement.PoseSink       = (*DeadZone)(nil)
)

// setPositionRequest is the body of POST /camera/set_position.
type setPositionRequest struct {
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	UpVector [3]float64 `json:"up_vector"`
}

func newSetPosition(p movement.Pose) setPositionRequest {
	return setPositionRequest{
		Position: p.Position,
		Target:   p.Target,
		UpVector: p.Up,
	}
}

// apiResult is the common worldviewer response envelope.
type apiResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// assetTransform is the subset of GET /get_asset_transform we use.
type assetTransform struct {
	apiResult
	Bounds struct {
		Min    [3]float64 `json:"min"`
		Max    [3]float64 `json:"max"`
		Center [3]float64 `json:"center"`
	} `json:"bounds"`
}

func (a assetTransform) box() movement.BoundingBox {
	return movement.BoundingBox{
		Min: mgl64.Vec3(a.Bounds.Min),
		Max: mgl64.Vec3(a.Bounds.Max),
	}
}

// poseMessage is the stream frame pushed by StreamSink.
type poseMessage struct {
	Type     string     `json:"type"`
	Seq      uint64     `json:"seq"`
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
	Up       [3]float64 `json:"up"`
}

// PoseMessageType tags StreamSink frames.
const PoseMessageType = "camera_pose"
