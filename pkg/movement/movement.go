package movement

import (
	"time"

	"github.com/teslashibe/go-cinematic/pkg/easing"
)

// Movement is a validated, queued shot. It never changes after enqueue.
type Movement struct {
	ID        string
	ShotType  ShotType
	Mode      ExecutionMode
	Easing    easing.Type
	Duration  time.Duration
	CreatedAt time.Time

	ease easing.Func
	gen  Generator
}

// newMovement validates req and freezes it. All rejections happen here so a
// bad request never touches the queue.
func newMovement(id string, req Request, cfg Config, bounds BoundsProvider, now time.Time) (*Movement, error) {
	mode := req.Mode
	switch mode {
	case "":
		mode = Auto
	case Auto, Manual:
	default:
		return nil, invalid("execution_mode", ErrInvalidMode, "%q", string(mode))
	}

	easingType := req.Easing
	if easingType == "" {
		easingType = cfg.DefaultEasing
	}
	ease, err := easing.Lookup(easingType)
	if err != nil {
		return nil, invalid("easing_type", ErrInvalidEasing, "%q", string(easingType))
	}

	gen, err := NewGenerator(req, bounds)
	if err != nil {
		return nil, err
	}

	var duration time.Duration
	if gen.Instant() {
		if req.Duration < 0 {
			return nil, invalid("duration", ErrInvalidDuration, "must not be negative, got %v", req.Duration)
		}
		if req.Speed < 0 {
			return nil, invalid("speed", ErrInvalidSpeed, "must not be negative, got %v", req.Speed)
		}
	} else {
		duration, err = CalculateDuration(req.Speed, req.Duration, gen.PathLength(), cfg.MaxDuration)
		if err != nil {
			return nil, err
		}
	}

	return &Movement{
		ID:        id,
		ShotType:  req.ShotType,
		Mode:      mode,
		Easing:    easingType,
		Duration:  duration,
		CreatedAt: now,
		ease:      ease,
		gen:       gen,
	}, nil
}

// PoseAt returns the pose at linear progress in [0,1], after easing.
func (mv *Movement) PoseAt(progress float64) Pose {
	return mv.gen.ComputePose(mv.eased(progress))
}

// eased maps linear progress through the easing curve. Progress at or past
// the end is exactly 1.
func (mv *Movement) eased(progress float64) float64 {
	if progress >= 1 {
		return 1
	}
	if progress < 0 {
		progress = 0
	}
	return mv.ease(progress)
}

// FinalPose returns the pose the movement settles on.
func (mv *Movement) FinalPose() Pose {
	return mv.gen.ComputePose(1)
}
