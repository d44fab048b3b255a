package viewer

import (
	"context"
	"errors"
	"time"

	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// ErrInvalidInterval is returned by RunFrames for a non-positive interval.
var ErrInvalidInterval = errors.New("viewer: frame interval must be positive")

// RunFrames plays the role of a render host's frame callback: it calls
// onFrame with clock.Now() every interval until ctx is done. Frames never
// overlap; a slow frame delays the next one rather than queueing it.
func RunFrames(ctx context.Context, interval time.Duration, clock movement.Clock, onFrame func(now time.Time)) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	if clock == nil {
		clock = movement.SystemClock{}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			onFrame(clock.Now())
		}
	}
}
