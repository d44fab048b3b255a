package movement

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// epsilon is the smallest length treated as non-zero.
const epsilon = 1e-9

// DefaultMaxDuration caps any single movement.
const DefaultMaxDuration = 300 * time.Second

// maxSeconds is the longest duration time.Duration can hold.
var maxSeconds = time.Duration(math.MaxInt64).Seconds()

// Distance returns the Euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// CalculateDuration derives a movement's duration.
//
// An explicit duration is used as-is; otherwise pathLength/speed. The result
// is clamped to maxDuration when maxDuration > 0. Instantaneous shots never
// reach this function.
func CalculateDuration(speed, duration, pathLength float64, maxDuration time.Duration) (time.Duration, error) {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, invalid("duration", ErrInvalidDuration, "must be positive, got %v", duration)
	}
	if speed < 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0, invalid("speed", ErrInvalidSpeed, "must be positive, got %v", speed)
	}

	seconds := duration
	if seconds == 0 {
		if speed == 0 {
			return 0, invalid("speed", ErrInvalidSpeed, "either speed or duration is required")
		}
		seconds = pathLength / speed
		if seconds <= 0 {
			return 0, invalid("speed", ErrInvalidSpeed, "path length %.3f yields no duration", pathLength)
		}
	}

	// Clamp before converting; time.Duration overflows past ~292 years.
	if maxDuration > 0 && seconds > maxDuration.Seconds() {
		return maxDuration, nil
	}
	if seconds >= maxSeconds {
		return 0, invalid("duration", ErrInvalidDuration, "%vs is too long", seconds)
	}

	d := time.Duration(seconds * float64(time.Second))
	if d <= 0 {
		return 0, invalid("duration", ErrInvalidDuration, "%vs rounds to zero", seconds)
	}
	return d, nil
}

// lerp performs linear interpolation.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// lerpUp interpolates two up vectors and re-normalizes, falling back to a
// when the blend collapses (opposite vectors at t=0.5).
func lerpUp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	v := lerpVec(a, b, t)
	if v.Len() < epsilon {
		return a
	}
	return v.Normalize()
}
