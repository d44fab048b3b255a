package movement

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-cinematic/pkg/easing"
)

// Config holds the engine's tunables.
type Config struct {
	// MaxDuration clamps every movement's duration. Zero disables the clamp.
	MaxDuration time.Duration

	// MaxQueueSize limits queued (not active) movements. Zero means unlimited.
	MaxQueueSize int

	// HistoryLimit bounds how many finished movements MovementStatus remembers.
	HistoryLimit int

	// DefaultEasing applies to requests that do not name a curve.
	DefaultEasing easing.Type

	// TransitionThreshold is how far (world units) the camera may be from a
	// starting movement's first pose before the movement is re-based to
	// start where the camera is. Zero disables re-basing.
	TransitionThreshold float64

	// Logger receives engine logs. Nil uses the package default.
	Logger *slog.Logger
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() Config {
	return Config{
		MaxDuration:         DefaultMaxDuration,
		MaxQueueSize:        0,
		HistoryLimit:        100,
		DefaultEasing:       easing.Default,
		TransitionThreshold: DefaultTransitionThreshold,
	}
}

// DefaultTransitionThreshold is the default TransitionThreshold.
const DefaultTransitionThreshold = 1.0

// Validate checks the config values.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errs []string
	if c.MaxDuration < 0 {
		errs = append(errs, "max_duration must not be negative")
	}
	if c.MaxQueueSize < 0 {
		errs = append(errs, "max_queue_size must not be negative")
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, "history_limit must not be negative")
	}
	if c.TransitionThreshold < 0 {
		errs = append(errs, "transition_threshold must not be negative")
	}
	if c.DefaultEasing != "" {
		if _, err := easing.Lookup(c.DefaultEasing); err != nil {
			errs = append(errs, fmt.Sprintf("default_easing: %v", err))
		}
	}
	return errs
}
