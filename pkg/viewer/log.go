package viewer

import (
	"log/slog"
	"sync/atomic"

	"github.com/teslashibe/go-cinematic/internal/log"
	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// LogSink logs poses instead of moving a camera. Used for dry runs.
type LogSink struct {
	logger *slog.Logger
	count  atomic.Uint64
	last   atomic.Pointer[movement.Pose]
}

// NewLogSink creates a sink logging at debug level through logger.
// A nil logger uses the package default.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = log.With("component", "viewer.dryrun")
	}
	return &LogSink{logger: logger}
}

// ApplyPose implements movement.PoseSink.
func (s *LogSink) ApplyPose(p movement.Pose) error {
	n := s.count.Add(1)
	s.last.Store(&p)
	s.logger.Debug("pose",
		"n", n,
		"position", p.Position,
		"target", p.Target)
	return nil
}

// Count returns how many poses were applied.
func (s *LogSink) Count() uint64 {
	return s.count.Load()
}

// Last returns the most recent pose and whether there was one.
func (s *LogSink) Last() (movement.Pose, bool) {
	p := s.last.Load()
	if p == nil {
		return movement.Pose{}, false
	}
	return *p, true
}
