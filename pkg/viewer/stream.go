package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-cinematic/internal/log"
	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// ErrNotConnected is returned when sending on a closed stream.
var ErrNotConnected = errors.New("viewer: stream not connected")

// Stream defaults.
const (
	DefaultHandshakeTimeout = 5 * time.Second
	DefaultWriteTimeout     = 250 * time.Millisecond
)

// StreamSink pushes every pose as a JSON text frame over a WebSocket.
type StreamSink struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	seq    uint64
	logger *slog.Logger

	WriteTimeout time.Duration
}

// DialStream connects to a pose stream endpoint such as
// "ws://localhost:8900/ws/camera".
func DialStream(ctx context.Context, wsURL string) (*StreamSink, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: DefaultHandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("viewer: dial %s failed with status %d: %w", wsURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("viewer: dial %s: %w", wsURL, err)
	}

	s := &StreamSink{
		conn:         conn,
		logger:       log.With("component", "viewer.stream"),
		WriteTimeout: DefaultWriteTimeout,
	}
	s.logger.Info("pose stream connected", "url", wsURL)
	return s, nil
}

// ApplyPose sends p. A write failure closes the stream; later calls return
// ErrNotConnected.
func (s *StreamSink) ApplyPose(p movement.Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotConnected
	}

	s.seq++
	data, err := json.Marshal(poseMessage{
		Type:     PoseMessageType,
		Seq:      s.seq,
		Position: p.Position,
		Target:   p.Target,
		Up:       p.Up,
	})
	if err != nil {
		return fmt.Errorf("viewer: marshal pose: %w", err)
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Warn("pose stream write failed", "error", err)
		s.conn.Close()
		s.conn = nil
		return fmt.Errorf("viewer: send pose: %w", err)
	}
	return nil
}

// Sent returns how many poses have been attempted.
func (s *StreamSink) Sent() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Close gracefully closes the connection.
func (s *StreamSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	deadline := time.Now().Add(time.Second)
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline,
	)
	err := s.conn.Close()
	s.conn = nil
	s.logger.Info("pose stream closed", "poses_sent", s.seq)
	return err
}
