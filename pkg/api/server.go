// Package api exposes the movement engine over HTTP and pushes live queue
// status over a websocket.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-cinematic/internal/log"
	"github.com/teslashibe/go-cinematic/pkg/hub"
	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// Engine is the subset of *movement.Manager the API drives.
type Engine interface {
	Enqueue(req movement.Request) (movement.EnqueueResult, error)
	Play() movement.ControlResult
	Pause() movement.ControlResult
	Stop() movement.StopResult
	ClearQueue() int
	Remove(id string) error
	GetStatus() movement.Snapshot
	MovementStatus(id string) (movement.MovementStatus, error)
}

var _ Engine = (*movement.Manager)(nil)

// DefaultStatusRate is how often queue status is pushed to websocket clients.
const DefaultStatusRate = 200 * time.Millisecond

// shotRoutes maps POST /camera/<name> to the shot it enqueues.
var shotRoutes = map[string]movement.ShotType{
	"smooth_move":       movement.SmoothMove,
	"arc_shot":          movement.ArcShot,
	"orbit":             movement.Orbit,
	"orbit_shot":        movement.Orbit,
	"frame_object":      movement.FrameObject,
	"set_position":      movement.SetPosition,
	"set_camera_target": movement.SetCameraTarget,
}

// Server is the HTTP front end of the engine.
type Server struct {
	app        *fiber.App
	addr       string
	engine     Engine
	statusHub  *hub.Hub
	statusRate time.Duration
	logger     *slog.Logger
}

// NewServer creates a server listening on addr (e.g. ":8901").
func NewServer(addr string, engine Engine, statusRate time.Duration) *Server {
	if statusRate <= 0 {
		statusRate = DefaultStatusRate
	}
	s := &Server{
		addr:       addr,
		engine:     engine,
		statusHub:  hub.New("status"),
		statusRate: statusRate,
		logger:     log.With("component", "api"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-cinematic",
		DisableStartupMessage: true,
	})

	// CORS for browser dashboards
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)

	cam := app.Group("/camera")
	for name, shot := range shotRoutes {
		cam.Post("/"+name, s.handleEnqueueShot(shot))
	}
	cam.Post("/shots", s.handleEnqueueShot(""))
	cam.Post("/shot_list", s.handleEnqueueList)

	cam.Post("/queue/play", s.handlePlay)
	cam.Post("/queue/pause", s.handlePause)
	cam.Post("/queue/stop", s.handleStop)
	cam.Delete("/queue", s.handleClearQueue)
	cam.Delete("/queue/:id", s.handleRemove)
	cam.Post("/stop_movement", s.handleStop)

	cam.Get("/shot_queue_status", s.handleQueueStatus)
	cam.Get("/movement_status", s.handleMovementStatus)
	cam.Get("/movement_status/:id", s.handleMovementStatus)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// App returns the underlying fiber app (for tests).
func (s *Server) App() *fiber.App {
	return s.app
}

// StatusHub returns the status hub for external use.
func (s *Server) StatusHub() *hub.Hub {
	return s.statusHub
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.statusHub.Run(ctx)
	go s.publishStatus(ctx)
	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			s.logger.Warn("shutdown failed", "error", err)
		}
	}()

	s.logger.Info("api listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// publishStatus pushes a queue snapshot to websocket clients at statusRate.
func (s *Server) publishStatus(ctx context.Context) {
	ticker := time.NewTicker(s.statusRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.statusHub.BroadcastJSON("status", s.engine.GetStatus()); err != nil {
				s.logger.Warn("status encode failed", "error", err)
			}
		}
	}
}
