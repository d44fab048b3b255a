package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-cinematic/pkg/hub"
	"github.com/teslashibe/go-cinematic/pkg/movement"
	"github.com/teslashibe/go-cinematic/pkg/shotlist"
)

// Error codes returned in the error_code field.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeQueueFull      = "QUEUE_FULL"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Field     string `json:"field,omitempty"`
}

// writeError maps engine errors to HTTP statuses.
func writeError(c *fiber.Ctx, err error) error {
	res := ErrorResponse{Error: err.Error()}
	status := fiber.StatusInternalServerError

	var verr *movement.ValidationError
	switch {
	case errors.As(err, &verr):
		status, res.ErrorCode, res.Field = fiber.StatusBadRequest, CodeValidation, verr.Field
	case errors.Is(err, shotlist.ErrNoOperation):
		status, res.ErrorCode, res.Field = fiber.StatusBadRequest, CodeValidation, "operation"
	case movement.IsNotFound(err):
		status, res.ErrorCode = fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, movement.ErrQueueFull):
		status, res.ErrorCode = fiber.StatusConflict, CodeQueueFull
	case errors.Is(err, movement.ErrActiveMovement):
		status, res.ErrorCode = fiber.StatusConflict, CodeConflict
	default:
		res.ErrorCode = CodeInternal
	}
	return c.Status(status).JSON(res)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:     err.Error(),
		ErrorCode: CodeInvalidRequest,
	})
}

// handleHealth reports liveness and the queue state.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	snap := s.engine.GetStatus()
	return c.JSON(fiber.Map{
		"status":      "ok",
		"queue_state": snap.QueueState,
		"clients":     s.statusHub.ClientCount(),
	})
}

// handleEnqueueShot enqueues one shot. A non-empty shot fixes the operation
// regardless of the body.
func (s *Server) handleEnqueueShot(shot movement.ShotType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body shotlist.Shot
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, err)
		}
		if shot != "" {
			body.Operation = shot
		}

		req, err := body.Request()
		if err != nil {
			return writeError(c, err)
		}
		res, err := s.engine.Enqueue(req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

// ListResult reports a batch enqueue.
type ListResult struct {
	Success bool                     `json:"success"`
	Results []movement.EnqueueResult `json:"results"`
	Error   string                   `json:"error,omitempty"`
}

// handleEnqueueList enqueues a whole shot list in order. It stops at the
// first rejected shot; earlier shots stay queued.
func (s *Server) handleEnqueueList(c *fiber.Ctx) error {
	var list shotlist.List
	if err := c.BodyParser(&list); err != nil {
		return badRequest(c, err)
	}
	reqs, err := list.Requests()
	if err != nil {
		return writeError(c, err)
	}

	out := ListResult{Success: true, Results: make([]movement.EnqueueResult, 0, len(reqs))}
	for i, req := range reqs {
		res, err := s.engine.Enqueue(req)
		if err != nil {
			s.logger.Warn("shot list rejected", "shot", i+1, "error", err)
			out.Success = false
			out.Error = err.Error()
			return c.Status(fiber.StatusBadRequest).JSON(out)
		}
		out.Results = append(out.Results, res)
	}
	return c.JSON(out)
}

func (s *Server) handlePlay(c *fiber.Ctx) error {
	return c.JSON(s.engine.Play())
}

func (s *Server) handlePause(c *fiber.Ctx) error {
	return c.JSON(s.engine.Pause())
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	return c.JSON(s.engine.Stop())
}

func (s *Server) handleClearQueue(c *fiber.Ctx) error {
	n := s.engine.ClearQueue()
	return c.JSON(fiber.Map{
		"success":       n > 0,
		"cleared_count": n,
		"queue_state":   s.engine.GetStatus().QueueState,
	})
}

func (s *Server) handleRemove(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.engine.Remove(id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "movement_id": id})
}

func (s *Server) handleQueueStatus(c *fiber.Ctx) error {
	return c.JSON(s.engine.GetStatus())
}

// handleMovementStatus looks up one movement by path or movement_id query.
func (s *Server) handleMovementStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		id = c.Query("movement_id")
	}
	if id == "" {
		return badRequest(c, errors.New("movement_id is required"))
	}

	st, err := s.engine.MovementStatus(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

// handleStatusWS streams queue snapshots until the client disconnects.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	hub.NewClient(s.statusHub, c).Run()
}
