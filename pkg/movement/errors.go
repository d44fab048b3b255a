package movement

import (
	"errors"
	"fmt"
)

// Sentinel errors for the movement package.
var (
	// ErrInvalidShotType indicates an unknown shot type.
	ErrInvalidShotType = errors.New("movement: invalid shot type")

	// ErrInvalidEasing indicates an unknown easing curve.
	ErrInvalidEasing = errors.New("movement: invalid easing type")

	// ErrInvalidMode indicates an unknown execution mode.
	ErrInvalidMode = errors.New("movement: invalid execution mode")

	// ErrInvalidSpeed indicates a negative speed or a speed that yields no duration.
	ErrInvalidSpeed = errors.New("movement: invalid speed")

	// ErrInvalidDuration indicates a negative or missing duration.
	ErrInvalidDuration = errors.New("movement: invalid duration")

	// ErrInvalidDistance indicates a non-positive orbit or framing distance.
	ErrInvalidDistance = errors.New("movement: invalid distance")

	// ErrMissingPose indicates a required start or end pose was not supplied.
	ErrMissingPose = errors.New("movement: missing pose")

	// ErrMissingObject indicates frame_object without an object path.
	ErrMissingObject = errors.New("movement: missing object path")

	// ErrNoBoundsProvider indicates frame_object on an engine without bounds lookup.
	ErrNoBoundsProvider = errors.New("movement: no bounds provider configured")

	// ErrQueueFull indicates the configured queue capacity was reached.
	ErrQueueFull = errors.New("movement: queue is full")

	// ErrNotFound indicates an unknown movement id.
	ErrNotFound = errors.New("movement: not found")

	// ErrActiveMovement indicates an operation that cannot target the active movement.
	ErrActiveMovement = errors.New("movement: movement is active")
)

// ValidationError describes a request rejected at enqueue time.
type ValidationError struct {
	// Field is the offending request field.
	Field string

	// Reason is a human-readable explanation.
	Reason string

	// Err is the sentinel category.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v (%s)", e.Err, e.Field)
	}
	return fmt.Sprintf("%v (%s): %s", e.Err, e.Field, e.Reason)
}

// Unwrap returns the sentinel category.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Err: err, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError is returned when a movement id is unknown.
type NotFoundError struct {
	MovementID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("movement: %s not found", e.MovementID)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// SinkError records a pose the host refused during Tick. It never escapes
// Tick; it is kept on the failed movement's outcome.
type SinkError struct {
	MovementID string
	Err        error
}

// Error implements the error interface.
func (e *SinkError) Error() string {
	return fmt.Sprintf("movement: sink rejected pose for %s: %v", e.MovementID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SinkError) Unwrap() error {
	return e.Err
}

// IsValidation returns true if err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound returns true if err means the movement id is unknown.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
