package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinate marks an angle or coordinate outside its domain.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrConvergenceFailure marks an iterative conversion that ran out of
	// iterations.
	ErrConvergenceFailure = errors.New("convergence failure")
	// ErrInvalidPosition marks a non-finite or degenerate position.
	ErrInvalidPosition = errors.New("invalid position")
)

// CoordinateError reports the offending quantity and value.
type CoordinateError struct {
	Quantity string
	Value    float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s: %s %v out of range", ErrInvalidCoordinate, e.Quantity, e.Value)
}

func (e *CoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// ConvergenceError reports the position that failed to converge.
type ConvergenceError struct {
	Position   GeocentricPosition
	Iterations int
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: geodetic latitude of (%g, %g, %g) still moving by %.3e rad after %d iterations",
		ErrConvergenceFailure, e.Position.X, e.Position.Y, e.Position.Z, e.Residual, e.Iterations)
}

func (e *ConvergenceError) Unwrap() error { return ErrConvergenceFailure }

// PositionError reports an unusable position. Index is the antenna index
// within a batch, or -1 for a single position.
type PositionError struct {
	Index    int
	Position [3]float64
}

func (e *PositionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", ErrInvalidPosition, e.Position)
	}
	return fmt.Sprintf("%s: antenna %d at %v", ErrInvalidPosition, e.Index, e.Position)
}

func (e *PositionError) Unwrap() error { return ErrInvalidPosition }

// ErrorKind maps an error onto a short label for metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidCoordinate):
		return "invalid_coordinate"
	case errors.Is(err, ErrInvalidPosition):
		return "invalid_position"
	case errors.Is(err, ErrConvergenceFailure):
		return "convergence_failure"
	default:
		return "other"
	}
}
