package ikmath

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientInput is matched by every InsufficientInputError.
	ErrInsufficientInput = errors.New("insufficient input")

	// ErrDegenerateGeometry indicates zero-length or colinear vectors where a
	// direction is required.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrInvalidLength indicates a non-positive segment length.
	ErrInvalidLength = errors.New("invalid segment length")

	// ErrInvalidSoftDistance indicates a negative soft distance.
	ErrInvalidSoftDistance = errors.New("invalid soft distance")
)

// InsufficientInputError reports that fewer positions than required were given.
type InsufficientInputError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("%s: need at least %d positions, got %d", e.Op, e.Need, e.Got)
}

// Unwrap lets errors.Is match ErrInsufficientInput.
func (e *InsufficientInputError) Unwrap() error {
	return ErrInsufficientInput
}

// IsInsufficientInput returns true if err is or wraps an InsufficientInputError.
func IsInsufficientInput(err error) bool {
	var ie *InsufficientInputError
	return errors.As(err, &ie)
}

func degenerate(what string) error {
	return fmt.Errorf("%s: %w", what, ErrDegenerateGeometry)
}
