package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for body and registry validation.
var (
	// ErrNonPositiveMass indicates a body with mass <= 0.
	ErrNonPositiveMass = errors.New("dynamo: mass must be positive")

	// ErrNonPositiveDensity indicates a body with density <= 0.
	ErrNonPositiveDensity = errors.New("dynamo: density must be positive")

	// ErrInvalidState indicates NaN or Inf in a position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDuplicateID indicates two bodies sharing an id within one registry.
	ErrDuplicateID = errors.New("dynamo: duplicate body id")

	// ErrInvalidColor indicates a color string that is neither hex nor hsl().
	ErrInvalidColor = errors.New("dynamo: invalid color")

	// ErrUnknownUnit indicates an unrecognized mass or velocity unit.
	ErrUnknownUnit = errors.New("dynamo: unknown unit")
)

// BodyError wraps a validation error with the offending body.
type BodyError struct {
	Index   int
	ID      string
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d (%s): %v", e.Index, e.ID, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
