package domain

import (
	"errors"
	"fmt"
)

// ErrInsufficientInput is returned when fewer than two stops are supplied.
var ErrInsufficientInput = errors.New("at least 2 stops are required for optimization")

// ErrExternalOptimizerUnavailable wraps every failure of a delegated optimizer.
// It is recovered by falling back to the local heuristic.
var ErrExternalOptimizerUnavailable = errors.New("external optimizer unavailable")

// MalformedStopError identifies the offending stop by its input position.
type MalformedStopError struct {
	Index  int
	Reason string
}

func (e *MalformedStopError) Error() string {
	return fmt.Sprintf("stop %d is malformed: %s", e.Index, e.Reason)
}
