package routing

import (
	"errors"
	"fmt"
)

// ErrClassificationFailed is matched by errors.Is on a SelectionError.
var ErrClassificationFailed = errors.New("complexity classification failed")

// SelectionError is returned when model selection cannot complete.
type SelectionError struct {
	// Cause is the underlying classifier error.
	Cause error
}

// Error implements the error interface.
func (e *SelectionError) Error() string {
	return fmt.Sprintf("model selection failed: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *SelectionError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is().
func (e *SelectionError) Is(target error) bool {
	return target == ErrClassificationFailed
}
