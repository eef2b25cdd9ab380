package lint

import (
	"errors"
	"fmt"
)

// Standard errors returned by the lint engine.
var (
	// ErrNotLintable indicates a checker definition is missing one of
	// language, command, or a compiled pattern. This is a programming
	// error in the definition, not a runtime condition, and is surfaced
	// loudly rather than swallowed.
	ErrNotLintable = errors.New("checker missing language, command, or pattern")
)

// CheckerError wraps an error with the checker it came from.
type CheckerError struct {
	Checker string
	Err     error
}

// Error implements the error interface.
func (e *CheckerError) Error() string {
	return fmt.Sprintf("checker %s: %v", e.Checker, e.Err)
}

// Unwrap returns the underlying error.
func (e *CheckerError) Unwrap() error {
	return e.Err
}
