package checker

import (
	"errors"
	"fmt"
)

// Standard errors returned when validating checker definitions.
var (
	// ErrMissingName indicates the definition has no name.
	ErrMissingName = errors.New("checker has no name")

	// ErrMissingLanguage indicates the definition declares no language.
	ErrMissingLanguage = errors.New("checker declares no language")

	// ErrMissingCommand indicates the definition has no command.
	ErrMissingCommand = errors.New("checker has no command")

	// ErrMissingPattern indicates the definition has no output pattern.
	ErrMissingPattern = errors.New("checker has no output pattern")
)

// DefinitionError wraps an error related to a specific checker definition.
type DefinitionError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	return fmt.Sprintf("checker %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *DefinitionError) Unwrap() error {
	return e.Err
}
