// Package runner executes checker commands and captures their output.
//
// Checkers receive the buffer text on stdin by default. Checkers that
// cannot read from stdin declare a temp-file suffix; the runner then
// materializes the text into a temporary file with that suffix and appends
// its path to the argument list.
//
// A non-zero exit with output is not a failure: most checkers signal
// findings through their exit code.
package runner
