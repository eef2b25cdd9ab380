package lint

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/lintstorm/internal/checker"
	"github.com/dshills/lintstorm/internal/logging"
	"github.com/dshills/lintstorm/internal/runner"
)

// BufferID identifies an editor buffer. The engine treats buffers as opaque
// identifiers plus accessor functions; it never touches editor state.
type BufferID string

// State tracks where an instance is in the invocation lifecycle.
type State int

const (
	// StateIdle means the instance is not running.
	StateIdle State = iota
	// StateReset means diagnostics were cleared and text rebound.
	StateReset
	// StateRunning means the checker subprocess is executing.
	StateRunning
	// StateSucceeded means output was obtained and extracted.
	StateSucceeded
	// StateFailed means invocation failed; prior diagnostics are retained.
	StateFailed
	// StateSkipped means the resolved command was empty.
	StateSkipped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReset:
		return "reset"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// LineError is one recorded diagnostic on a line: column (0 when the
// checker reported none), severity, and message.
type LineError struct {
	Col      int
	Severity Severity
	Message  string
}

// Instance is one checker definition bound to one buffer.
//
// It owns the current text snapshot, the per-line diagnostic map, and the
// highlight accumulator. An Instance is created when a buffer's syntax
// first matches the definition and destroyed when the buffer closes or the
// syntax stops matching. Each buffer gets its own instance so checkers can
// keep per-buffer state across runs.
type Instance struct {
	id       string
	def      *checker.Definition
	buffer   BufferID
	syntax   string
	filename string

	code      string
	errors    map[int][]LineError
	highlight *Highlight

	run    runner.Runner
	logger *logging.Logger
	state  atomic.Int32
}

// NewInstance binds a definition to a buffer.
func NewInstance(def *checker.Definition, buf BufferID, syntax, filename string, run runner.Runner, logger *logging.Logger) *Instance {
	if logger == nil {
		logger = logging.Default()
	}
	return &Instance{
		id:        uuid.NewString(),
		def:       def,
		buffer:    buf,
		syntax:    syntax,
		filename:  filename,
		errors:    make(map[int][]LineError),
		highlight: NewHighlight("", def.Outline),
		run:       run,
		logger:    logger.WithChecker(def.Name),
	}
}

// ID returns the instance's unique identifier.
func (in *Instance) ID() string { return in.id }

// Definition returns the bound checker definition.
func (in *Instance) Definition() *checker.Definition { return in.def }

// Name returns the bound checker's name.
func (in *Instance) Name() string { return in.def.Name }

// Buffer returns the bound buffer identifier.
func (in *Instance) Buffer() BufferID { return in.buffer }

// Syntax returns the syntax the instance was created for.
func (in *Instance) Syntax() string { return in.syntax }

// Filename returns the buffer's file name.
func (in *Instance) Filename() string { return in.filename }

// State returns the instance's lifecycle state.
func (in *Instance) State() State { return State(in.state.Load()) }

// Highlight returns the highlight accumulator.
func (in *Instance) Highlight() *Highlight { return in.highlight }

// Settings returns the checker's effective settings.
func (in *Instance) Settings() map[string]any { return in.def.Settings() }

// Disabled reports whether the checker is disabled via settings.
func (in *Instance) Disabled() bool {
	disabled, _ := in.Settings()["disable"].(bool)
	return disabled
}

// Errors returns the per-line diagnostic map. Rows map to ordered lists of
// diagnostics in insertion order.
func (in *Instance) Errors() map[int][]LineError { return in.errors }

// Reset clears diagnostics, rebinds the working text and filename, and
// allocates a fresh highlight accumulator.
func (in *Instance) Reset(code, filename string) {
	in.errors = make(map[int][]LineError)
	in.code = code
	if filename != "" {
		in.filename = filename
	}
	in.highlight = NewHighlight(code, in.def.Outline)
	in.state.Store(int32(StateReset))
}

// SetCode narrows the working text to a scoped region's slice.
func (in *Instance) SetCode(code string) {
	in.code = code
	in.highlight.SetCode(code)
}

// ClearErrors drops recorded diagnostics without touching the highlight.
func (in *Instance) ClearErrors() {
	in.errors = make(map[int][]LineError)
}

// setErrors replaces the diagnostic map, used when merging region results.
func (in *Instance) setErrors(errors map[int][]LineError) {
	in.errors = errors
}

// ClearHighlight drops accumulated marks. Called before the instance
// becomes unreachable so no on-screen marks are orphaned.
func (in *Instance) ClearHighlight() {
	in.highlight.Clear()
}

// Lint invokes the checker against the current text and records the
// extracted diagnostics.
//
// A definition missing language, command, or a compiled pattern is a
// contract violation and returns a CheckerError wrapping ErrNotLintable.
// An empty resolved command skips the run. An invocation failure is logged
// at debug level and leaves prior diagnostics untouched, favoring stale
// marks over flashing to empty.
func (in *Instance) Lint(ctx context.Context) error {
	if len(in.def.Languages) == 0 || in.def.Command == nil || in.def.Regexp() == nil {
		return &CheckerError{Checker: in.def.Name, Err: ErrNotLintable}
	}

	cmd := in.def.Command.Resolve(checker.CommandContext{
		Filename: in.filename,
		Syntax:   in.syntax,
		Settings: in.Settings(),
	})
	if len(cmd) == 0 {
		in.state.Store(int32(StateSkipped))
		return nil
	}

	in.state.Store(int32(StateRunning))

	output, err := in.run.Run(ctx, cmd, in.code, in.def.TempFileSuffix)
	if err != nil {
		in.logger.Debug("invocation failed: %v", err)
		in.state.Store(int32(StateFailed))
		return nil
	}

	if output == "" {
		in.state.Store(int32(StateSucceeded))
		return nil
	}

	in.logger.Debug("%s output:\n%s", in.def.Name, output)

	for _, m := range Extract(in.def.Regexp(), in.def.Multiline, output) {
		if !m.Matched || m.Row < 0 {
			continue
		}

		col := m.Col
		if col >= 0 {
			if in.def.TabWidth > 1 {
				if line, ok := in.highlight.FullLine(m.Row); ok {
					col = CorrectColumn(col, in.def.TabWidth, line)
				}
			}
			in.highlight.Range(m.Row, col)
		} else if m.Near != "" {
			in.highlight.Near(m.Row, m.Near)
		} else {
			in.highlight.Line(m.Row)
		}

		in.record(m.Row, col, m.Severity, m.Message)
	}

	in.state.Store(int32(StateSucceeded))
	return nil
}

// record stores one diagnostic under its row, appending to any existing
// list so multiple diagnostics per line survive in insertion order. Every
// diagnostic also marks its line.
func (in *Instance) record(row, col int, severity Severity, message string) {
	in.highlight.Line(row)
	if col < 0 {
		col = 0
	}
	in.errors[row] = append(in.errors[row], LineError{
		Col:      col,
		Severity: severity,
		Message:  message,
	})
}
