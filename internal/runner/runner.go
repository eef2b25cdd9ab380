package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrNoCommand is returned when Run is called with an empty argument list.
var ErrNoCommand = errors.New("no command to run")

// Runner executes a checker command against input text and returns its raw
// output.
type Runner interface {
	// Run executes args, delivering input on stdin unless tempSuffix is
	// set, in which case input is materialized into a temp file with
	// that suffix and the file path is appended to args.
	Run(ctx context.Context, args []string, input string, tempSuffix string) (string, error)
}

// ExecRunner runs checker commands as child processes.
//
// stdout and stderr are captured together: checkers split their
// diagnostics between the two streams inconsistently, and the extraction
// pattern is the arbiter of what counts.
type ExecRunner struct {
	timeout time.Duration
	env     []string
}

// ExecRunnerOption configures an ExecRunner.
type ExecRunnerOption func(*ExecRunner)

// WithTimeout bounds each invocation. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.timeout = d
	}
}

// WithEnv sets the environment for checker processes. Nil inherits the
// parent environment.
func WithEnv(env []string) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.env = env
	}
}

// NewExecRunner creates a runner for checker subprocesses.
func NewExecRunner(opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args []string, input string, tempSuffix string) (string, error) {
	if len(args) == 0 {
		return "", ErrNoCommand
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if tempSuffix != "" {
		return r.runTempFile(ctx, args, input, tempSuffix)
	}
	return r.runStdin(ctx, args, input)
}

// runStdin delivers the input on the checker's stdin.
func (r *ExecRunner) runStdin(ctx context.Context, args []string, input string) (string, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(input)
	return r.capture(cmd, args[0])
}

// runTempFile materializes the input into a temp file and appends its path
// to the argument list. The file is removed when the run completes.
func (r *ExecRunner) runTempFile(ctx context.Context, args []string, input, suffix string) (string, error) {
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}

	f, err := os.CreateTemp("", "lintstorm-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(input); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	full := make([]string, 0, len(args)+1)
	full = append(full, args...)
	full = append(full, path)

	cmd := exec.CommandContext(ctx, full[0], full[1:]...)
	return r.capture(cmd, full[0])
}

// capture runs the command and returns merged stdout+stderr. A non-zero
// exit that still produced output is treated as success.
func (r *ExecRunner) capture(cmd *exec.Cmd, name string) (string, error) {
	if r.env != nil {
		cmd.Env = r.env
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err != nil && buf.Len() == 0 {
		return "", fmt.Errorf("run %s: %w", name, err)
	}
	return buf.String(), nil
}
