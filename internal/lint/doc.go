// Package lint implements the checker dispatch and diagnostic extraction
// engine.
//
// The engine binds checker definitions (internal/checker) to editor buffers,
// invokes them through a runner (internal/runner), and turns their raw
// textual output into positioned diagnostics.
//
// Core pieces:
//
//   - Extract turns raw checker output into RawMatch values according to a
//     definition's pattern and multiline flag.
//   - CorrectColumn maps checker-reported columns computed under an assumed
//     tab width back to real character indexes.
//   - Instance is one checker bound to one buffer. It owns the buffer text
//     snapshot, the per-line diagnostic map, and a highlight accumulator.
//   - Manager owns the buffer-to-instance assignment table and orchestrates
//     lint passes, including region-scoped checkers for embedded languages.
//
// Checker invocation blocks on subprocess execution and must stay off the
// interactive path: Manager.Go runs a pass on its own goroutine and marshals
// the completion callback through a configurable dispatch function, so the
// presentation layer can move it back onto the thread that owns buffer
// state.
package lint
