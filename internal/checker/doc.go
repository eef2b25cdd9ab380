// Package checker defines external checker declarations and their registry.
//
// A Definition describes one external static-analysis tool: the languages it
// applies to, the command used to invoke it, and the pattern that turns its
// textual output into structured diagnostics. Definitions are registered into
// a Registry at load time; the lint engine selects applicable definitions by
// a buffer's resolved syntax.
//
// Definitions never execute anything themselves. Invocation and extraction
// live in internal/lint and internal/runner.
package checker
