package checker

import (
	"regexp"
	"strings"
	"sync"
)

// CommandContext carries the per-invocation information a dynamic command
// may need to build its argument list.
type CommandContext struct {
	// Filename is the buffer's file name, or empty for unsaved buffers.
	Filename string

	// Syntax is the buffer's resolved syntax name.
	Syntax string

	// Settings is the checker's effective settings map. It is passed
	// through opaquely; the engine itself only reads "disable".
	Settings map[string]any
}

// Command produces the argument list used to invoke a checker.
// It is resolved once per invocation.
type Command interface {
	Resolve(ctx CommandContext) []string
}

// StaticCommand is a fixed argument list.
type StaticCommand []string

// Resolve returns the argument list unchanged.
func (c StaticCommand) Resolve(CommandContext) []string { return []string(c) }

// CommandFunc builds an argument list per invocation. Returning an empty
// list causes the invocation to be skipped.
type CommandFunc func(ctx CommandContext) []string

// Resolve calls the function.
func (f CommandFunc) Resolve(ctx CommandContext) []string { return f(ctx) }

// Definition declares one external checker: what it lints, how to run it,
// and how to read its output.
//
// A Definition is populated at load time and registered into a Registry.
// After registration it is treated as immutable except for the cached
// settings, which the registry recomputes on reload.
type Definition struct {
	// Name identifies the checker. Settings are keyed by this name.
	Name string

	// Languages lists the syntax names this checker applies to.
	// Matching is case-insensitive.
	Languages []string

	// Command produces the invocation argument list.
	Command Command

	// Pattern extracts diagnostics from the checker's raw output. It may
	// use the named capture groups line, col, type, error and near; line
	// and error are the meaningful minimum.
	Pattern string

	// Multiline applies the pattern once across the whole output instead
	// of once per output line.
	Multiline bool

	// TabWidth is the tab expansion width the checker assumes when
	// reporting columns. 1 means columns are plain character indexes.
	TabWidth int

	// Selector scopes the checker to an embedded sub-language. Empty
	// means the checker runs against the whole buffer.
	Selector string

	// TempFileSuffix, when set, signals the checker cannot read from
	// stdin and needs the text materialized into a file with this suffix.
	TempFileSuffix string

	// Outline is passed through to the highlight accumulator.
	Outline bool

	// Group identifies where the definition came from (a config file or
	// plugin), used to filter reloads.
	Group string

	// Defaults are built-in settings merged under user overrides.
	Defaults map[string]any

	mu       sync.RWMutex
	regex    *regexp.Regexp
	disabled bool
	settings map[string]any
}

// Validate checks that the definition carries the minimum a checker needs.
// It is called once at registration; a definition that passes here can only
// hit the lint-time contract check if it was mutated afterwards.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if len(d.Languages) == 0 {
		return &DefinitionError{Name: d.Name, Err: ErrMissingLanguage}
	}
	if d.Command == nil {
		return &DefinitionError{Name: d.Name, Err: ErrMissingCommand}
	}
	if d.Pattern == "" {
		return &DefinitionError{Name: d.Name, Err: ErrMissingPattern}
	}
	return nil
}

// Matches reports whether the checker applies to the given syntax name.
func (d *Definition) Matches(syntax string) bool {
	if syntax == "" {
		return false
	}
	syntax = strings.ToLower(syntax)
	for _, lang := range d.Languages {
		if strings.ToLower(lang) == syntax {
			return true
		}
	}
	return false
}

// Regexp returns the compiled output pattern, or nil if the pattern failed
// to compile at registration.
func (d *Definition) Regexp() *regexp.Regexp {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.regex
}

// Disabled reports whether the definition was disabled at registration
// because its pattern did not compile.
func (d *Definition) Disabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.disabled
}

// Settings returns the checker's effective settings: cached merged settings
// when the registry has computed them, otherwise a copy of the defaults.
func (d *Definition) Settings() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.settings != nil {
		return d.settings
	}
	return copySettings(d.Defaults)
}

// setCompiled stores the compile result at registration time.
func (d *Definition) setCompiled(re *regexp.Regexp, disabled bool) {
	d.mu.Lock()
	d.regex = re
	d.disabled = disabled
	d.mu.Unlock()
}

// setSettings caches merged settings on the definition.
func (d *Definition) setSettings(s map[string]any) {
	d.mu.Lock()
	d.settings = s
	d.mu.Unlock()
}

// copySettings returns a shallow copy of a settings map.
func copySettings(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
