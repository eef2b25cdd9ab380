package lint

import (
	"regexp"
	"strings"
	"sync"

	"github.com/dshills/lintstorm/internal/checker"
	"github.com/dshills/lintstorm/internal/logging"
	"github.com/dshills/lintstorm/internal/runner"
)

// BufferSource provides read access to a buffer's text, syntax label, and
// file name. The engine never reaches into editor state directly.
type BufferSource interface {
	Text(id BufferID) string
	SyntaxLabel(id BufferID) string
	Filename(id BufferID) string
}

// syntaxPattern extracts a short syntax name from a grammar resource path,
// e.g. "Packages/Python/Python.tmLanguage" resolves to "Python".
var syntaxPattern = regexp.MustCompile(`([^/]+)\.(?:tmLanguage|sublime-syntax)$`)

// ResolveSyntax resolves a raw syntax label to a short syntax name.
// Returns empty when no known suffix matches.
func ResolveSyntax(label string) string {
	m := syntaxPattern.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	return m[1]
}

// Manager owns the buffer-to-checker assignment table and orchestrates lint
// passes.
//
// The table is shared mutable state across concurrent lint passes and
// buffer open/close events; every mutation replaces a buffer's instance set
// atomically under the lock so no reader observes a half-built set. Buffers
// are independent: there is no cross-buffer locking.
type Manager struct {
	mu       sync.RWMutex
	registry *checker.Registry
	run      runner.Runner
	settings checker.SettingsSource
	logger   *logging.Logger
	dispatch func(func())

	buffers map[BufferID][]*Instance
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRunner sets the runner used to invoke checkers.
func WithRunner(r runner.Runner) ManagerOption {
	return func(m *Manager) {
		m.run = r
	}
}

// WithSettings sets the source of user setting overrides.
func WithSettings(src checker.SettingsSource) ManagerOption {
	return func(m *Manager) {
		m.settings = src
	}
}

// WithManagerLogger sets the manager's logger.
func WithManagerLogger(l *logging.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithDispatch sets the function used to marshal async lint callbacks back
// onto the thread that owns buffer and presentation state. The default
// invokes the callback directly on the worker goroutine.
func WithDispatch(dispatch func(func())) ManagerOption {
	return func(m *Manager) {
		m.dispatch = dispatch
	}
}

// NewManager creates a manager over a checker registry.
func NewManager(registry *checker.Registry, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		run:      runner.NewExecRunner(),
		logger:   logging.Default(),
		dispatch: func(f func()) { f() },
		buffers:  make(map[BufferID][]*Instance),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Assign computes the checker instance set for a buffer from its raw syntax
// label.
//
// A buffer with no resolvable syntax has its assignment removed entirely
// and nil is returned. When force is false and the buffer already has a
// non-empty set whose syntax matches, the existing instances are reused so
// accumulated per-instance state survives redundant calls. Otherwise a new
// instance is created for every registered definition matching the resolved
// syntax and the buffer's set is replaced atomically.
func (m *Manager) Assign(buf BufferID, syntaxLabel, filename string, force bool) []*Instance {
	syntax := ResolveSyntax(syntaxLabel)
	if syntax == "" {
		m.Remove(buf)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !force {
		if existing := m.buffers[buf]; len(existing) > 0 {
			for _, in := range existing {
				if in.Syntax() == syntax {
					return copyInstances(existing)
				}
			}
		}
	}

	defs := m.registry.ForLanguage(syntax)
	instances := make([]*Instance, 0, len(defs))
	for _, def := range defs {
		instances = append(instances, NewInstance(def, buf, syntax, filename, m.run, m.logger))
	}

	m.buffers[buf] = instances
	return copyInstances(instances)
}

// AssignFrom assigns a buffer using its accessor functions.
func (m *Manager) AssignFrom(src BufferSource, buf BufferID, force bool) []*Instance {
	return m.Assign(buf, src.SyntaxLabel(buf), src.Filename(buf), force)
}

// Remove clears highlight state on every instance for the buffer, then
// deletes the buffer's entry.
func (m *Manager) Remove(buf BufferID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, in := range m.buffers[buf] {
		in.ClearHighlight()
	}
	delete(m.buffers, buf)
}

// Instances returns the buffer's current instance set.
func (m *Manager) Instances(buf BufferID) []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyInstances(m.buffers[buf])
}

// SelectorInstance pairs a scoped checker instance with its selector.
type SelectorInstance struct {
	Selector string
	Instance *Instance
}

// Selectors returns the (selector, instance) pairs for every scoped checker
// assigned to the buffer, for hosts that partition buffer text by selector
// before a pass. LintBuffer derives the same pairs from its own snapshot.
func (m *Manager) Selectors(buf BufferID) []SelectorInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectorPairs(m.buffers[buf])
}

// selectorPairs filters an instance set down to its scoped checkers.
func selectorPairs(instances []*Instance) []SelectorInstance {
	var pairs []SelectorInstance
	for _, in := range instances {
		if sel := in.Definition().Selector; sel != "" {
			pairs = append(pairs, SelectorInstance{Selector: sel, Instance: in})
		}
	}
	return pairs
}

// Reload recomputes every definition's cached settings, then tears down and
// recreates existing instances in place, preserving each instance's buffer,
// syntax, and filename. When group is non-empty only instances whose
// definition came from that group are recreated. Supports live checker
// redefinition without a restart.
func (m *Manager) Reload(group string) {
	m.registry.RecomputeSettings(m.settings)

	m.mu.Lock()
	defer m.mu.Unlock()

	for buf, instances := range m.buffers {
		fresh := make([]*Instance, len(instances))
		for i, in := range instances {
			if group != "" && in.Definition().Group != group {
				fresh[i] = in
				continue
			}

			in.ClearHighlight()

			def := in.Definition()
			if current, ok := m.registry.Lookup(def.Name); ok {
				def = current
			}
			fresh[i] = NewInstance(def, in.Buffer(), in.Syntax(), in.Filename(), m.run, m.logger)
		}
		m.buffers[buf] = fresh
	}
}

// names joins instance checker names for a debug line.
func names(instances []*Instance) string {
	parts := make([]string, len(instances))
	for i, in := range instances {
		parts[i] = in.Name()
	}
	return strings.Join(parts, ", ")
}

// copyInstances returns a shallow copy of an instance slice.
func copyInstances(instances []*Instance) []*Instance {
	if instances == nil {
		return nil
	}
	out := make([]*Instance, len(instances))
	copy(out, instances)
	return out
}
