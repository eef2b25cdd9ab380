package checker

import (
	"regexp"
	"sort"
	"sync"

	"github.com/dshills/lintstorm/internal/logging"
)

// SettingsSource provides user setting overrides for a checker by name.
// A nil map means no overrides exist.
type SettingsSource interface {
	Checker(name string) map[string]any
}

// Registry holds all known checker definitions.
//
// Definitions are registered explicitly at load time; there is no implicit
// registration side channel. Registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]*Definition
	logger *logging.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry's logger.
func WithLogger(l *logging.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		defs:   make(map[string]*Definition),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register validates the definition, compiles its pattern and adds it to the
// registry. A definition with the same name replaces the previous one.
//
// A contract violation (missing name, language, command or pattern) is
// returned as an error. A pattern that fails to compile is NOT an error:
// the definition is registered disabled and the failure logged, so a broken
// pattern degrades to a silent checker rather than a crashed load.
func (r *Registry) Register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	if def.TabWidth < 1 {
		def.TabWidth = 1
	}

	pattern := def.Pattern
	if def.Multiline {
		pattern = "(?m)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		r.logger.WithChecker(def.Name).Debug("error compiling pattern: %v", err)
		def.setCompiled(nil, true)
	} else {
		def.setCompiled(re, false)
	}

	r.mu.Lock()
	r.defs[def.Name] = def
	r.mu.Unlock()
	return nil
}

// Lookup returns the definition with the given name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// ForLanguage returns every enabled definition applicable to the given
// syntax name, sorted by name for deterministic assignment order.
func (r *Registry) ForLanguage(syntax string) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var defs []*Definition
	for _, def := range r.defs {
		if def.Disabled() {
			continue
		}
		if def.Matches(syntax) {
			defs = append(defs, def)
		}
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})
	return defs
}

// Names returns the sorted names of all registered definitions.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// RecomputeSettings merges each definition's defaults with the user
// overrides from src (overrides win) and caches the result on the
// definition. Called on reload so that live settings edits take effect
// without re-registering checkers.
func (r *Registry) RecomputeSettings(src SettingsSource) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, def := range r.defs {
		merged := copySettings(def.Defaults)
		if src != nil {
			for k, v := range src.Checker(name) {
				merged[k] = v
			}
		}
		def.setSettings(merged)
	}
}
