package settings

import (
	"sync"

	"github.com/dshills/lintstorm/internal/logging"
)

// Store holds the loaded configuration map and answers per-checker setting
// lookups. It implements checker.SettingsSource.
//
// Store is safe for concurrent use; Load replaces the whole map atomically
// under the lock.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
	logger *logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the store's logger.
func WithStoreLogger(l *logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a store backed by the given config file path. The path
// may be empty for a store with no file (in-memory overrides only).
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		values: make(map[string]any),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the config file and replaces the store's values. A missing
// file clears the store without error.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	values, err := LoaderFor(s.path).Load()
	if err != nil {
		return err
	}
	if values == nil {
		values = make(map[string]any)
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()

	s.logger.Debug("loaded settings from %s", s.path)
	return nil
}

// Set replaces the store's values directly, for tests and embedders that
// manage config themselves.
func (s *Store) Set(values map[string]any) {
	if values == nil {
		values = make(map[string]any)
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
}

// Checker returns the user overrides for a checker by name, or nil when
// none exist. Implements checker.SettingsSource.
func (s *Store) Checker(name string) map[string]any {
	return s.section("linters", name)
}

// Definition returns the raw definition table for a checker declared in the
// config's [checkers] section.
func (s *Store) Definition(name string) map[string]any {
	return s.section("checkers", name)
}

// DefinitionNames returns the names declared under [checkers].
func (s *Store) DefinitionNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, _ := s.values["checkers"].(map[string]any)
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}

// section returns values[table][name] as a map.
func (s *Store) section(table, name string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outer, _ := s.values[table].(map[string]any)
	if outer == nil {
		return nil
	}
	inner, _ := outer[name].(map[string]any)
	return inner
}
