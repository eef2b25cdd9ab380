package settings

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/lintstorm/internal/logging"
)

// Watcher reloads a settings store when its config file changes and then
// notifies a handler, typically Manager.Reload. Rapid successive writes
// (editors often write-then-rename) are debounced into one reload.
type Watcher struct {
	store    *Store
	handler  func()
	debounce time.Duration
	logger   *logging.Logger

	mu      sync.Mutex
	fw      *fsnotify.Watcher
	pending *time.Timer
	closed  bool
	done    chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the coalescing window for change events.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher creates a watcher for the store's config file. The handler is
// called after each successful reload.
func NewWatcher(store *Store, handler func(), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		store:    store,
		handler:  handler,
		debounce: 100 * time.Millisecond,
		logger:   logging.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. No-op when the store has no file path.
func (w *Watcher) Start() error {
	if w.store.path == "" {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory, not the file. A write-then-rename save replaces
	// the file's inode, which would kill a watch bound to the file itself;
	// the directory watch sees the rename as a Create of the config name
	// and survives any number of replacements.
	if err := fw.Add(filepath.Dir(w.store.path)); err != nil {
		fw.Close()
		return err
	}

	w.mu.Lock()
	w.fw = fw
	w.mu.Unlock()

	go w.loop(fw)
	return nil
}

// Close stops watching and waits for the event loop to finish.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	fw := w.fw
	w.mu.Unlock()

	if fw == nil {
		return nil
	}
	err := fw.Close()
	<-w.done
	return err
}

// loop consumes watcher events until closed.
func (w *Watcher) loop(fw *fsnotify.Watcher) {
	defer close(w.done)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.store.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Debug("settings watch error: %v", err)
		}
	}
}

// schedule arms or re-arms the debounced reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.reload)
}

// reload re-reads the config file and invokes the handler.
func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		w.logger.Debug("settings reload failed: %v", err)
		return
	}
	if w.handler != nil {
		w.handler()
	}
}
