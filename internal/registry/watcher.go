package registry

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"devload/internal/manifest"
)

// Watcher reloads development modules when their manifest changes on
// disk. A reload replaces the module's metadata record, so lifecycle
// hooks fire again on the next event.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	reg         *Registry
	onReload    func(*Module)
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	logger      *zap.Logger
}

// NewWatcher creates a watcher over the given registry. onReload, if not
// nil, is called after each successful reload (the caller typically
// re-injects shims and re-evaluates the hooks file there).
func NewWatcher(reg *Registry, onReload func(*Module), logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		fsw:         fsw,
		reg:         reg,
		onReload:    onReload,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond, // settle rapid editor saves
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}, nil
}

// Watch starts watching a module's root directory.
func (w *Watcher) Watch(m *Module) error {
	return w.fsw.Add(m.Root)
}

// Start begins processing filesystem events. Non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("closing filesystem watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("filesystem watcher error", zap.Error(err))
		case <-ticker.C:
			w.processSettled()
		}
	}
}

// handleEvent records manifest writes for debounced processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != manifest.FileName {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	w.logger.Debug("manifest changed", zap.String("path", event.Name))

	w.mu.Lock()
	w.debounceMap[filepath.Dir(event.Name)] = time.Now()
	w.mu.Unlock()
}

// processSettled reloads modules whose manifest changes settled past the
// debounce window.
func (w *Watcher) processSettled() {
	w.mu.Lock()
	now := time.Now()
	var roots []string
	for root, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			roots = append(roots, root)
			delete(w.debounceMap, root)
		}
	}
	w.mu.Unlock()

	for _, root := range roots {
		w.reloadByRoot(root)
	}
}

func (w *Watcher) reloadByRoot(root string) {
	var target *Module
	for _, m := range w.reg.All() {
		if m.Root == root {
			target = m
			break
		}
	}
	if target == nil {
		return
	}

	m, err := w.reg.Reload(target.Name)
	if err != nil {
		w.logger.Error("manifest reload failed",
			zap.String("module", target.Name),
			zap.Error(err))
		return
	}
	if w.onReload != nil {
		w.onReload(m)
	}
}
