// Package nativelib selects and loads native shared libraries for
// modules, tolerating the development-mode layout where the compiled
// artifact sits under build/libs/ instead of the installed libs/
// directory.
//
// The load order is: standard layout first, then the development layout,
// and when both fail the caller sees the standard attempt's error
// unchanged, so diagnostics match an untouched loader.
package nativelib

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Registry is the narrow view of the development registry the loader
// consumes.
type Registry interface {
	IsDevModule(name string) bool
	ModuleRoot(name string) (string, error)
}

// Handle is a loaded native library, keyed by its fully resolved path.
type Handle struct {
	// Path is the symlink-expanded, cleaned library path.
	Path string

	// Lib is the binder-specific library object.
	Lib any
}

// Loader loads native libraries with development-mode fallback and keeps
// the process-wide list of loaded handles.
type Loader struct {
	reg    Registry
	binder Binder
	logger *zap.Logger

	mu     sync.Mutex
	loaded []*Handle
}

// NewLoader creates a loader. A nil binder defaults to PluginBinder; a
// nil logger is replaced by a no-op logger.
func NewLoader(reg Registry, binder Binder, logger *zap.Logger) *Loader {
	if binder == nil {
		binder = PluginBinder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{reg: reg, binder: binder, logger: logger}
}

// Load binds the named library for a module, checking each search
// location in order. The standard installed layout is tried first; on
// failure the development layout is tried; if that fails too, the error
// from the standard attempt is returned untouched.
func (l *Loader) Load(name, module string, searchPaths ...string) (*Handle, error) {
	h, stdErr := l.loadFrom(name, module, l.standardDirs(module, searchPaths))
	if stdErr == nil {
		return h, nil
	}

	if h, devErr := l.loadFrom(name, module, l.devDirs(module, searchPaths)); devErr == nil {
		l.logger.Debug("loaded native library from development layout",
			zap.String("module", module),
			zap.String("path", h.Path))
		return h, nil
	}

	// Surface the standard attempt's failure as-is so callers that
	// match on its message or type are unaffected by the fallback.
	return nil, stdErr
}

// standardDirs lists the installed-layout candidate directories.
func (l *Loader) standardDirs(module string, searchPaths []string) []string {
	dirs := make([]string, 0, len(searchPaths))
	for _, loc := range searchPaths {
		dirs = append(dirs, filepath.Join(loc, module, "libs", platformDir()))
	}
	return dirs
}

// devDirs lists the development-layout candidates: the dev module's own
// build output first, then the build variant of each search location.
func (l *Loader) devDirs(module string, searchPaths []string) []string {
	var dirs []string
	if l.reg.IsDevModule(module) {
		if root, err := l.reg.ModuleRoot(module); err == nil {
			dirs = append(dirs, filepath.Join(root, "build", "libs", platformDir()))
		}
	}
	for _, loc := range searchPaths {
		dirs = append(dirs, filepath.Join(loc, module, "build", "libs", platformDir()))
	}
	return dirs
}

// loadFrom searches the candidate directories in order and binds the
// first existing match.
func (l *Loader) loadFrom(name, module string, dirs []string) (*Handle, error) {
	file := libFileName(name)
	for _, dir := range dirs {
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); err == nil {
			return l.bind(path)
		}
	}
	return nil, &NotFoundError{File: file, Searched: dirs}
}

// bind resolves the path, short-circuits if it is already loaded, and
// otherwise binds it with the search-path variable temporarily pointing
// at the library's directory.
func (l *Loader) bind(path string) (*Handle, error) {
	resolved := resolvePath(path)

	l.mu.Lock()
	if h := l.findLocked(resolved); h != nil {
		l.mu.Unlock()
		l.logger.Debug("native library already loaded", zap.String("path", resolved))
		return h, nil
	}
	l.mu.Unlock()

	var lib any
	err := withLibraryDir(filepath.Dir(resolved), func() error {
		bound, bindErr := l.binder.Bind(resolved)
		lib = bound
		return bindErr
	})
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", resolved, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if h := l.findLocked(resolved); h != nil {
		return h, nil
	}
	h := &Handle{Path: resolved, Lib: lib}
	l.loaded = append(l.loaded, h)

	l.logger.Debug("native library loaded", zap.String("path", resolved))
	return h, nil
}

// Unload releases the named library for a module. For a module in
// development mode the unload is resolved against the development
// layout and is best-effort: errors are swallowed and the standard
// unload path is never consulted. For other modules the standard layout
// is used and errors are returned.
func (l *Loader) Unload(name, module string, searchPaths ...string) error {
	file := libFileName(name)

	if l.reg.IsDevModule(module) {
		for _, dir := range l.devDirs(module, searchPaths) {
			if err := l.unbind(filepath.Join(dir, file)); err == nil {
				return nil
			}
		}
		// Best-effort: a broken development unload must not block the
		// developer from reloading.
		return nil
	}

	for _, dir := range l.standardDirs(module, searchPaths) {
		path := filepath.Join(dir, file)
		if l.IsLoaded(path) {
			return l.unbind(path)
		}
	}
	return fmt.Errorf("%w: %s for module %s", ErrNotLoaded, file, module)
}

// unbind removes the handle for a path from the list and releases it.
func (l *Loader) unbind(path string) error {
	resolved := resolvePath(path)

	l.mu.Lock()
	idx := -1
	for i, h := range l.loaded {
		if h.Path == resolved {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotLoaded, resolved)
	}
	h := l.loaded[idx]
	l.loaded = append(l.loaded[:idx], l.loaded[idx+1:]...)
	l.mu.Unlock()

	return l.binder.Unbind(h.Path, h.Lib)
}

// IsLoaded reports whether the resolved path is in the handle list.
func (l *Loader) IsLoaded(path string) bool {
	resolved := resolvePath(path)
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.findLocked(resolved) != nil
}

// Loaded returns a copy of the handle list in load order.
func (l *Loader) Loaded() []*Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Handle, len(l.loaded))
	copy(out, l.loaded)
	return out
}

func (l *Loader) findLocked(resolved string) *Handle {
	for _, h := range l.loaded {
		if h.Path == resolved {
			return h
		}
	}
	return nil
}

// resolvePath expands symlinks and cleans the path so the handle list
// keys stay canonical. A path that cannot be resolved (already unlinked,
// permission) is used as-is.
func resolvePath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return filepath.Clean(resolved)
	}
	return filepath.Clean(path)
}
