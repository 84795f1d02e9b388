// Package registry tracks which modules are currently in development
// mode, along with their on-disk root, manifest, lifecycle metadata, and
// private scope. Entries live for the process lifetime: added when a
// module enters development mode, removed when it exits. Reloading a
// module replaces its metadata record, which is the only way lifecycle
// idempotency flags are ever reset.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devload/internal/lifecycle"
	"devload/internal/manifest"
	"devload/internal/scope"
)

// Registry errors.
var (
	// ErrModuleNotFound is returned when a module is not in development mode.
	ErrModuleNotFound = errors.New("module not in development mode")

	// ErrAlreadyRegistered is returned when a module name is already registered.
	ErrAlreadyRegistered = errors.New("module already in development mode")
)

// Module is a registry entry for one module in development mode.
type Module struct {
	// Name is the module name from its manifest.
	Name string

	// Root is the absolute path of the module's source tree.
	Root string

	// ID correlates log lines for one development session.
	ID string

	// Manifest is the parsed module.yaml.
	Manifest *manifest.Manifest

	// Meta tracks lifecycle hook idempotency for this entry.
	Meta *lifecycle.Record

	// Hooks holds the module's developer hooks, populated at load time.
	Hooks *lifecycle.HookSet

	// Scope is the module's private import scope.
	Scope *scope.Scope
}

// Registry is the process-wide development registry.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
	logger  *zap.Logger
}

// New creates an empty registry. A nil logger is replaced by a no-op
// logger.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		modules: make(map[string]*Module),
		logger:  logger,
	}
}

// Register puts the module rooted at the given directory into development
// mode: it parses the manifest, creates a fresh metadata record, and
// builds the module's private scope as a child of the global scope.
func (r *Registry) Register(root string) (*Module, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving module root: %w", err)
	}

	man, err := manifest.Load(abs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[man.Name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, man.Name)
	}

	m := &Module{
		Name:     man.Name,
		Root:     abs,
		ID:       uuid.NewString(),
		Manifest: man,
		Meta:     lifecycle.NewRecord(),
		Hooks:    &lifecycle.HookSet{},
		Scope:    scope.New("module:"+man.Name, scope.Global()),
	}
	r.modules[man.Name] = m

	r.logger.Info("module entered development mode",
		zap.String("module", m.Name),
		zap.String("root", m.Root),
		zap.String("session", m.ID))
	return m, nil
}

// Deregister removes a module from development mode.
func (r *Registry) Deregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modules[name]; !ok {
		return fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	delete(r.modules, name)

	r.logger.Info("module left development mode", zap.String("module", name))
	return nil
}

// Reload re-reads the module's manifest and replaces its metadata record
// and hook set, so lifecycle hooks run again on the next event. The
// session ID and private scope are kept.
func (r *Registry) Reload(name string) (*Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}

	man, err := manifest.Load(m.Root)
	if err != nil {
		return nil, err
	}
	if man.Name != m.Name {
		return nil, fmt.Errorf("manifest for %s now names module %s; deregister and register again", m.Name, man.Name)
	}

	m.Manifest = man
	m.Meta = lifecycle.NewRecord()
	m.Hooks = &lifecycle.HookSet{}

	r.logger.Info("module reloaded",
		zap.String("module", m.Name),
		zap.String("root", m.Root))
	return m, nil
}

// Get returns the entry for a module name.
func (r *Registry) Get(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// All returns every registered module, sorted by name.
func (r *Registry) All() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsDevModule reports whether a module is currently in development mode.
func (r *Registry) IsDevModule(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[name]
	return ok
}

// ModuleRoot returns the on-disk root of a development module.
func (r *Registry) ModuleRoot(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	return m.Root, nil
}

// Metadata returns the module's lifecycle metadata record.
func (r *Registry) Metadata(name string) (*lifecycle.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	return m.Meta, nil
}

// HookSet returns the module's developer hooks.
func (r *Registry) HookSet(name string) (*lifecycle.HookSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	return m.Hooks, nil
}

// SetHooks replaces the module's developer hooks. Called once at load
// time after the hooks file (if any) has been evaluated.
func (r *Registry) SetHooks(name string, hooks *lifecycle.HookSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	if hooks == nil {
		hooks = &lifecycle.HookSet{}
	}
	m.Hooks = hooks
	return nil
}
