// Package shim installs replacement resource-resolution and native-
// library functions at the two points where module code and interactive
// code look them up: the private scope of a module in development mode,
// and a single named scope spliced into the interactive scope chain.
//
// Module code never changes: anything evaluated against a shimmed scope
// resolves the shim bindings instead of the standard implementations.
package shim

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"devload/internal/nativelib"
	"devload/internal/registry"
	"devload/internal/resolver"
	"devload/internal/scope"
)

// ScopeName is the name of the singleton interactive shim scope. It is
// checked by name before creation, so attaching twice is a no-op.
const ScopeName = "devload-shims"

// Names bound by the injector.
const (
	bindResolveResource = "resolveResource"
	bindLoadNativeLib   = "loadNativeLib"
	bindUnloadNativeLib = "unloadNativeLib"
	bindHelpFor         = "helpFor"
)

// HelpFunc resolves a documentation topic to a file path.
type HelpFunc func(module, topic string) (string, error)

// Injector wires the resolver and native-library loader into scopes.
type Injector struct {
	reg    *registry.Registry
	res    *resolver.Resolver
	loader *nativelib.Loader

	// StandardHelp, if set, handles help lookups for modules that are
	// not in development mode.
	StandardHelp HelpFunc

	attachMu sync.Mutex
	logger   *zap.Logger
}

// NewInjector creates an injector. A nil logger is replaced by a no-op
// logger.
func NewInjector(reg *registry.Registry, res *resolver.Resolver, loader *nativelib.Loader, logger *zap.Logger) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Injector{reg: reg, res: res, loader: loader, logger: logger}
}

// InjectModule binds the shims into a module's private scope. Must run
// before any of the module's own code or hooks are evaluated, so their
// lookups resolve to the shims.
func (in *Injector) InjectModule(m *registry.Module) {
	name := m.Name

	m.Scope.Bind(bindResolveResource, func(rel []string, mustExist bool) ([]string, error) {
		return in.res.Resolve(name, rel, mustExist)
	})
	m.Scope.Bind(bindLoadNativeLib, func(lib string, searchPaths ...string) (*nativelib.Handle, error) {
		return in.loader.Load(lib, name, searchPaths...)
	})
	m.Scope.Bind(bindUnloadNativeLib, func(lib string, searchPaths ...string) error {
		return in.loader.Unload(lib, name, searchPaths...)
	})

	in.logger.Debug("injected module shims",
		zap.String("module", name),
		zap.String("scope", m.Scope.Name()))
}

// AttachInteractive splices the shim scope into the chain above the
// given global scope. Idempotent: if a scope named ScopeName is already
// reachable, nothing happens. The scope is never detached.
func (in *Injector) AttachInteractive(global *scope.Scope) {
	in.attachMu.Lock()
	defer in.attachMu.Unlock()

	if global.Find(ScopeName) != nil {
		return
	}

	s := scope.New(ScopeName, nil)
	s.Bind(bindResolveResource, func(module string, rel []string, mustExist bool) ([]string, error) {
		return in.res.Resolve(module, rel, mustExist)
	})
	s.Bind(bindHelpFor, HelpFunc(in.helpFor))

	global.InsertAncestor(s)

	in.logger.Info("attached interactive shim scope", zap.String("scope", ScopeName))
}

// helpFor resolves a help topic. For a module in development mode the
// topic is looked up under the source tree's docs/ directory; other
// modules fall through to the standard help lookup when configured.
func (in *Injector) helpFor(module, topic string) (string, error) {
	if in.reg.IsDevModule(module) {
		root, err := in.reg.ModuleRoot(module)
		if err != nil {
			return "", err
		}
		path := filepath.Join(root, "docs", topic+".md")
		if _, err := os.Stat(path); err == nil {
			return filepath.ToSlash(path), nil
		}
	}
	if in.StandardHelp != nil {
		return in.StandardHelp(module, topic)
	}
	return "", nil
}
