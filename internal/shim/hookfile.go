package shim

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/traefik/yaegi/interp"

	"devload/internal/lifecycle"
	"devload/internal/registry"
)

// LoadHookSet evaluates a module's hooks file, if its manifest names
// one, and extracts the optional lifecycle functions. The file is plain
// Go source in package hooks, interpreted with the module's shims
// already bound, so hook bodies call resolveResource and the native
// loaders transparently.
//
// Expected signatures:
//
//	func OnLoad(dir, name string) error
//	func OnUnload(dir string) error
//	func OnAttach(dir, name string) error
//	func OnDetach(dir string) error
//
// Any subset may be defined; missing functions are simply absent from
// the returned set.
func LoadHookSet(m *registry.Module) (*lifecycle.HookSet, error) {
	hs := &lifecycle.HookSet{}
	if m.Manifest.HooksFile == "" {
		return hs, nil
	}

	path := filepath.Join(m.Root, m.Manifest.HooksFile)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hooks file: %w", err)
	}

	i, err := NewInterpreter(m.Scope)
	if err != nil {
		return nil, err
	}

	if _, err := i.Eval(string(src)); err != nil {
		return nil, fmt.Errorf("evaluating hooks file %s: %w", path, err)
	}

	if fn, ok, err := hookFunc2(i, "OnLoad"); err != nil {
		return nil, err
	} else if ok {
		hs.OnLoad = fn
	}
	if fn, ok, err := hookFunc2(i, "OnAttach"); err != nil {
		return nil, err
	} else if ok {
		hs.OnAttach = fn
	}
	if fn, ok, err := hookFunc1(i, "OnUnload"); err != nil {
		return nil, err
	} else if ok {
		hs.OnUnload = fn
	}
	if fn, ok, err := hookFunc1(i, "OnDetach"); err != nil {
		return nil, err
	} else if ok {
		hs.OnDetach = fn
	}

	return hs, nil
}

// hookFunc2 extracts a (dir, name) hook by conventional name.
func hookFunc2(i *interp.Interpreter, name string) (func(string, string) error, bool, error) {
	v, err := i.Eval("hooks." + name)
	if err != nil {
		// Not defined by the hooks file.
		return nil, false, nil
	}
	fn, ok := v.Interface().(func(string, string) error)
	if !ok {
		return nil, false, fmt.Errorf("hook %s has wrong signature (want func(dir, name string) error)", name)
	}
	return fn, true, nil
}

// hookFunc1 extracts a (dir) hook by conventional name.
func hookFunc1(i *interp.Interpreter, name string) (func(string) error, bool, error) {
	v, err := i.Eval("hooks." + name)
	if err != nil {
		return nil, false, nil
	}
	fn, ok := v.Interface().(func(string) error)
	if !ok {
		return nil, false, fmt.Errorf("hook %s has wrong signature (want func(dir string) error)", name)
	}
	return fn, true, nil
}
