package nativelib

import (
	"plugin"
)

// Binder is the primitive that actually binds and unbinds a native
// shared library. The loader only decides which path to bind.
type Binder interface {
	// Bind loads the library at the given resolved path.
	Bind(path string) (any, error)

	// Unbind releases a previously bound library.
	Unbind(path string, lib any) error
}

// PluginBinder binds libraries through the standard library's plugin
// package.
type PluginBinder struct{}

// Bind opens the shared object as a Go plugin.
func (PluginBinder) Bind(path string) (any, error) {
	return plugin.Open(path)
}

// Unbind is a no-op: Go plugins stay mapped for the process lifetime.
func (PluginBinder) Unbind(path string, lib any) error {
	return nil
}
