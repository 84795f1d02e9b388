// Package resolver resolves a module's bundled resource files, honoring
// the development-mode source layout.
//
// An installed module keeps every resource at its root. A module under
// development keeps bundled resources in an assets/ subdirectory while
// other files stay at the source root, so a lookup has two candidate
// bases to reconcile: the nested root (<root>/assets) and the flat root
// (<root>). Where a path exists under both, the nested root wins.
package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// assetsDir is the nested subdirectory holding bundled resources in a
// development source tree.
const assetsDir = "assets"

// ErrResourceNotFound is returned when existence was mandatory and no
// requested path exists under either root.
var ErrResourceNotFound = errors.New("required resource missing")

// Registry is the narrow view of the development registry the resolver
// consumes.
type Registry interface {
	IsDevModule(name string) bool
	ModuleRoot(name string) (string, error)
}

// StandardFunc is the resource resolution an installed module would get.
// Calls for modules not in development mode are passed through to it
// unchanged, preserving its error behavior.
type StandardFunc func(module string, rel []string, mustExist bool) ([]string, error)

// Resolver reconciles the two candidate roots of a development module,
// delegating to the standard resolution for everything else.
type Resolver struct {
	reg      Registry
	standard StandardFunc
	logger   *zap.Logger
}

// New creates a resolver. A nil logger is replaced by a no-op logger.
func New(reg Registry, standard StandardFunc, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{reg: reg, standard: standard, logger: logger}
}

// Resolve returns the absolute paths of the requested resources.
//
// For each relative path the nested candidate (<root>/assets/<rel>) is
// preferred when it exists; otherwise the flat candidate (<root>/<rel>)
// is used when it exists; positions present under neither root are
// dropped. An empty result is an error only when mustExist is set.
//
// This approximates, but does not exactly reproduce, installed-module
// resolution: files that would be excluded at install time are still
// visible here.
func (r *Resolver) Resolve(module string, rel []string, mustExist bool) ([]string, error) {
	if !r.reg.IsDevModule(module) {
		return r.standard(module, rel, mustExist)
	}

	root, err := r.reg.ModuleRoot(module)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, p := range rel {
		nested := filepath.Join(root, assetsDir, p)
		flat := filepath.Join(root, p)
		switch {
		case fileExists(nested):
			out = append(out, normalize(nested))
		case fileExists(flat):
			out = append(out, normalize(flat))
		}
	}

	if len(out) == 0 {
		if mustExist {
			return nil, fmt.Errorf("%w: module %s, paths [%s]",
				ErrResourceNotFound, module, strings.Join(rel, ", "))
		}
		return nil, nil
	}

	r.logger.Debug("resolved development resources",
		zap.String("module", module),
		zap.Strings("paths", out))
	return out, nil
}

// InstalledLibrary returns a StandardFunc resolving resources under an
// installed-module library directory, where each module keeps all of its
// files at <library>/<module>/.
func InstalledLibrary(library string) StandardFunc {
	return func(module string, rel []string, mustExist bool) ([]string, error) {
		var out []string
		for _, p := range rel {
			full := filepath.Join(library, module, p)
			if fileExists(full) {
				out = append(out, normalize(full))
			}
		}
		if len(out) == 0 {
			if mustExist {
				return nil, fmt.Errorf("%w: module %s, paths [%s]",
					ErrResourceNotFound, module, strings.Join(rel, ", "))
			}
			return nil, nil
		}
		return out, nil
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func normalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
