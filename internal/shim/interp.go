package shim

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"devload/internal/scope"
)

// interpPkg is the import path interpreted code uses to reach the shim
// bindings.
const interpPkg = "devshims"

// NewInterpreter builds a Go interpreter preloaded with the standard
// library symbols and every binding visible from the given scope,
// exported as the devshims package. Interpreted code imports "devshims"
// and calls the shims as ordinary functions.
func NewInterpreter(s *scope.Scope) (*interp.Interpreter, error) {
	i := interp.New(interp.Options{})

	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading stdlib symbols: %w", err)
	}

	symbols := make(map[string]reflect.Value)
	for name, value := range s.Visible() {
		symbols[exportName(name)] = reflect.ValueOf(value)
	}

	exports := interp.Exports{interpPkg + "/" + interpPkg: symbols}
	if err := i.Use(exports); err != nil {
		return nil, fmt.Errorf("exporting shim bindings: %w", err)
	}

	return i, nil
}

// exportName upper-cases the first rune so interpreted code can access
// the binding across the package boundary.
func exportName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
