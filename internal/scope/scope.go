// Package scope implements named binding scopes arranged in a chain.
//
// A scope is an explicit override table: names bound in a scope shadow the
// same names in its ancestors. The process keeps one global evaluation
// scope; subsystems may splice additional named scopes into the chain so
// that their bindings become visible to every lookup that walks it.
package scope

import (
	"sync"
)

// Scope is a named table of bindings with an optional parent.
// Lookups walk from the receiver toward the root of the chain, so a
// binding in a child shadows one in an ancestor.
type Scope struct {
	name string

	mu       sync.RWMutex
	parent   *Scope
	bindings map[string]any
}

// New creates a scope with the given name and parent. A nil parent makes
// the scope a chain root.
func New(name string, parent *Scope) *Scope {
	return &Scope{
		name:     name,
		parent:   parent,
		bindings: make(map[string]any),
	}
}

// Name returns the scope's name.
func (s *Scope) Name() string {
	return s.name
}

// Parent returns the scope's current parent, or nil for a chain root.
func (s *Scope) Parent() *Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parent
}

// Bind sets a name in this scope, shadowing any ancestor binding.
func (s *Scope) Bind(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[name] = value
}

// LookupLocal returns a binding from this scope only.
func (s *Scope) LookupLocal(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.bindings[name]
	return v, ok
}

// Lookup resolves a name against the scope chain, innermost first.
func (s *Scope) Lookup(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.Parent() {
		if v, ok := cur.LookupLocal(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Find returns the first scope in the chain with the given name, or nil.
func (s *Scope) Find(name string) *Scope {
	for cur := s; cur != nil; cur = cur.Parent() {
		if cur.name == name {
			return cur
		}
	}
	return nil
}

// InsertAncestor splices a into the chain directly above the receiver.
// The receiver's previous parent becomes a's parent.
func (s *Scope) InsertAncestor(a *Scope) {
	s.mu.Lock()
	old := s.parent
	s.parent = a
	s.mu.Unlock()

	a.mu.Lock()
	a.parent = old
	a.mu.Unlock()
}

// ChainNames returns the names of every scope from the receiver to the
// chain root, in lookup order.
func (s *Scope) ChainNames() []string {
	var names []string
	for cur := s; cur != nil; cur = cur.Parent() {
		names = append(names, cur.name)
	}
	return names
}

// Visible returns every binding reachable from the receiver, with inner
// scopes shadowing ancestors. The returned map is a snapshot.
func (s *Scope) Visible() map[string]any {
	// Collect the chain outermost-first so inner bindings overwrite.
	var chain []*Scope
	for cur := s; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
	}

	out := make(map[string]any)
	for i := len(chain) - 1; i >= 0; i-- {
		sc := chain[i]
		sc.mu.RLock()
		for k, v := range sc.bindings {
			out[k] = v
		}
		sc.mu.RUnlock()
	}
	return out
}

var (
	globalOnce sync.Once
	global     *Scope
)

// Global returns the process-wide global evaluation scope.
func Global() *Scope {
	globalOnce.Do(func() {
		global = New("global", nil)
	})
	return global
}
