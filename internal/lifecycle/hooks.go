package lifecycle

import "sync"

// HookSet holds a module's optional developer hooks. A nil field means
// the module does not define that hook. The set is populated when the
// module is registered, either natively or from its interpreted hooks
// file.
type HookSet struct {
	// OnLoad runs when the module is loaded.
	OnLoad func(dir, name string) error

	// OnUnload runs when the module is unloaded.
	OnUnload func(dir string) error

	// OnAttach runs when the module becomes visible to interactive code.
	OnAttach func(dir string, name string) error

	// OnDetach runs when the module stops being visible.
	OnDetach func(dir string) error
}

// invoker returns a closure invoking the hook for an event with the
// conventional arguments, or nil when the hook is not defined. Load and
// attach hooks receive the module directory and name; unload and detach
// receive only the directory.
func (h *HookSet) invoker(e Event, dir, name string) func() error {
	if h == nil {
		return nil
	}
	switch e {
	case EventLoad:
		if h.OnLoad != nil {
			return func() error { return h.OnLoad(dir, name) }
		}
	case EventUnload:
		if h.OnUnload != nil {
			return func() error { return h.OnUnload(dir) }
		}
	case EventAttach:
		if h.OnAttach != nil {
			return func() error { return h.OnAttach(dir, name) }
		}
	case EventDetach:
		if h.OnDetach != nil {
			return func() error { return h.OnDetach(dir) }
		}
	}
	return nil
}

// UserHookFunc is an externally registered lifecycle hook.
type UserHookFunc func(dir, name string) error

type hookKey struct {
	module string
	event  Event
}

// UserHookTable is a process-wide registration facility for user hooks,
// keyed by (module, event) and independent of the module's own code.
type UserHookTable struct {
	mu    sync.Mutex
	hooks map[hookKey][]UserHookFunc
}

// NewUserHookTable creates an empty table.
func NewUserHookTable() *UserHookTable {
	return &UserHookTable{hooks: make(map[hookKey][]UserHookFunc)}
}

// Register appends a hook for the given module and event.
func (t *UserHookTable) Register(module string, e Event, fn UserHookFunc) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	k := hookKey{module: module, event: e}
	t.hooks[k] = append(t.hooks[k], fn)
}

// For returns a copy of the hooks registered for a module and event, in
// registration order.
func (t *UserHookTable) For(module string, e Event) []UserHookFunc {
	t.mu.Lock()
	defer t.mu.Unlock()
	hs := t.hooks[hookKey{module: module, event: e}]
	out := make([]UserHookFunc, len(hs))
	copy(out, hs)
	return out
}

// Default process-wide table for convenience.
var defaultTable = NewUserHookTable()

// DefaultUserHooks returns the process-wide user hook table.
func DefaultUserHooks() *UserHookTable {
	return defaultTable
}

// RegisterUserHook registers a hook in the process-wide table.
func RegisterUserHook(module string, e Event, fn UserHookFunc) {
	defaultTable.Register(module, e, fn)
}
