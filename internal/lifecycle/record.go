package lifecycle

import "sync"

// Record is the per-module metadata record tracking which hook sources
// have already run for each event. A state moves NotRun -> Ran at most
// once per registry lifetime; only the registry resets it, by replacing
// the whole record when a module is reloaded or removed.
type Record struct {
	mu   sync.Mutex
	dev  [numEvents]State
	user [numEvents]State
}

// NewRecord returns a record with every state NotRun.
func NewRecord() *Record {
	return &Record{}
}

// Developer returns the developer-hook state for an event.
func (r *Record) Developer(e Event) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dev[e]
}

// MarkDeveloper sets the developer-hook state for an event to Ran.
func (r *Record) MarkDeveloper(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dev[e] = StateRan
}

// User returns the user-hook state for an event.
func (r *Record) User(e Event) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.user[e]
}

// MarkUser sets the user-hook state for an event to Ran.
func (r *Record) MarkUser(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user[e] = StateRan
}
