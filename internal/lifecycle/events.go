// Package lifecycle runs module lifecycle hooks exactly once per module
// per event, tracked by a typed per-module metadata record.
//
// Two hook sources exist per event: the developer hooks a module declares
// for itself (typed optional callbacks on its descriptor) and user hooks
// registered externally against a (module, event) pair. Each source has
// its own idempotency flag in the metadata record.
package lifecycle

// Event is one of the four module lifecycle events.
type Event int

const (
	// EventLoad fires when a module's code is loaded.
	EventLoad Event = iota

	// EventUnload fires when a module's code is unloaded.
	EventUnload

	// EventAttach fires when a module becomes visible to interactive code.
	EventAttach

	// EventDetach fires when a module stops being visible.
	EventDetach

	numEvents
)

// String returns the conventional event name.
func (e Event) String() string {
	switch e {
	case EventLoad:
		return "load"
	case EventUnload:
		return "unload"
	case EventAttach:
		return "attach"
	case EventDetach:
		return "detach"
	default:
		return "unknown"
	}
}

// State tracks whether a hook source has run for an event.
type State int

const (
	// StateNotRun means the hook source has not run for the event.
	StateNotRun State = iota

	// StateRan means the hook source already ran for the event.
	StateRan
)

// Outcome reports what a runner call did.
type Outcome int

const (
	// OutcomeRan means hooks were invoked and the flag was set.
	OutcomeRan Outcome = iota

	// OutcomeAlreadyRun means the flag was already set; nothing ran.
	OutcomeAlreadyRun

	// OutcomeNotDefined means the module defines no developer hook
	// for the event.
	OutcomeNotDefined

	// OutcomeNoneRegistered means no user hooks exist for the event.
	OutcomeNoneRegistered
)

// String returns a short outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeRan:
		return "ran"
	case OutcomeAlreadyRun:
		return "already_run"
	case OutcomeNotDefined:
		return "not_defined"
	case OutcomeNoneRegistered:
		return "none_registered"
	default:
		return "unknown"
	}
}
