package lifecycle

import (
	"fmt"

	"go.uber.org/zap"
)

// Registry is the narrow view of the development registry the runner
// consumes.
type Registry interface {
	IsDevModule(name string) bool
	ModuleRoot(name string) (string, error)
	Metadata(name string) (*Record, error)
	HookSet(name string) (*HookSet, error)
}

// Runner invokes developer and user hooks for lifecycle events, guarded
// by the module's metadata record so each source runs at most once per
// module per event.
type Runner struct {
	reg    Registry
	user   *UserHookTable
	logger *zap.Logger
}

// NewRunner creates a runner. A nil user table falls back to the
// process-wide table; a nil logger is replaced by a no-op logger.
func NewRunner(reg Registry, user *UserHookTable, logger *zap.Logger) *Runner {
	if user == nil {
		user = DefaultUserHooks()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{reg: reg, user: user, logger: logger}
}

// RunDeveloperHook runs the module's own hook for an event, if defined
// and not already run. A hook error propagates to the caller and leaves
// the flag unset.
func (r *Runner) RunDeveloperHook(module string, e Event) (Outcome, error) {
	meta, err := r.reg.Metadata(module)
	if err != nil {
		return OutcomeNotDefined, err
	}
	if meta.Developer(e) == StateRan {
		return OutcomeAlreadyRun, nil
	}

	hooks, err := r.reg.HookSet(module)
	if err != nil {
		return OutcomeNotDefined, err
	}
	root, err := r.reg.ModuleRoot(module)
	if err != nil {
		return OutcomeNotDefined, err
	}

	invoke := hooks.invoker(e, root, module)
	if invoke == nil {
		return OutcomeNotDefined, nil
	}

	r.logger.Debug("running developer hook",
		zap.String("module", module),
		zap.Stringer("event", e))
	if err := invoke(); err != nil {
		return OutcomeRan, fmt.Errorf("%s hook for module %s: %w", e, module, err)
	}

	meta.MarkDeveloper(e)
	return OutcomeRan, nil
}

// RunUserHooks runs all externally registered hooks for an event, most
// recently registered first. Each hook is invoked best-effort: an error
// or panic in one hook is logged and does not stop the rest. The flag is
// set once all hooks have been attempted.
func (r *Runner) RunUserHooks(module string, e Event) (Outcome, error) {
	meta, err := r.reg.Metadata(module)
	if err != nil {
		return OutcomeNoneRegistered, err
	}
	if meta.User(e) == StateRan {
		return OutcomeAlreadyRun, nil
	}

	hooks := r.user.For(module, e)
	if len(hooks) == 0 {
		return OutcomeNoneRegistered, nil
	}

	root, err := r.reg.ModuleRoot(module)
	if err != nil {
		return OutcomeNoneRegistered, err
	}

	for i := len(hooks) - 1; i >= 0; i-- {
		r.runOne(hooks[i], module, e, root)
	}

	meta.MarkUser(e)
	return OutcomeRan, nil
}

// runOne invokes a single user hook, containing errors and panics.
func (r *Runner) runOne(fn UserHookFunc, module string, e Event, root string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("user hook panicked",
				zap.String("module", module),
				zap.Stringer("event", e),
				zap.Any("panic", rec))
		}
	}()

	if err := fn(root, module); err != nil {
		r.logger.Error("user hook failed",
			zap.String("module", module),
			zap.Stringer("event", e),
			zap.Error(err))
	}
}
