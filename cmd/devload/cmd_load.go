package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"devload/internal/lifecycle"
	"devload/internal/registry"
	"devload/internal/scope"
	"devload/internal/shim"
)

var loadCmd = &cobra.Command{
	Use:   "load [dir]",
	Short: "Put a module source tree into development mode and run its load cycle",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	m, err := loadModule(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %s %s from %s\n", m.Name, m.Manifest.Version, m.Root)
	return nil
}

// loadModule performs the full development load cycle for one source
// tree: register, inject shims, attach the interactive shim scope,
// evaluate the hooks file, then fire load and attach events.
func loadModule(dir string) (*registry.Module, error) {
	m, err := app.reg.Register(dir)
	if err != nil {
		return nil, err
	}

	// Shims must be visible before any module code runs.
	app.injector.InjectModule(m)
	app.injector.AttachInteractive(scope.Global())

	hooks, err := shim.LoadHookSet(m)
	if err != nil {
		return nil, err
	}
	if err := app.reg.SetHooks(m.Name, hooks); err != nil {
		return nil, err
	}

	for _, event := range []lifecycle.Event{lifecycle.EventLoad, lifecycle.EventAttach} {
		// A developer hook failure here is fatal to the load.
		if _, err := app.runner.RunDeveloperHook(m.Name, event); err != nil {
			return nil, err
		}
		if _, err := app.runner.RunUserHooks(m.Name, event); err != nil {
			return nil, err
		}
	}

	if m.Manifest.Library != "" {
		if _, err := app.loader.Load(m.Manifest.Library, m.Name, app.cfg.Library); err != nil {
			return nil, fmt.Errorf("loading native library %s: %w", m.Manifest.Library, err)
		}
	}

	return m, nil
}
