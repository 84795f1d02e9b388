package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"devload/internal/lifecycle"
)

var unloadCmd = &cobra.Command{
	Use:   "unload [dir]",
	Short: "Run a module's unload cycle and take it out of development mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnload,
}

func runUnload(cmd *cobra.Command, args []string) error {
	m, err := loadModule(args[0])
	if err != nil {
		return err
	}
	if err := unloadModule(m.Name); err != nil {
		return err
	}

	fmt.Printf("Unloaded %s\n", m.Name)
	return nil
}

// unloadModule fires detach and unload events, releases the module's
// native library, and removes the module from the registry. Hook
// failures during teardown are reported but do not stop it.
func unloadModule(name string) error {
	m, ok := app.reg.Get(name)
	if !ok {
		return fmt.Errorf("module %s is not loaded", name)
	}

	for _, event := range []lifecycle.Event{lifecycle.EventDetach, lifecycle.EventUnload} {
		if _, err := app.runner.RunUserHooks(name, event); err != nil {
			logger.Warn("user hooks failed during unload: " + err.Error())
		}
		if _, err := app.runner.RunDeveloperHook(name, event); err != nil {
			logger.Warn("developer hook failed during unload: " + err.Error())
		}
	}

	if m.Manifest.Library != "" {
		// Development-mode unload is best-effort by contract.
		_ = app.loader.Unload(m.Manifest.Library, name, app.cfg.Library)
	}

	return app.reg.Deregister(name)
}
