package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devload/internal/registry"
	"devload/internal/scope"
	"devload/internal/shim"
)

var replCmd = &cobra.Command{
	Use:   "repl [dir...]",
	Short: "Load modules in development mode and evaluate code against them",
	Long: `Loads each given module source tree, then reads Go statements from
stdin and evaluates them. The interpreter sees the shim bindings as the
devshims package, so evaluated code resolves development resources and
libraries transparently. While the session runs, manifest edits reload
the affected module.`,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	for _, dir := range args {
		m, err := loadModule(dir)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %s from %s\n", m.Name, m.Root)
	}
	app.injector.AttachInteractive(scope.Global())

	if app.cfg.Watch {
		watcher, err := registry.NewWatcher(app.reg, func(m *registry.Module) {
			// Fresh metadata means hooks fire again on the next event;
			// shims and the hooks file must be re-applied first.
			app.injector.InjectModule(m)
			if hooks, err := shim.LoadHookSet(m); err == nil {
				_ = app.reg.SetHooks(m.Name, hooks)
			} else {
				logger.Warn("hooks file reload failed", zap.Error(err))
			}
			fmt.Printf("Reloaded %s\n", m.Name)
		}, logger)
		if err != nil {
			return err
		}
		for _, m := range app.reg.All() {
			if err := watcher.Watch(m); err != nil {
				logger.Warn("cannot watch module root", zap.Error(err))
			}
		}
		watcher.Start(cmd.Context())
		defer watcher.Stop()
	}

	i, err := shim.NewInterpreter(scope.Global())
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nBye.")
		os.Exit(0)
	}()

	fmt.Println(`Interactive session; import "devshims" for the shim bindings. Ctrl-D exits.`)
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			if v, err := i.Eval(line); err != nil {
				fmt.Println("error:", err)
			} else if v.IsValid() {
				fmt.Println(v.Interface())
			}
		}
		fmt.Print("> ")
	}
	fmt.Println()
	return scanner.Err()
}
