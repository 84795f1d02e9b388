// devload loads modules straight from their source trees, giving them
// the resource resolution, native-library loading, and lifecycle hooks
// they would get once installed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"devload/internal/config"
	"devload/internal/lifecycle"
	"devload/internal/nativelib"
	"devload/internal/registry"
	"devload/internal/resolver"
	"devload/internal/shim"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger *zap.Logger
	app    *application
)

// application wires the subsystems together for one CLI invocation.
type application struct {
	cfg      *config.Config
	reg      *registry.Registry
	res      *resolver.Resolver
	loader   *nativelib.Loader
	injector *shim.Injector
	runner   *lifecycle.Runner
}

func newApplication(cfg *config.Config, logger *zap.Logger) *application {
	reg := registry.New(logger)
	res := resolver.New(reg, resolver.InstalledLibrary(cfg.Library), logger)
	loader := nativelib.NewLoader(reg, nil, logger)
	return &application{
		cfg:      cfg,
		reg:      reg,
		res:      res,
		loader:   loader,
		injector: shim.NewInjector(reg, res, loader, logger),
		runner:   lifecycle.NewRunner(reg, nil, logger),
	}
}

var rootCmd = &cobra.Command{
	Use:   "devload",
	Short: "Load modules from source trees as if they were installed",
	Long: `devload puts a module source tree into development mode: bundled
resources resolve from the source layout, native libraries load from the
development build output, and load/unload/attach/detach hooks fire
exactly once per event, exactly as they would for an installed module.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if verbose || cfg.Logging.Verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		app = newApplication(cfg, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFileName, "config file path")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(unloadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
