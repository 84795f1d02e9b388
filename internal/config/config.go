// Package config holds devload's configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked for in the working directory when no config
// path is given.
const DefaultFileName = "devload.yaml"

// Config holds all devload configuration.
type Config struct {
	// Library is the directory holding installed modules, used for
	// pass-through resource resolution and standard library loads.
	Library string `yaml:"library"`

	// Watch enables manifest watching while modules are loaded.
	Watch bool `yaml:"watch"`

	// Logging controls log output.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Library: filepath.Join(os.TempDir(), "devload", "library"),
		Watch:   true,
	}
}

// Load reads configuration from a YAML file, falling back to defaults
// when the file does not exist. Environment variables override file
// values: DEVLOAD_LIBRARY and DEVLOAD_VERBOSE.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DEVLOAD_LIBRARY"); v != "" {
		cfg.Library = v
	}
	if v := os.Getenv("DEVLOAD_VERBOSE"); v == "1" || v == "true" {
		cfg.Logging.Verbose = true
	}
}
