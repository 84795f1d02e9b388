// Package manifest locates and parses a development module's module.yaml.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file expected at a module's root.
const FileName = "module.yaml"

// Manifest errors.
var (
	// ErrNameMissing is returned when a manifest has no module name.
	ErrNameMissing = errors.New("manifest missing module name")

	// ErrNotFound is returned when a module root has no manifest file.
	ErrNotFound = errors.New("manifest not found")
)

// Manifest describes a module under development.
type Manifest struct {
	// Name is the module's unique name.
	Name string `yaml:"name"`

	// Version is informational.
	Version string `yaml:"version,omitempty"`

	// Description is informational.
	Description string `yaml:"description,omitempty"`

	// HooksFile optionally names a Go source file (relative to the module
	// root) defining lifecycle hook functions in package hooks.
	HooksFile string `yaml:"hooks_file,omitempty"`

	// Library optionally names a native shared library the module bundles.
	Library string `yaml:"library,omitempty"`
}

// Path returns the manifest path for a module root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads and validates the manifest at the given module root.
func Load(root string) (*Manifest, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", Path(root), err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for required fields.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrNameMissing
	}
	return nil
}
