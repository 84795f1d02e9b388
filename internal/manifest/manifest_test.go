package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
name: widgets
version: 0.3.1
hooks_file: hooks.go
library: widgets
`)

	m, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "widgets" {
		t.Errorf("Name = %q, want widgets", m.Name)
	}
	if m.Version != "0.3.1" {
		t.Errorf("Version = %q", m.Version)
	}
	if m.HooksFile != "hooks.go" {
		t.Errorf("HooksFile = %q", m.HooksFile)
	}
	if m.Library != "widgets" {
		t.Errorf("Library = %q", m.Library)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadMissingName(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "version: 1.0.0\n")

	_, err := Load(root)
	if !errors.Is(err, ErrNameMissing) {
		t.Errorf("err = %v, want ErrNameMissing", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "name: [unclosed\n")

	if _, err := Load(root); err == nil {
		t.Error("expected parse error")
	}
}

func TestPath(t *testing.T) {
	if got := Path("/tmp/widgets"); got != filepath.Join("/tmp/widgets", FileName) {
		t.Errorf("Path = %q", got)
	}
}
