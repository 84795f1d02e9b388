package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type stubRegistry struct {
	roots map[string]string
}

func (s *stubRegistry) IsDevModule(name string) bool {
	_, ok := s.roots[name]
	return ok
}

func (s *stubRegistry) ModuleRoot(name string) (string, error) {
	root, ok := s.roots[name]
	if !ok {
		return "", errors.New("not a dev module")
	}
	return root, nil
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func devResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	root := t.TempDir()
	reg := &stubRegistry{roots: map[string]string{"widgets": root}}
	standard := func(module string, rel []string, mustExist bool) ([]string, error) {
		t.Fatalf("standard resolution must not run for dev module %s", module)
		return nil, nil
	}
	return New(reg, standard, nil), root
}

func norm(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

func TestNestedRootOnly(t *testing.T) {
	r, root := devResolver(t)
	writeFile(t, filepath.Join(root, "assets", "data", "cfg.json"))

	got, err := r.Resolve("widgets", []string{filepath.Join("data", "cfg.json")}, true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{norm(filepath.Join(root, "assets", "data", "cfg.json"))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatRootOnly(t *testing.T) {
	r, root := devResolver(t)
	writeFile(t, filepath.Join(root, "README.md"))

	got, err := r.Resolve("widgets", []string{"README.md"}, true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{norm(filepath.Join(root, "README.md"))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedWinsOverFlat(t *testing.T) {
	r, root := devResolver(t)
	writeFile(t, filepath.Join(root, "assets", "tmpl.txt"))
	writeFile(t, filepath.Join(root, "tmpl.txt"))

	got, err := r.Resolve("widgets", []string{"tmpl.txt"}, true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{norm(filepath.Join(root, "assets", "tmpl.txt"))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nested root must win (-want +got):\n%s", diff)
	}
}

func TestMissingPositionsDropped(t *testing.T) {
	r, root := devResolver(t)
	writeFile(t, filepath.Join(root, "assets", "a.txt"))

	got, err := r.Resolve("widgets", []string{"a.txt", "missing.txt"}, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []string{norm(filepath.Join(root, "assets", "a.txt"))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("missing positions must be dropped (-want +got):\n%s", diff)
	}
}

func TestAllMissingOptional(t *testing.T) {
	r, _ := devResolver(t)

	got, err := r.Resolve("widgets", []string{"nope.txt"}, false)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestAllMissingMandatory(t *testing.T) {
	r, _ := devResolver(t)

	_, err := r.Resolve("widgets", []string{"nope.txt"}, true)
	if !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("err = %v, want ErrResourceNotFound", err)
	}
}

func TestNonDevModulePassThrough(t *testing.T) {
	reg := &stubRegistry{roots: map[string]string{}}
	sentinel := errors.New("standard says no")
	called := false
	standard := func(module string, rel []string, mustExist bool) ([]string, error) {
		called = true
		if module != "installed" || !mustExist {
			t.Errorf("pass-through mangled arguments: %s %v", module, mustExist)
		}
		return nil, sentinel
	}

	r := New(reg, standard, nil)
	_, err := r.Resolve("installed", []string{"f"}, true)
	if !called {
		t.Fatal("standard resolution was not delegated to")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("standard error must pass through unchanged, got %v", err)
	}
}

func TestInstalledLibrary(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, filepath.Join(lib, "widgets", "data.bin"))

	std := InstalledLibrary(lib)

	got, err := std("widgets", []string{"data.bin"}, true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := []string{norm(filepath.Join(lib, "widgets", "data.bin"))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := std("widgets", []string{"absent"}, true); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("err = %v, want ErrResourceNotFound", err)
	}
}
