package shim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devload/internal/manifest"
	"devload/internal/nativelib"
	"devload/internal/registry"
	"devload/internal/resolver"
	"devload/internal/scope"
)

// recordingBinder counts binds without touching the real linker.
type recordingBinder struct {
	bound []string
}

func (b *recordingBinder) Bind(path string) (any, error) {
	b.bound = append(b.bound, path)
	return struct{}{}, nil
}

func (b *recordingBinder) Unbind(path string, lib any) error { return nil }

func newModuleDir(t *testing.T, name, extra string) string {
	t.Helper()
	root := t.TempDir()
	content := "name: " + name + "\n" + extra
	require.NoError(t, os.WriteFile(filepath.Join(root, manifest.FileName), []byte(content), 0644))
	return root
}

func newInjector(t *testing.T) (*Injector, *registry.Registry) {
	t.Helper()
	reg := registry.New(nil)
	std := resolver.InstalledLibrary(t.TempDir())
	res := resolver.New(reg, std, nil)
	loader := nativelib.NewLoader(reg, &recordingBinder{}, nil)
	return NewInjector(reg, res, loader, nil), reg
}

func TestInjectModuleBindings(t *testing.T) {
	in, reg := newInjector(t)
	root := newModuleDir(t, "widgets", "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "a.txt"), []byte("x"), 0644))

	m, err := reg.Register(root)
	require.NoError(t, err)

	in.InjectModule(m)

	for _, name := range []string{bindResolveResource, bindLoadNativeLib, bindUnloadNativeLib} {
		if _, ok := m.Scope.LookupLocal(name); !ok {
			t.Errorf("module scope missing binding %q", name)
		}
	}

	v, ok := m.Scope.Lookup(bindResolveResource)
	require.True(t, ok)
	resolve, ok := v.(func([]string, bool) ([]string, error))
	require.True(t, ok, "resolveResource has unexpected type %T", v)

	paths, err := resolve([]string{"a.txt"}, true)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "assets/a.txt")
}

func TestAttachInteractiveIdempotent(t *testing.T) {
	in, _ := newInjector(t)
	global := scope.New("test-global", nil)

	in.AttachInteractive(global)
	in.AttachInteractive(global)

	count := 0
	for cur := global; cur != nil; cur = cur.Parent() {
		if cur.Name() == ScopeName {
			count++
		}
	}
	assert.Equal(t, 1, count, "shim scope must be attached exactly once")

	shims := global.Find(ScopeName)
	require.NotNil(t, shims)
	if _, ok := shims.LookupLocal(bindResolveResource); !ok {
		t.Error("interactive scope missing resolveResource")
	}
	if _, ok := shims.LookupLocal(bindHelpFor); !ok {
		t.Error("interactive scope missing helpFor")
	}
}

func TestHelpForDevModule(t *testing.T) {
	in, reg := newInjector(t)
	root := newModuleDir(t, "widgets", "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "usage.md"), []byte("# usage"), 0644))

	_, err := reg.Register(root)
	require.NoError(t, err)

	path, err := in.helpFor("widgets", "usage")
	require.NoError(t, err)
	assert.Contains(t, path, "docs/usage.md")
}

func TestHelpForFallsBack(t *testing.T) {
	in, _ := newInjector(t)
	in.StandardHelp = func(module, topic string) (string, error) {
		return "/usr/share/help/" + module + "/" + topic, nil
	}

	path, err := in.helpFor("installed", "usage")
	require.NoError(t, err)
	assert.Equal(t, "/usr/share/help/installed/usage", path)
}
