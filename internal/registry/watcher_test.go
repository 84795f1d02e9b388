package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"devload/internal/lifecycle"
	"devload/internal/manifest"
)

func TestWatcherReloadsOnManifestChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := New(nil)
	root := newModuleDir(t, "widgets")

	m, err := reg.Register(root)
	require.NoError(t, err)
	m.Meta.MarkDeveloper(lifecycle.EventLoad)

	reloaded := make(chan *Module, 1)
	w, err := NewWatcher(reg, func(m *Module) {
		select {
		case reloaded <- m:
		default:
		}
	}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Watch(m))

	// Shorten the debounce window to keep the test fast.
	w.debounceDur = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	content := "name: widgets\nversion: 0.2.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, manifest.FileName), []byte(content), 0644))

	select {
	case got := <-reloaded:
		require.Equal(t, "widgets", got.Name)
		require.Equal(t, "0.2.0", got.Manifest.Version)
		require.Equal(t, lifecycle.StateNotRun, got.Meta.Developer(lifecycle.EventLoad))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := New(nil)
	root := newModuleDir(t, "widgets")

	m, err := reg.Register(root)
	require.NoError(t, err)
	m.Meta.MarkDeveloper(lifecycle.EventLoad)

	w, err := NewWatcher(reg, nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.Watch(m))
	w.debounceDur = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)
	w.Stop()

	// The metadata record was not reset.
	meta, err := reg.Metadata("widgets")
	require.NoError(t, err)
	require.Equal(t, lifecycle.StateRan, meta.Developer(lifecycle.EventLoad))
}

func TestWatcherStopIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := New(nil)
	w, err := NewWatcher(reg, nil, nil)
	require.NoError(t, err)

	w.Start(context.Background())
	w.Stop()
	w.Stop()
}
