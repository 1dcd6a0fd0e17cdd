package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/richinsley/goshaderpreset/shader"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetFiles(t *testing.T) {
	passes := []shader.Pass{
		{SourcePath: "/p/shaders/a.glsl", Luts: []shader.Lut{{ID: "lut", Path: "/p/lut.png"}}},
		{SourcePath: "/p/shaders/../shaders/a.glsl", Luts: []shader.Lut{{ID: "lut", Path: "/p/lut.png"}}},
		{SourcePath: "/p/shaders/b.glsl"},
	}
	assert.Equal(t, []string{
		"/p/crt.glslp",
		"/p/shaders/a.glsl",
		"/p/lut.png",
		"/p/shaders/b.glsl",
	}, PresetFiles("/p/crt.glslp", passes))
}

func startWatcher(t *testing.T, files ...string) *Watcher {
	t.Helper()
	w, err := New(zerolog.Nop(), 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.SetFiles(files))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return w
}

func TestWatcherReportsWatchedFile(t *testing.T) {
	dir := t.TempDir()
	preset := filepath.Join(dir, "crt.glslp")
	require.NoError(t, os.WriteFile(preset, []byte("shaders = 0\n"), 0o644))
	w := startWatcher(t, preset)
	assert.Equal(t, []string{preset}, w.Files())

	require.NoError(t, os.WriteFile(preset, []byte("shaders = 1\n"), 0o644))
	select {
	case <-w.Reloads():
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	preset := filepath.Join(dir, "crt.glslp")
	require.NoError(t, os.WriteFile(preset, nil, 0o644))
	w := startWatcher(t, preset)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-w.Reloads():
		t.Fatal("reload for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSetFilesReplacesWatchSet(t *testing.T) {
	w, err := New(zerolog.Nop(), 0)
	require.NoError(t, err)
	defer w.Close()

	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, w.SetFiles([]string{filepath.Join(a, "x.glslp")}))
	require.NoError(t, w.SetFiles([]string{filepath.Join(b, "y.glslp")}))
	assert.Equal(t, []string{filepath.Join(b, "y.glslp")}, w.Files())
	assert.Len(t, w.dirs, 1)

	assert.Error(t, w.SetFiles([]string{filepath.Join(a, "missing", "z.glslp")}))
}
