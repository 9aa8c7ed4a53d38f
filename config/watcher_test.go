package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/awareness/logging"
)

func nextConfig(t *testing.T, w *Watcher, timeout time.Duration) *Config {
	t.Helper()
	select {
	case cfg := <-w.Config():
		return cfg
	case <-time.After(timeout):
		return nil
	}
}

func TestWatcher(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "awareness.json5")
	test.That(t, os.WriteFile(path, []byte(`{producer: {fps: 10}}`), 0o600), test.ShouldBeNil)

	w, err := NewWatcher(context.Background(), path, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, w.Close(), test.ShouldBeNil)
	}()

	test.That(t, os.WriteFile(path, []byte(`{producer: {fps: 30}}`), 0o600), test.ShouldBeNil)
	cfg := nextConfig(t, w, 5*time.Second)
	test.That(t, cfg, test.ShouldNotBeNil)
	test.That(t, cfg.Producer.FPS, test.ShouldEqual, 30.)

	// Other files in the directory are ignored.
	test.That(t, os.WriteFile(filepath.Join(dir, "other.json5"), []byte(`{}`), 0o600), test.ShouldBeNil)
	test.That(t, nextConfig(t, w, 500*time.Millisecond), test.ShouldBeNil)

	// A broken edit is logged and skipped.
	test.That(t, os.WriteFile(path, []byte(`{depth: {filter: "cubic"}}`), 0o600), test.ShouldBeNil)
	test.That(t, nextConfig(t, w, 500*time.Millisecond), test.ShouldBeNil)
	test.That(t, logs.FilterMessageSnippet("cannot reload config").Len(), test.ShouldBeGreaterThan, 0)

	test.That(t, os.WriteFile(path, []byte(`{producer: {fps: 5}}`), 0o600), test.ShouldBeNil)
	cfg = nextConfig(t, w, 5*time.Second)
	test.That(t, cfg, test.ShouldNotBeNil)
	test.That(t, cfg.Producer.FPS, test.ShouldEqual, 5.)
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(context.Background(), filepath.Join(t.TempDir(), "missing", "awareness.json5"), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestWatcherCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "awareness.json5")
	w, err := NewWatcher(context.Background(), path, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w.Close(), test.ShouldBeNil)
	test.That(t, w.Close(), test.ShouldBeNil)
}
