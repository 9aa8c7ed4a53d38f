package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"go.viam.com/utils"

	"go.viam.com/awareness/logging"
)

// reloadDelay coalesces the bursts of events a single save produces.
const reloadDelay = 100 * time.Millisecond

// A Watcher delivers the config at a path again every time the file changes on disk. Changes
// that do not parse or validate are logged and skipped.
type Watcher struct {
	path    string
	logger  logging.Logger
	watcher *fsnotify.Watcher
	configs chan *Config
	reload  func(f func())

	closeOnce               sync.Once
	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewWatcher starts watching the config file at path. The directory is watched rather than the
// file so that editors replacing the file by renaming are seen too.
func NewWatcher(ctx context.Context, path string, logger logging.Logger) (*Watcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		utils.UncheckedError(fsWatcher.Close())
		return nil, err
	}

	cancelCtx, cancelFunc := context.WithCancel(ctx)
	w := &Watcher{
		path:       path,
		logger:     logger,
		watcher:    fsWatcher,
		configs:    make(chan *Config),
		reload:     debounce.New(reloadDelay),
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	w.activeBackgroundWorkers.Add(1)
	utils.PanicCapturingGo(w.watch)
	return w, nil
}

// Config returns the channel new configs are delivered on. It is never closed.
func (w *Watcher) Config() <-chan *Config {
	return w.configs
}

func (w *Watcher) watch() {
	defer w.activeBackgroundWorkers.Done()
	for {
		select {
		case <-w.cancelCtx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debugw("config file changed", "path", w.path, "op", event.Op.String())
			w.reload(w.read)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) read() {
	if w.cancelCtx.Err() != nil {
		return
	}
	cfg, err := Read(w.path)
	if err != nil {
		w.logger.Errorw("cannot reload config", "path", w.path, "error", err)
		return
	}
	select {
	case <-w.cancelCtx.Done():
	case w.configs <- cfg:
	}
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancelFunc()
		err = w.watcher.Close()
		w.activeBackgroundWorkers.Wait()
	})
	return err
}
