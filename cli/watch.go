package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/awareness/config"
)

// WatchAction renders previews like PreviewAction, then renders them again every time the
// --config file changes, until interrupted.
func WatchAction(c *cli.Context) (err error) {
	path := c.String(generalFlagConfig)
	if path == "" {
		return errors.Errorf("watch requires --%s", generalFlagConfig)
	}
	req, err := parsePreviewRequest(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, registry, closeLogs := newLoggers(c, cfg)
	defer func() {
		err = multierr.Combine(err, closeLogs())
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	watcher, err := config.NewWatcher(ctx, path, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, watcher.Close())
	}()

	if err := renderPreviews(c, cfg, registry, req); err != nil {
		return err
	}
	logger.Infow("watching config", "path", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg := <-watcher.Config():
			if err := applyOverrides(c, cfg); err != nil {
				logger.Errorw("ignoring config", "path", path, "error", err)
				continue
			}
			config.ApplyLogging(cfg, registry, logger)
			if err := renderPreviews(c, cfg, registry, req); err != nil {
				logger.Errorw("cannot render previews", "error", err)
			}
		}
	}
}
