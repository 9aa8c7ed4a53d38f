package cli

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/awareness/processor"
	"go.viam.com/awareness/config"
	"go.viam.com/awareness/logging"
	"go.viam.com/awareness/producer/fake"
	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/screen"
)

// pipeline wires a fake producer, driven by a mock clock, to a depth and a semantic processor,
// and keeps the last buffers it published.
type pipeline struct {
	cfg      *config.Config
	logger   logging.Logger
	clock    *clock.Mock
	producer *fake.Producer
	depth    *processor.DepthProcessor
	semantic *processor.SemanticProcessor

	bindings    []*processor.Binding
	unsubscribe []func()

	mu            sync.Mutex
	stamp         time.Duration
	pose          awareness.CameraPose
	lastDepth     *awareness.DepthBuffer
	lastSemantics *awareness.SemanticBuffer
}

// loadConfig reads the --config file, if any, and applies the viewport overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String(generalFlagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, err
		}
	}
	if err := applyOverrides(c, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides applies --viewport and --orientation to cfg and validates the result.
func applyOverrides(c *cli.Context, cfg *config.Config) error {
	if raw := c.String(pipelineFlagViewport); raw != "" {
		width, height, err := parseResolution(raw)
		if err != nil {
			return err
		}
		cfg.Producer.Viewport = &transform.Viewport{
			Width:       width,
			Height:      height,
			Orientation: screen.FromSize(float64(width), float64(height)),
		}
	}
	if raw := c.String(pipelineFlagOrientation); raw != "" {
		orientation, err := screen.Parse(raw)
		if err != nil {
			return err
		}
		if cfg.Producer.Viewport == nil {
			return errors.Errorf("--%s requires --%s or a configured viewport", pipelineFlagOrientation, pipelineFlagViewport)
		}
		cfg.Producer.Viewport.Orientation = orientation
	}
	return cfg.Ensure()
}

// parseResolution parses "WxH".
func parseResolution(raw string) (int, int, error) {
	parts := strings.Split(strings.ToLower(raw), "x")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("invalid resolution %q, expected WxH", raw)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid width in %q", raw)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid height in %q", raw)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, errors.Errorf("resolution must be positive, got %q", raw)
	}
	return width, height, nil
}

// newLoggers sets up logging for a command: the global level follows --debug and the config,
// and named loggers write to the app's error writer and to the --log-file, if any. The returned
// func closes the log file.
func newLoggers(c *cli.Context, cfg *config.Config) (logging.Logger, *logging.Registry, func() error) {
	var file *logging.FileAppender
	if path := c.String(generalFlagLogFile); path != "" {
		file = logging.NewFileAppender(path)
	}
	newLogger := func(name string) logging.Logger {
		logger := logging.NewBlankLogger(name)
		logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
		if file != nil {
			logger.AddAppender(file)
		}
		return logger
	}
	registry := logging.NewRegistry(logging.INFO, newLogger)
	logger := registry.Logger("awareness")
	config.InitLoggingSettings(logger, c.Bool(generalFlagDebug))
	config.ApplyLogging(cfg, registry, logger)
	closeFile := func() error {
		if file == nil {
			return nil
		}
		return file.Close()
	}
	return logger, registry, closeFile
}

func newPipeline(cfg *config.Config, registry *logging.Registry) (*pipeline, error) {
	mock := clock.NewMock()
	producer, err := fake.NewProducer(cfg.Producer, mock, registry.Logger("awareness.producer"))
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		cfg:      cfg,
		logger:   registry.Logger("awareness.pipeline"),
		clock:    mock,
		producer: producer,
		depth:    processor.NewDepthProcessor(cfg.Depth, registry.Logger("awareness.depth")),
		semantic: processor.NewSemanticProcessor(cfg.Semantic, registry.Logger("awareness.semantic")),
	}
	p.bindings = append(p.bindings,
		p.depth.Bind(producer.Depth()),
		p.semantic.Bind(producer.Semantics()),
	)
	p.unsubscribe = append(p.unsubscribe,
		producer.Depth().Subscribe(func(buf *awareness.DepthBuffer, pose awareness.CameraPose) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.lastDepth, p.pose = buf, pose
		}),
		producer.Semantics().Subscribe(func(buf *awareness.SemanticBuffer, _ awareness.CameraPose) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.lastSemantics = buf
		}),
	)
	return p, nil
}

// run publishes frames, one producer interval apart, then shows the last of them latency
// later: the processors are handed the buffers again with the pose the camera has by then.
func (p *pipeline) run(frames int, latency time.Duration) error {
	if frames < 1 {
		return errors.Errorf("at least one frame is required, got %d", frames)
	}
	for i := 0; i < frames; i++ {
		p.mu.Lock()
		p.stamp = p.producer.Elapsed()
		p.mu.Unlock()
		p.producer.Step()
		p.clock.Add(p.producer.Interval())
	}
	if latency <= 0 {
		return nil
	}

	p.mu.Lock()
	pose, _ := p.producer.PoseAt(p.stamp + latency)
	p.pose = pose
	depth, semantics := p.lastDepth, p.lastSemantics
	p.mu.Unlock()

	p.logger.Debugw("realigning last frame", "latency", latency.String())
	p.depth.ProcessFrame(depth, pose)
	p.semantic.ProcessFrame(semantics, pose)
	return nil
}

// last returns the last published buffers and the pose they are displayed at.
func (p *pipeline) last() (*awareness.DepthBuffer, *awareness.SemanticBuffer, awareness.CameraPose) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastDepth, p.lastSemantics, p.pose
}

// Close detaches the processors and stops the producer.
func (p *pipeline) Close() error {
	for _, unsubscribe := range p.unsubscribe {
		unsubscribe()
	}
	var err error
	for _, binding := range p.bindings {
		err = multierr.Combine(err, binding.Close())
	}
	return multierr.Combine(err, p.producer.Close())
}
