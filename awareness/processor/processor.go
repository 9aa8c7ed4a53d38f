// Package processor keeps the latest awareness buffer aligned with the rendering camera and
// answers per-pixel queries against it.
package processor

import (
	"math"

	"go.uber.org/atomic"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/logging"
	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/screen"
	"go.viam.com/awareness/spatialmath"
)

// State is the lifecycle state of a processor.
type State int32

const (
	// Idle processors have not received a buffer yet and answer every query with a sentinel.
	Idle State = iota
	// Ready processors hold a buffer and the camera pose it was delivered with.
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// frame is everything a query needs, computed once per delivery and never modified.
type frame[T awareness.Sample] struct {
	buffer   *awareness.Buffer[T]
	viewport awareness.Viewport
	// sampler maps viewport-normalized coordinates to buffer-normalized coordinates.
	sampler spatialmath.Matrix4
	// backProjection is the inverse of the camera projection.
	backProjection spatialmath.Matrix4
	// cameraToWorld maps camera space (+Z forward, +Y down) to world space.
	cameraToWorld spatialmath.Matrix4
}

// normalize converts a screen pixel, origin top left, to the center of that pixel in
// viewport-normalized coordinates.
func (f *frame[T]) normalize(x, y int) (float64, float64) {
	return (float64(x) + 0.5) / float64(f.viewport.Width), (float64(y) + 0.5) / float64(f.viewport.Height)
}

// base is the state machine shared by depth and semantic processors.
type base[T awareness.Sample] struct {
	cfg        Config
	logger     logging.Logger
	current    atomic.Pointer[frame[T]]
	deliveries atomic.Int64
}

func (p *base[T]) init(cfg Config, logger logging.Logger) {
	p.cfg, p.logger = cfg, logger
}

// State returns Idle until the first buffer arrives and Ready afterwards.
func (p *base[T]) State() State {
	if p.current.Load() == nil {
		return Idle
	}
	return Ready
}

// Deliveries returns the number of buffers processed.
func (p *base[T]) Deliveries() int64 {
	return p.deliveries.Load()
}

// ProcessFrame aligns buf with pose and publishes the result to subsequent queries. Queries in
// flight keep the previous frame. A nil buffer is ignored.
func (p *base[T]) ProcessFrame(buf *awareness.Buffer[T], pose awareness.CameraPose) {
	if buf == nil {
		p.logger.Debug("ignoring nil buffer")
		return
	}

	viewport := pose.Viewport
	if !viewport.Valid() {
		viewport = awareness.Viewport{
			Width:       buf.Width(),
			Height:      buf.Height(),
			Orientation: screen.FromSize(float64(buf.Width()), float64(buf.Height())),
		}
		p.logger.Debugw("camera pose has no viewport, using buffer resolution",
			"width", viewport.Width, "height", viewport.Height)
	}

	sampler := transform.CalculateDisplayTransformForOrientation(
		buf.Width(), buf.Height(), viewport, p.cfg.InvertVertically)
	if p.cfg.InterpolationEnabled() {
		interpolation, ok := transform.CalculateInterpolationTransform(
			buf.Geometry(), pose.View, viewport.Orientation, p.cfg.InterpolationDistance())
		if !ok {
			p.logger.Debug("interpolation homography degenerated, using display transform only")
		}
		sampler = interpolation.Mul(sampler)
	}

	backProjection, ok := pose.Projection.Inverse()
	if !ok {
		p.logger.Debug("camera projection is not invertible")
	}
	cameraToWorld, ok := transform.ConvertViewToGraphics(pose.View).Inverse()
	if !ok {
		p.logger.Debug("camera view is not invertible")
	}

	previous := p.current.Swap(&frame[T]{
		buffer:         buf,
		viewport:       viewport,
		sampler:        sampler,
		backProjection: backProjection,
		cameraToWorld:  cameraToWorld,
	})
	n := p.deliveries.Inc()
	if previous == nil {
		p.logger.Infow("processor ready",
			"width", buf.Width(), "height", buf.Height(),
			"viewport_width", viewport.Width, "viewport_height", viewport.Height,
			"orientation", viewport.Orientation.String())
	} else {
		p.logger.Debugw("buffer delivered", "delivery", n)
	}
}

// OnBufferAvailable implements awareness.BufferHandler.
func (p *base[T]) OnBufferAvailable(buf *awareness.Buffer[T], pose awareness.CameraPose) {
	p.ProcessFrame(buf, pose)
}

// Bind subscribes the processor to source. Close the binding to stop delivery.
func (p *base[T]) Bind(source awareness.BufferSource[T]) *Binding {
	b := bind(source, p.OnBufferAvailable)
	p.logger.Debugw("bound to buffer source", "binding", b.ID().String())
	return b
}

// Viewport returns the viewport of the current frame, or the zero viewport when idle.
func (p *base[T]) Viewport() awareness.Viewport {
	f := p.current.Load()
	if f == nil {
		return awareness.Viewport{}
	}
	return f.viewport
}

// SamplerTransform returns the transform from viewport-normalized to buffer-normalized
// coordinates of the current frame, and false when idle.
func (p *base[T]) SamplerTransform() (spatialmath.Matrix4, bool) {
	f := p.current.Load()
	if f == nil {
		return spatialmath.NewIdentityMatrix4(), false
	}
	return f.sampler, true
}

// textureSize returns the resolution materialized textures are given by default: the buffer's
// own pixel density at the viewport's aspect ratio, oriented like the viewport.
func textureSize[T awareness.Sample](f *frame[T]) (int, int) {
	size := transform.CalculateDisplayFrame(
		f.buffer.Width(), f.buffer.Height(), float64(f.viewport.Width), float64(f.viewport.Height))
	bufferOrientation := screen.FromSize(float64(f.buffer.Width()), float64(f.buffer.Height()))
	if bufferOrientation.IsLandscape() != f.viewport.Orientation.IsLandscape() {
		return size.Y, size.X
	}
	return size.X, size.Y
}

// prepareTarget readies target for a materialization, logging a rejected format.
func (p *base[T]) prepareTarget(target *awareness.Texture, format awareness.PixelFormat, width, height int) error {
	if err := target.Prepare(format, width, height); err != nil {
		p.logger.Errorw("cannot materialize into texture", "error", err)
		return err
	}
	return nil
}

var infinity = float32(math.Inf(1))
