package processor

import (
	"image/color"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/logging"
	"go.viam.com/awareness/spatialmath"
	"go.viam.com/awareness/utils"
)

// up is returned by SurfaceNormal when no normal can be computed.
var up = r3.Vector{X: 0, Y: 1, Z: 0}

// DepthProcessor answers depth, distance, position and normal queries against the latest depth
// buffer. It is safe for one goroutine to deliver buffers while others query.
type DepthProcessor struct {
	base[float32]
}

// NewDepthProcessor returns an Idle depth processor.
func NewDepthProcessor(cfg Config, logger logging.Logger) *DepthProcessor {
	p := &DepthProcessor{}
	p.init(cfg, logger)
	return p
}

func (p *DepthProcessor) sample(f *frame[float32], u, v float64) float32 {
	if p.cfg.filter() == awareness.FilterBilinear {
		return awareness.SampleBilinear(f.buffer, u, v, f.sampler)
	}
	return f.buffer.Sample(u, v, f.sampler)
}

// Sample returns the depth at viewport-normalized (u, v), or +Inf when idle.
func (p *DepthProcessor) Sample(u, v float64) float32 {
	f := p.current.Load()
	if f == nil {
		return infinity
	}
	return p.sample(f, u, v)
}

// Depth returns the perpendicular distance from the camera plane at screen pixel (x, y), or
// +Inf when idle.
func (p *DepthProcessor) Depth(x, y int) float32 {
	f := p.current.Load()
	if f == nil {
		return infinity
	}
	u, v := f.normalize(x, y)
	return p.sample(f, u, v)
}

// ray returns the camera space direction (+Z forward, +Y down) through viewport-normalized
// (u, v), scaled so that its z component is 1.
func (f *frame[T]) ray(u, v float64) r3.Vector {
	nearPoint := f.backProjection.MultiplyPoint(r3.Vector{X: 2*u - 1, Y: 1 - 2*v, Z: -1})
	if spatialmath.NearZero(nearPoint.Z) {
		return r3.Vector{Z: 1}
	}
	return r3.Vector{X: -nearPoint.X / nearPoint.Z, Y: nearPoint.Y / nearPoint.Z, Z: 1}
}

// cameraPoint returns the camera space point seen at screen pixel (x, y).
func (p *DepthProcessor) cameraPoint(f *frame[float32], x, y int) r3.Vector {
	u, v := f.normalize(x, y)
	return f.ray(u, v).Mul(float64(p.sample(f, u, v)))
}

// Distance returns the Euclidean distance from the camera origin to the surface seen at screen
// pixel (x, y), or +Inf when idle.
func (p *DepthProcessor) Distance(x, y int) float32 {
	f := p.current.Load()
	if f == nil {
		return infinity
	}
	return float32(p.cameraPoint(f, x, y).Norm())
}

// WorldPosition returns the world position of the surface seen at screen pixel (x, y), or the
// zero vector when idle.
func (p *DepthProcessor) WorldPosition(x, y int) r3.Vector {
	f := p.current.Load()
	if f == nil {
		return r3.Vector{}
	}
	return p.worldPosition(f, x, y)
}

func (p *DepthProcessor) worldPosition(f *frame[float32], x, y int) r3.Vector {
	return f.cameraToWorld.MultiplyPoint(p.cameraPoint(f, x, y))
}

// SurfaceNormal estimates the world space normal of the surface seen at screen pixel (x, y) from
// neighboring world positions far enough apart to fall in distinct buffer cells. It returns the
// up vector when idle or when the neighbors are degenerate.
func (p *DepthProcessor) SurfaceNormal(x, y int) r3.Vector {
	f := p.current.Load()
	if f == nil {
		return up
	}
	screenMax := max(f.viewport.Width, f.viewport.Height)
	bufferMax := max(f.buffer.Width(), f.buffer.Height())
	if bufferMax == 0 {
		return up
	}
	delta := int(math.Ceil(float64(screenMax)/float64(bufferMax))) + 1

	a := p.worldPosition(f, x, y)
	b := p.worldPosition(f, x+delta, y)
	c := p.worldPosition(f, x, y+delta)
	normal := a.Sub(b).Cross(c.Sub(a))
	if norm := normal.Norm(); norm > 0 && !math.IsInf(norm, 0) && !math.IsNaN(norm) {
		return normal.Mul(1 / norm)
	}
	return up
}

// MinDepth returns the near limit of the current buffer, or +Inf when idle.
func (p *DepthProcessor) MinDepth() float32 {
	f := p.current.Load()
	if f == nil {
		return infinity
	}
	return f.buffer.Near()
}

// MaxDepth returns the far limit of the current buffer, or +Inf when idle.
func (p *DepthProcessor) MaxDepth() float32 {
	f := p.current.Load()
	if f == nil {
		return infinity
	}
	return f.buffer.Far()
}

// Materialize renders the current buffer, aligned with the viewport, into target. FormatRGBA32
// produces opaque gray normalized between the buffer's near and far limits; FormatRFloat holds
// raw depth. The target is sized to the buffer's resolution at the viewport's aspect ratio. It
// is a no-op when idle, and fails without touching target with awareness.ErrFormatMismatch.
func (p *DepthProcessor) Materialize(target *awareness.Texture, format awareness.PixelFormat) error {
	f := p.current.Load()
	if f == nil {
		return nil
	}
	w, h := textureSize(f)
	return p.materialize(f, target, format, w, h)
}

// MaterializeAt is like Materialize but renders at width x height.
func (p *DepthProcessor) MaterializeAt(target *awareness.Texture, format awareness.PixelFormat, width, height int) error {
	f := p.current.Load()
	if f == nil {
		return nil
	}
	return p.materialize(f, target, format, width, height)
}

func (p *DepthProcessor) materialize(
	f *frame[float32],
	target *awareness.Texture,
	format awareness.PixelFormat,
	width, height int,
) error {
	if err := p.prepareTarget(target, format, width, height); err != nil {
		return err
	}

	near, far := f.buffer.Near(), f.buffer.Far()
	span := far - near
	utils.ParallelForEachRow(height, func(y int) {
		v := (float64(y) + 0.5) / float64(height)
		for x := 0; x < width; x++ {
			depth := p.sample(f, (float64(x)+0.5)/float64(width), v)
			if format == awareness.FormatRFloat {
				target.SetFloat(x, y, depth)
				continue
			}
			var normalized float32
			if span > 0 {
				normalized = utils.Clamp((depth-near)/span, 0, 1)
			}
			gray := uint8(math.Round(float64(normalized) * 255))
			target.SetRGBA(x, y, color.NRGBA{R: gray, G: gray, B: gray, A: 255})
		}
	})
	return nil
}
