package processor

import (
	"image/color"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/logging"
	"go.viam.com/awareness/utils"
)

// SemanticProcessor answers channel queries against the latest semantic buffer. Masks are
// always sampled nearest.
type SemanticProcessor struct {
	base[uint32]
}

// NewSemanticProcessor returns an Idle semantic processor.
func NewSemanticProcessor(cfg Config, logger logging.Logger) *SemanticProcessor {
	p := &SemanticProcessor{}
	p.init(cfg, logger)
	return p
}

// Sample returns the channel mask at viewport-normalized (u, v), or 0 when idle.
func (p *SemanticProcessor) Sample(u, v float64) uint32 {
	f := p.current.Load()
	if f == nil {
		return 0
	}
	return f.buffer.Sample(u, v, f.sampler)
}

// Semantics returns the channel mask at screen pixel (x, y), or 0 when idle.
func (p *SemanticProcessor) Semantics(x, y int) uint32 {
	f := p.current.Load()
	if f == nil {
		return 0
	}
	u, v := f.normalize(x, y)
	return f.buffer.Sample(u, v, f.sampler)
}

// Channels returns the channel names of the current buffer, empty when idle.
func (p *SemanticProcessor) Channels() []string {
	f := p.current.Load()
	if f == nil {
		return []string{}
	}
	return f.buffer.Channels().Names()
}

// ChannelCount returns the number of channels of the current buffer, 0 when idle.
func (p *SemanticProcessor) ChannelCount() int {
	f := p.current.Load()
	if f == nil {
		return 0
	}
	return f.buffer.Channels().Len()
}

// ChannelIndicesAt returns the indices of the channels present at screen pixel (x, y).
func (p *SemanticProcessor) ChannelIndicesAt(x, y int) []int {
	f := p.current.Load()
	if f == nil {
		return []int{}
	}
	u, v := f.normalize(x, y)
	return f.buffer.Channels().Indices(f.buffer.Sample(u, v, f.sampler))
}

// ChannelNamesAt returns the names of the channels present at screen pixel (x, y).
func (p *SemanticProcessor) ChannelNamesAt(x, y int) []string {
	f := p.current.Load()
	if f == nil {
		return []string{}
	}
	u, v := f.normalize(x, y)
	return f.buffer.Channels().NamesIn(f.buffer.Sample(u, v, f.sampler))
}

// ChannelExistsAt reports whether the channel at index is present at screen pixel (x, y).
func (p *SemanticProcessor) ChannelExistsAt(x, y, index int) bool {
	f := p.current.Load()
	if f == nil {
		return false
	}
	u, v := f.normalize(x, y)
	return f.buffer.Sample(u, v, f.sampler)&f.buffer.Channels().Mask(index) != 0
}

// ChannelNameExistsAt reports whether the named channel is present at screen pixel (x, y).
func (p *SemanticProcessor) ChannelNameExistsAt(x, y int, name string) bool {
	f := p.current.Load()
	if f == nil {
		return false
	}
	u, v := f.normalize(x, y)
	return f.buffer.Sample(u, v, f.sampler)&f.buffer.Channels().MaskForName(name) != 0
}

// Materialize renders a mask of the given channels, aligned with the viewport, into target:
// white where any of them is present and transparent elsewhere. The target is sized to the
// buffer's resolution at the viewport's aspect ratio. It is a no-op when idle, and fails without
// touching target with awareness.ErrFormatMismatch when target is not RGBA32.
func (p *SemanticProcessor) Materialize(target *awareness.Texture, channels ...int) error {
	f := p.current.Load()
	if f == nil {
		return nil
	}
	w, h := textureSize(f)
	return p.materialize(f, target, f.buffer.Channels().MaskFor(channels...), w, h)
}

// MaterializeNames is like Materialize with channels given by name.
func (p *SemanticProcessor) MaterializeNames(target *awareness.Texture, names ...string) error {
	f := p.current.Load()
	if f == nil {
		return nil
	}
	w, h := textureSize(f)
	return p.materialize(f, target, f.buffer.Channels().MaskForNames(names...), w, h)
}

// MaterializeAt is like Materialize but renders at width x height.
func (p *SemanticProcessor) MaterializeAt(target *awareness.Texture, width, height int, channels ...int) error {
	f := p.current.Load()
	if f == nil {
		return nil
	}
	return p.materialize(f, target, f.buffer.Channels().MaskFor(channels...), width, height)
}

func (p *SemanticProcessor) materialize(
	f *frame[uint32],
	target *awareness.Texture,
	mask uint32,
	width, height int,
) error {
	if err := p.prepareTarget(target, awareness.FormatRGBA32, width, height); err != nil {
		return err
	}

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	utils.ParallelForEachRow(height, func(y int) {
		v := (float64(y) + 0.5) / float64(height)
		for x := 0; x < width; x++ {
			if f.buffer.Sample((float64(x)+0.5)/float64(width), v, f.sampler)&mask != 0 {
				target.SetRGBA(x, y, white)
			} else {
				target.SetRGBA(x, y, color.NRGBA{})
			}
		}
	})
	return nil
}
