package awareness

import (
	"math"

	"go.viam.com/awareness/spatialmath"
	"go.viam.com/awareness/utils"
)

// Filter selects how samples are read between buffer cells.
type Filter int

const (
	// FilterNearest reads the cell containing the coordinate.
	FilterNearest Filter = iota
	// FilterBilinear blends the four closest cells. Only meaningful for depth.
	FilterBilinear
)

func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterBilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// cell returns the clamped column or row index for a normalized coordinate.
func cell(normalized float64, size int) int {
	return utils.Clamp(int(math.Floor(normalized*float64(size))), 0, size-1)
}

// SampleNormalized reads the cell at buffer-normalized (u, v), with (0, 0) the top left corner
// of the first sample. Coordinates outside [0, 1] clamp to the edge. An empty buffer yields the
// zero sample.
func (b *Buffer[T]) SampleNormalized(u, v float64) T {
	var zero T
	if len(b.data) == 0 || math.IsNaN(u) || math.IsNaN(v) {
		return zero
	}
	return b.data[cell(v, b.height)*b.width+cell(u, b.width)]
}

// Sample maps the destination-normalized (u, v) through sampler and reads the nearest cell.
func (b *Buffer[T]) Sample(u, v float64, sampler spatialmath.Matrix4) T {
	su, sv := sampler.Transform2D(u, v)
	return b.SampleNormalized(su, sv)
}

// SampleBilinear maps (u, v) through sampler and blends the four closest depth cells.
func SampleBilinear(b *DepthBuffer, u, v float64, sampler spatialmath.Matrix4) float32 {
	su, sv := sampler.Transform2D(u, v)
	if len(b.data) == 0 || math.IsNaN(su) || math.IsNaN(sv) {
		return 0
	}

	fx := su*float64(b.width) - 0.5
	fy := sv*float64(b.height) - 0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := float32(fx-x0), float32(fy-y0)

	xa := utils.Clamp(int(x0), 0, b.width-1)
	xb := utils.Clamp(int(x0)+1, 0, b.width-1)
	ya := utils.Clamp(int(y0), 0, b.height-1)
	yb := utils.Clamp(int(y0)+1, 0, b.height-1)

	top := b.At(xa, ya)*(1-tx) + b.At(xb, ya)*tx
	bottom := b.At(xa, yb)*(1-tx) + b.At(xb, yb)*tx
	return top*(1-ty) + bottom*ty
}
