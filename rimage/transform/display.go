package transform

import (
	"image"
	"math"

	"go.viam.com/awareness/screen"
	"go.viam.com/awareness/spatialmath"
)

// Viewport is the pixel resolution and UI orientation of the surface a buffer is displayed on.
type Viewport struct {
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Orientation screen.Orientation `json:"orientation"`
}

// Valid reports whether the viewport has a positive area.
func (vp Viewport) Valid() bool {
	return vp.Width > 0 && vp.Height > 0
}

// CalculateDisplayTransform returns the affine transform fitting a buffer of the given size to
// a width x height target. Both orientations are inferred from aspect ratios. invertVertically
// prepends a y' = 1-y flip for targets whose origin is at the bottom.
func CalculateDisplayTransform(bufferWidth, bufferHeight, width, height int, invertVertically bool) spatialmath.Matrix4 {
	bw, bh := float64(bufferWidth), float64(bufferHeight)
	tw, th := float64(width), float64(height)
	fit := AffineFit(bw, bh, screen.FromSize(bw, bh), tw, th, screen.FromSize(tw, th))
	if invertVertically {
		return AffineInvertVertical().Mul(fit)
	}
	return fit
}

// CalculateDisplayTransformForOrientation is like CalculateDisplayTransform but uses the
// viewport's explicit UI orientation rather than inferring it.
func CalculateDisplayTransformForOrientation(
	bufferWidth, bufferHeight int,
	viewport Viewport,
	invertVertically bool,
) spatialmath.Matrix4 {
	bw, bh := float64(bufferWidth), float64(bufferHeight)
	fit := AffineFit(bw, bh, screen.FromSize(bw, bh), float64(viewport.Width), float64(viewport.Height), viewport.Orientation)
	if invertVertically {
		return AffineInvertVertical().Mul(fit)
	}
	return fit
}

// CalculateDisplayFrame returns a display resolution for the buffer that keeps its pixels square
// while matching the aspect ratio of the viewport. The result is oriented like the buffer and
// may be a crop or a pad of the buffer's own resolution.
func CalculateDisplayFrame(bufferWidth, bufferHeight int, viewportWidth, viewportHeight float64) image.Point {
	bw, bh := float64(bufferWidth), float64(bufferHeight)
	bufferOrientation := screen.FromSize(bw, bh)
	targetWidth, targetHeight := screen.RotatedContainer(
		viewportWidth, viewportHeight, screen.FromSize(viewportWidth, viewportHeight), bufferOrientation)

	sx, sy := 1.0, 1.0
	if bufferOrientation == screen.Portrait {
		sx = targetWidth / (targetHeight / bh * bw)
	} else {
		sy = targetHeight / (targetWidth / bw * bh)
	}
	return image.Point{X: int(math.Floor(bw * sx)), Y: int(math.Floor(bh * sy))}
}
