// Package rimage renders awareness buffers into viewable images and reads and writes image files.
package rimage

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/utils"
)

// DefaultMaxDisparity is the inverse depth, in 1/meters, rendered as white by DisparityImage.
const DefaultMaxDisparity = 4.0

// validDepth reports whether d is a usable depth reading.
func validDepth(d float32) bool {
	return d > 0 && !math.IsInf(float64(d), 0) && !math.IsNaN(float64(d))
}

// DepthMinMax returns the smallest and largest usable depth in the buffer. Both are zero when the
// buffer holds no usable depth.
func DepthMinMax(dm *awareness.DepthBuffer) (float32, float32) {
	lo, hi := float32(math.MaxFloat32), float32(0)
	for _, d := range dm.Samples() {
		if !validDepth(d) {
			continue
		}
		lo, hi = min(lo, d), max(hi, d)
	}
	if hi == 0 {
		return 0, 0
	}
	return lo, hi
}

// DepthToPrettyPicture renders depth with a hue ramp from orange (near) to blue (far), limited to
// [hardMin, hardMax]. Pixels without depth stay black.
func DepthToPrettyPicture(dm *awareness.DepthBuffer, hardMin, hardMax float32) image.Image {
	lo, hi := DepthMinMax(dm)
	lo, hi = max(lo, hardMin), min(hi, hardMax)
	span := float64(hi - lo)

	img := image.NewNRGBA(image.Rect(0, 0, dm.Width(), dm.Height()))
	utils.ParallelForEachRow(dm.Height(), func(y int) {
		for x := 0; x < dm.Width(); x++ {
			d := dm.At(x, y)
			if !validDepth(d) {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
				continue
			}
			var ratio float64
			if span > 0 {
				ratio = float64(utils.Clamp(d, lo, hi)-lo) / span
			}
			img.SetNRGBA(x, y, NewColorFromHSV(30+200*ratio, 1, 1).NRGBA(255))
		}
	})
	return img
}

// DisparityImage renders inverse depth as gray, with maxDisparity and beyond as white. Close
// surfaces are bright.
func DisparityImage(dm *awareness.DepthBuffer, maxDisparity float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, dm.Width(), dm.Height()))
	if maxDisparity <= 0 {
		maxDisparity = DefaultMaxDisparity
	}
	utils.ParallelForEachRow(dm.Height(), func(y int) {
		for x := 0; x < dm.Width(); x++ {
			d := dm.At(x, y)
			if !validDepth(d) {
				continue
			}
			v := utils.Clamp(1/float64(d)/maxDisparity, 0, 1)
			img.Pix[y*img.Stride+x] = uint8(math.Round(v * 255))
		}
	})
	return img
}

// SemanticsToPicture renders every pixel in the color of its lowest set channel, using colors[i]
// for channel i. Pixels without channels are transparent.
func SemanticsToPicture(sb *awareness.SemanticBuffer, colors []Color) image.Image {
	if len(colors) < sb.Channels().Len() {
		colors = Palette(sb.Channels().Len())
	}
	img := image.NewNRGBA(image.Rect(0, 0, sb.Width(), sb.Height()))
	utils.ParallelForEachRow(sb.Height(), func(y int) {
		for x := 0; x < sb.Width(); x++ {
			indices := sb.Channels().Indices(sb.At(x, y))
			if len(indices) == 0 {
				continue
			}
			img.SetNRGBA(x, y, colors[indices[0]].NRGBA(255))
		}
	})
	return img
}

// ResizePreview scales img by factor with nearest neighbor sampling so buffer cells stay sharp.
// Factors that are not positive return img unchanged.
func ResizePreview(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	return imaging.Resize(img, w, h, imaging.NearestNeighbor)
}

// FlipVertical returns img upside down, converting between bottom-up and top-down row order.
func FlipVertical(img image.Image) image.Image {
	return imaging.FlipV(img)
}
