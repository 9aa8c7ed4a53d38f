package awareness

import (
	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/screen"
)

// Rotate reorients a sensor native (screen.SensorNative) buffer to the target UI orientation and
// returns the result as a new buffer. The remap is a pure permutation: Portrait turns the samples
// clockwise, PortraitUpsideDown counter clockwise, LandscapeLeft by a half turn, and
// LandscapeRight copies them unchanged. Quarter turns swap width and height.
func Rotate[T Sample](b *Buffer[T], target screen.Orientation) *Buffer[T] {
	w, h := b.width, b.height
	newW, newH := w, h

	var dstIndex func(x, y int) int
	switch target {
	case screen.Portrait:
		newW, newH = h, w
		dstIndex = func(x, y int) int { return x*newW + (newW - 1 - y) }
	case screen.PortraitUpsideDown:
		newW, newH = h, w
		dstIndex = func(x, y int) int { return (newH-1-x)*newW + y }
	case screen.LandscapeLeft:
		dstIndex = func(x, y int) int { return (h-1-y)*w + (w - 1 - x) }
	case screen.LandscapeRight:
	}

	meta := b.meta
	meta.RotatedToScreen = true
	meta.Intrinsics = RotateIntrinsics(b.meta.Intrinsics, target)
	if dstIndex == nil {
		return newBufferNoCopy(w, h, append([]T(nil), b.data...), meta)
	}

	rotated := make([]T, len(b.data))
	for y := 0; y < h; y++ {
		row := b.data[y*w : (y+1)*w]
		for x, v := range row {
			rotated[dstIndex(x, y)] = v
		}
	}
	return newBufferNoCopy(newW, newH, rotated, meta)
}

// RotateIntrinsics returns the intrinsics of a sensor native image after Rotate reorients it to
// target. A nil input yields nil.
func RotateIntrinsics(in *transform.PinholeCameraIntrinsics, target screen.Orientation) *transform.PinholeCameraIntrinsics {
	if in == nil {
		return nil
	}
	out := *in
	w, h := float64(in.Width), float64(in.Height)
	switch target {
	case screen.Portrait:
		out.Width, out.Height = in.Height, in.Width
		out.Fx, out.Fy = in.Fy, in.Fx
		out.Ppx, out.Ppy = h-in.Ppy, in.Ppx
	case screen.PortraitUpsideDown:
		out.Width, out.Height = in.Height, in.Width
		out.Fx, out.Fy = in.Fy, in.Fx
		out.Ppx, out.Ppy = in.Ppy, w-in.Ppx
	case screen.LandscapeLeft:
		out.Ppx, out.Ppy = w-in.Ppx, h-in.Ppy
	case screen.LandscapeRight:
	}
	return &out
}
