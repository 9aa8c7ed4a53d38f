package awareness

import (
	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/utils"
)

// Interpolate reprojects a buffer captured at an earlier pose so it lines up with pose. Each
// output sample is read, nearest neighbor, from where the interpolation transform maps it in
// the source buffer. The result carries the producer view of pose. The boolean is false when
// the homography degenerated, in which case the samples are copied unchanged.
func Interpolate[T Sample](b *Buffer[T], pose CameraPose, backProjectionDistance float64) (*Buffer[T], bool) {
	sampler, ok := transform.CalculateInterpolationTransform(
		b.Geometry(), pose.View, pose.Viewport.Orientation, backProjectionDistance)

	meta := b.meta
	meta.View = pose.ProducerView()
	if !ok {
		return newBufferNoCopy(b.width, b.height, append([]T(nil), b.data...), meta), false
	}

	w, h := b.width, b.height
	out := make([]T, len(b.data))
	utils.ParallelForEachRow(h, func(y int) {
		v := (float64(y) + 0.5) / float64(h)
		row := out[y*w : (y+1)*w]
		for x := range row {
			row[x] = b.Sample((float64(x)+0.5)/float64(w), v, sampler)
		}
	})
	return newBufferNoCopy(w, h, out, meta), true
}
