// Package awareness models per-pixel perception buffers (depth and semantic masks) and the
// operations that align them with a viewport: reorientation, viewport fit, interpolation and
// sampling.
package awareness

import (
	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/spatialmath"
)

// Sample is the element type of an awareness buffer: float32 depth in meters or a uint32
// semantic channel mask.
type Sample interface {
	~float32 | ~uint32
}

// Metadata is the capture information delivered with a buffer.
type Metadata struct {
	// View is the capture time view matrix in the producer convention: +Z forward, +Y down.
	View spatialmath.Matrix4
	// Intrinsics are expressed in buffer pixels.
	Intrinsics *transform.PinholeCameraIntrinsics
	// Near and Far bound the valid depth range. Depth buffers only.
	Near, Far float32
	// Channels names the bits of semantic masks. Semantic buffers only.
	Channels ChannelTable
	// RotatedToScreen is set once the samples have been reoriented to a UI orientation.
	RotatedToScreen bool
}

// Buffer is an immutable width x height grid of samples plus its capture metadata. Samples are
// stored row major with the top row first.
type Buffer[T Sample] struct {
	width, height int
	meta          Metadata
	data          []T
}

type (
	// DepthBuffer holds per-pixel depth in meters.
	DepthBuffer = Buffer[float32]
	// SemanticBuffer holds per-pixel channel masks.
	SemanticBuffer = Buffer[uint32]
)

// NewBuffer copies samples into a new buffer. It fails with ErrSizeMismatch unless
// len(samples) == width*height.
func NewBuffer[T Sample](width, height int, samples []T, meta Metadata) (*Buffer[T], error) {
	if width < 0 || height < 0 || len(samples) != width*height {
		return nil, NewSizeMismatchError(width, height, len(samples))
	}
	return newBufferNoCopy(width, height, append([]T(nil), samples...), meta), nil
}

// MustNewBuffer is like NewBuffer but panics on a size mismatch.
func MustNewBuffer[T Sample](width, height int, samples []T, meta Metadata) *Buffer[T] {
	buf, err := NewBuffer(width, height, samples, meta)
	if err != nil {
		panic(err)
	}
	return buf
}

// NewDepthBuffer returns a depth buffer valid between near and far meters.
func NewDepthBuffer(
	width, height int,
	samples []float32,
	view spatialmath.Matrix4,
	intrinsics *transform.PinholeCameraIntrinsics,
	near, far float32,
) (*DepthBuffer, error) {
	return NewBuffer(width, height, samples, Metadata{View: view, Intrinsics: intrinsics, Near: near, Far: far})
}

// NewSemanticBuffer returns a semantic buffer whose mask bits are named by channels.
func NewSemanticBuffer(
	width, height int,
	samples []uint32,
	view spatialmath.Matrix4,
	intrinsics *transform.PinholeCameraIntrinsics,
	channels []string,
) (*SemanticBuffer, error) {
	return NewBuffer(width, height, samples, Metadata{View: view, Intrinsics: intrinsics, Channels: NewChannelTable(channels...)})
}

// newBufferNoCopy takes ownership of data, which must not be modified afterwards.
func newBufferNoCopy[T Sample](width, height int, data []T, meta Metadata) *Buffer[T] {
	return &Buffer[T]{width: width, height: height, meta: meta, data: data}
}

// Width returns the number of columns.
func (b *Buffer[T]) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Buffer[T]) Height() int {
	return b.height
}

// Len returns the number of samples.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// At returns the sample at column x and row y.
func (b *Buffer[T]) At(x, y int) T {
	return b.data[y*b.width+x]
}

// Samples returns a copy of the samples.
func (b *Buffer[T]) Samples() []T {
	return append([]T(nil), b.data...)
}

// Metadata returns the capture metadata.
func (b *Buffer[T]) Metadata() Metadata {
	return b.meta
}

// View returns the capture time view matrix in the producer convention.
func (b *Buffer[T]) View() spatialmath.Matrix4 {
	return b.meta.View
}

// Intrinsics returns the capture intrinsics in buffer pixels, if known.
func (b *Buffer[T]) Intrinsics() *transform.PinholeCameraIntrinsics {
	return b.meta.Intrinsics
}

// Near returns the closest valid depth.
func (b *Buffer[T]) Near() float32 {
	return b.meta.Near
}

// Far returns the farthest valid depth.
func (b *Buffer[T]) Far() float32 {
	return b.meta.Far
}

// Channels returns the semantic channel table.
func (b *Buffer[T]) Channels() ChannelTable {
	return b.meta.Channels
}

// RotatedToScreen reports whether the samples have been reoriented to a UI orientation.
func (b *Buffer[T]) RotatedToScreen() bool {
	return b.meta.RotatedToScreen
}

// Geometry returns what the interpolation transform needs to know about the buffer.
func (b *Buffer[T]) Geometry() transform.BufferGeometry {
	return transform.BufferGeometry{
		Width:      b.width,
		Height:     b.height,
		Intrinsics: b.meta.Intrinsics,
		View:       b.meta.View,
	}
}
