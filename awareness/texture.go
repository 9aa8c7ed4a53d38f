package awareness

import (
	"image"
	"image/color"
	"math"
)

// PixelFormat is the storage format of a Texture.
type PixelFormat int

const (
	// FormatRGBA32 stores four 8 bit channels per pixel.
	FormatRGBA32 PixelFormat = iota
	// FormatRFloat stores one float32 per pixel.
	FormatRFloat
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA32:
		return "rgba32"
	case FormatRFloat:
		return "rfloat"
	default:
		return "unknown"
	}
}

// Texture is a caller owned render target that materialized buffers are written into. A zero
// Texture is unallocated and takes the format of the first Prepare call.
type Texture struct {
	format    PixelFormat
	allocated bool
	width     int
	height    int
	pix       []uint8
	float     []float32
}

// NewTexture allocates a texture of the given format and size.
func NewTexture(format PixelFormat, width, height int) *Texture {
	t := &Texture{}
	t.allocate(format, width, height)
	return t
}

// Prepare makes the texture ready to receive width x height pixels of format. It fails with
// ErrFormatMismatch when the texture was already allocated with another format. The backing
// store is reallocated only when the dimensions change.
func (t *Texture) Prepare(format PixelFormat, width, height int) error {
	if t.allocated && t.format != format {
		return NewFormatMismatchError(t.format, format)
	}
	if t.allocated && t.width == width && t.height == height {
		return nil
	}
	t.allocate(format, width, height)
	return nil
}

func (t *Texture) allocate(format PixelFormat, width, height int) {
	t.format, t.allocated = format, true
	t.width, t.height = width, height
	t.pix, t.float = nil, nil
	switch format {
	case FormatRGBA32:
		t.pix = make([]uint8, 4*width*height)
	case FormatRFloat:
		t.float = make([]float32, width*height)
	}
}

// Allocated reports whether the texture holds pixels.
func (t *Texture) Allocated() bool {
	return t.allocated
}

// Format returns the pixel format.
func (t *Texture) Format() PixelFormat {
	return t.format
}

// Width returns the number of columns.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the number of rows.
func (t *Texture) Height() int {
	return t.height
}

// SetRGBA writes an RGBA32 pixel.
func (t *Texture) SetRGBA(x, y int, c color.NRGBA) {
	i := 4 * (y*t.width + x)
	t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3] = c.R, c.G, c.B, c.A
}

// RGBAAt reads an RGBA32 pixel.
func (t *Texture) RGBAAt(x, y int) color.NRGBA {
	i := 4 * (y*t.width + x)
	return color.NRGBA{R: t.pix[i], G: t.pix[i+1], B: t.pix[i+2], A: t.pix[i+3]}
}

// SetFloat writes an RFloat pixel.
func (t *Texture) SetFloat(x, y int, v float32) {
	t.float[y*t.width+x] = v
}

// FloatAt reads an RFloat pixel.
func (t *Texture) FloatAt(x, y int) float32 {
	return t.float[y*t.width+x]
}

// ToImage converts the texture to an image. RFloat textures are mapped to gray between the
// smallest and largest finite values.
func (t *Texture) ToImage() image.Image {
	rect := image.Rect(0, 0, t.width, t.height)
	if t.format == FormatRGBA32 {
		img := image.NewNRGBA(rect)
		copy(img.Pix, t.pix)
		return img
	}

	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range t.float {
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			continue
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	img := image.NewGray16(rect)
	if hi <= lo {
		return img
	}
	for i, v := range t.float {
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			continue
		}
		img.Pix[2*i], img.Pix[2*i+1] = grayBytes((v - lo) / (hi - lo))
	}
	return img
}

func grayBytes(normalized float32) (uint8, uint8) {
	g := uint16(math.Round(float64(normalized) * math.MaxUint16))
	return uint8(g >> 8), uint8(g)
}
