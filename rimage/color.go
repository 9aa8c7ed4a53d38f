package rimage

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Color is an opaque RGB color that also remembers its HSV coordinates.
type Color struct {
	R, G, B uint8
	H, S, V float64
}

func (c Color) String() string {
	return fmt.Sprintf("%s (%3d,%4.2f,%4.2f)", c.Hex(), int(c.H), c.S, c.V)
}

// Hex returns the #rrggbb form of the color.
func (c Color) Hex() string {
	return fmt.Sprintf("#%.2x%.2x%.2x", c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// NRGBA returns the color with the given alpha.
func (c Color) NRGBA(alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// DistanceLab returns the perceptual distance between two colors in CIE L*a*b*.
func (c Color) DistanceLab(b Color) float64 {
	return c.toColorful().DistanceLab(b.toColorful())
}

// NewColor returns the color with the given RGB components.
func NewColor(r, g, b uint8) Color {
	h, s, v := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hsv()
	return Color{R: r, G: g, B: b, H: h, S: s, V: v}
}

// NewColorFromHSV returns the color with hue h in degrees and saturation and value in [0, 1].
func NewColorFromHSV(h, s, v float64) Color {
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return Color{R: r, G: g, B: b, H: h, S: s, V: v}
}

// NewColorFromHex parses a #rrggbb color.
func NewColorFromHex(hex string) (Color, error) {
	cc, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, errors.Wrapf(err, "couldn't parse hex %q", hex)
	}
	r, g, b := cc.RGB255()
	return NewColor(r, g, b), nil
}

// NewColorFromHexOrPanic is like NewColorFromHex but panics on malformed input.
func NewColorFromHexOrPanic(hex string) Color {
	c, err := NewColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette returns n colors with evenly spaced hues, starting at red.
func Palette(n int) []Color {
	colors := make([]Color, n)
	for i := range colors {
		colors[i] = NewColorFromHSV(math.Mod(float64(i)*360/float64(max(n, 1)), 360), 0.8, 1)
	}
	return colors
}

// Common colors.
var (
	Red   = NewColor(255, 0, 0)
	Green = NewColor(0, 255, 0)
	Blue  = NewColor(0, 0, 255)
	White = NewColor(255, 255, 255)
	Black = NewColor(0, 0, 0)
)
