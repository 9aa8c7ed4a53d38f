// Package screen describes the four discrete device/UI orientations and the quarter-turn
// arithmetic between them.
package screen

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Orientation is one of the four discrete device orientations. The numeric values define the
// total order used for rotation arithmetic: each step is a quarter turn counter clockwise.
type Orientation int

const (
	// LandscapeLeft is landscape with the device rotated counter clockwise from portrait.
	LandscapeLeft Orientation = iota
	// Portrait is upright portrait.
	Portrait
	// LandscapeRight is landscape with the device rotated clockwise from portrait. It is the
	// native orientation of the capture sensor.
	LandscapeRight
	// PortraitUpsideDown is portrait rotated by 180 degrees.
	PortraitUpsideDown
)

// SensorNative is the orientation raw awareness buffers are produced in.
const SensorNative = LandscapeRight

// rank returns the position of the orientation in the rotation order.
func (o Orientation) rank() int {
	switch o {
	case LandscapeLeft:
		return 0
	case Portrait:
		return 1
	case LandscapeRight:
		return 2
	case PortraitUpsideDown:
		return 3
	default:
		return 0
	}
}

// Angle returns the signed rotation in radians, in multiples of π/2, that carries orientation
// `from` into `to`.
func Angle(from, to Orientation) float64 {
	return float64(to.rank()-from.rank()) * math.Pi / 2
}

// QuarterTurns returns the rotation between `from` and `to` as a number of counter clockwise
// quarter turns in [0, 4).
func QuarterTurns(from, to Orientation) int {
	return ((to.rank()-from.rank())%4 + 4) % 4
}

// Turn returns the orientation reached after the given number of counter clockwise quarter
// turns. Negative counts turn clockwise.
func (o Orientation) Turn(quarterTurns int) Orientation {
	return [...]Orientation{LandscapeLeft, Portrait, LandscapeRight, PortraitUpsideDown}[((o.rank()+quarterTurns)%4+4)%4]
}

// IsLandscape reports whether the orientation is LandscapeLeft or LandscapeRight.
func (o Orientation) IsLandscape() bool {
	switch o {
	case LandscapeLeft, LandscapeRight:
		return true
	default:
		return false
	}
}

// IsPortrait reports whether the orientation is Portrait or PortraitUpsideDown.
func (o Orientation) IsPortrait() bool {
	switch o {
	case Portrait, PortraitUpsideDown:
		return true
	default:
		return false
	}
}

// Inverse returns the orientation reached by turning back from SensorNative by the same amount
// this orientation is turned away from it. Rotating a buffer to `o` and then rotating the result
// by `o.Inverse()` restores the original sample layout.
func (o Orientation) Inverse() Orientation {
	switch o {
	case Portrait:
		return PortraitUpsideDown
	case PortraitUpsideDown:
		return Portrait
	case LandscapeLeft:
		return LandscapeLeft
	default:
		return LandscapeRight
	}
}

// FromSize infers an orientation from a container's aspect ratio: wide is LandscapeLeft,
// tall or square is Portrait.
func FromSize(width, height float64) Orientation {
	if width > height {
		return LandscapeLeft
	}
	return Portrait
}

// RotatedContainer returns the container dimensions after rotating a (width, height) container
// from `src` to `dst`. Dimensions swap only when the rotation crosses between the landscape and
// portrait families.
func RotatedContainer(width, height float64, src, dst Orientation) (float64, float64) {
	if src.IsLandscape() == dst.IsLandscape() {
		return width, height
	}
	return height, width
}

func (o Orientation) String() string {
	switch o {
	case LandscapeLeft:
		return "landscape_left"
	case Portrait:
		return "portrait"
	case LandscapeRight:
		return "landscape_right"
	case PortraitUpsideDown:
		return "portrait_upside_down"
	default:
		return "unknown"
	}
}

// Parse converts a name produced by String back into an Orientation. Matching is case
// insensitive and accepts '-' in place of '_'.
func Parse(name string) (Orientation, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "_") {
	case "landscape_left":
		return LandscapeLeft, nil
	case "portrait":
		return Portrait, nil
	case "landscape_right":
		return LandscapeRight, nil
	case "portrait_upside_down":
		return PortraitUpsideDown, nil
	default:
		return LandscapeLeft, errors.Errorf("unknown orientation %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
