package rimage

import (
	"image"
	"image/color"
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/awareness/awareness"
	"go.viam.com/awareness/spatialmath"
)

func testDepth(t *testing.T) *awareness.DepthBuffer {
	t.Helper()
	inf := float32(math.Inf(1))
	buf, err := awareness.NewDepthBuffer(4, 1, []float32{0.25, 1, 4, inf}, spatialmath.NewIdentityMatrix4(), nil, 0.2, 100)
	test.That(t, err, test.ShouldBeNil)
	return buf
}

func TestDepthMinMax(t *testing.T) {
	lo, hi := DepthMinMax(testDepth(t))
	test.That(t, lo, test.ShouldEqual, float32(0.25))
	test.That(t, hi, test.ShouldEqual, float32(4))

	empty, err := awareness.NewDepthBuffer(1, 1, []float32{0}, spatialmath.NewIdentityMatrix4(), nil, 0.2, 100)
	test.That(t, err, test.ShouldBeNil)
	lo, hi = DepthMinMax(empty)
	test.That(t, lo, test.ShouldEqual, float32(0))
	test.That(t, hi, test.ShouldEqual, float32(0))
}

func TestDepthToPrettyPicture(t *testing.T) {
	img := DepthToPrettyPicture(testDepth(t), 0, 100)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 1))
	test.That(t, img.At(0, 0), test.ShouldResemble, NewColorFromHSV(30, 1, 1).NRGBA(255))
	test.That(t, img.At(2, 0), test.ShouldResemble, NewColorFromHSV(230, 1, 1).NRGBA(255))
	test.That(t, img.At(3, 0), test.ShouldResemble, color.NRGBA{A: 255})
}

func TestDisparityImage(t *testing.T) {
	img := DisparityImage(testDepth(t), DefaultMaxDisparity)
	test.That(t, img.GrayAt(0, 0).Y, test.ShouldEqual, uint8(255))
	test.That(t, img.GrayAt(1, 0).Y, test.ShouldEqual, uint8(64))
	test.That(t, img.GrayAt(2, 0).Y, test.ShouldEqual, uint8(16))
	test.That(t, img.GrayAt(3, 0).Y, test.ShouldEqual, uint8(0))
}

func TestSemanticsToPicture(t *testing.T) {
	buf, err := awareness.NewSemanticBuffer(3, 1, []uint32{0, 0b01, 0b11}, spatialmath.NewIdentityMatrix4(), nil, []string{"sky", "ground"})
	test.That(t, err, test.ShouldBeNil)
	img := SemanticsToPicture(buf, []Color{Red, Green})
	test.That(t, img.At(0, 0), test.ShouldResemble, color.NRGBA{})
	test.That(t, img.At(1, 0), test.ShouldResemble, Red.NRGBA(255))
	test.That(t, img.At(2, 0), test.ShouldResemble, Red.NRGBA(255))

	// Too few colors falls back to the palette.
	img = SemanticsToPicture(buf, nil)
	test.That(t, img.At(1, 0), test.ShouldResemble, Palette(2)[0].NRGBA(255))
}

func TestResizeAndFlip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, Red.NRGBA(255))

	big := ResizePreview(img, 2)
	test.That(t, big.Bounds().Dx(), test.ShouldEqual, 4)
	test.That(t, big.At(1, 1), test.ShouldResemble, Red.NRGBA(255))
	test.That(t, ResizePreview(img, 0), test.ShouldEqual, img)

	flipped := FlipVertical(img)
	test.That(t, flipped.At(0, 1), test.ShouldResemble, Red.NRGBA(255))
	test.That(t, flipped.At(0, 0), test.ShouldResemble, color.NRGBA{})
}

func TestColor(t *testing.T) {
	c, err := NewColorFromHex("#ff0000")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c, test.ShouldResemble, Red)
	test.That(t, c.Hex(), test.ShouldEqual, "#ff0000")
	test.That(t, c.H, test.ShouldAlmostEqual, 0)
	test.That(t, c.DistanceLab(Red), test.ShouldAlmostEqual, 0)
	test.That(t, Red.DistanceLab(Blue), test.ShouldBeGreaterThan, 0.5)

	_, err = NewColorFromHex("nope")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, func() { NewColorFromHexOrPanic("nope") }, test.ShouldPanic)

	palette := Palette(3)
	test.That(t, len(palette), test.ShouldEqual, 3)
	test.That(t, palette[1].H, test.ShouldAlmostEqual, 120)
}
