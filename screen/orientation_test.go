package screen

import (
	"math"
	"testing"

	"go.viam.com/test"
)

var allOrientations = []Orientation{LandscapeLeft, Portrait, LandscapeRight, PortraitUpsideDown}

func TestAngle(t *testing.T) {
	test.That(t, Angle(LandscapeLeft, Portrait), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, Angle(Portrait, LandscapeLeft), test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, Angle(LandscapeLeft, PortraitUpsideDown), test.ShouldAlmostEqual, 3*math.Pi/2)
	test.That(t, Angle(LandscapeRight, Portrait), test.ShouldAlmostEqual, -math.Pi/2)

	for _, from := range allOrientations {
		test.That(t, Angle(from, from), test.ShouldEqual, 0.)
		for _, to := range allOrientations {
			// Antisymmetric and total.
			test.That(t, Angle(from, to), test.ShouldAlmostEqual, -Angle(to, from))
			turns := QuarterTurns(from, to)
			test.That(t, turns, test.ShouldBeBetweenOrEqual, 0, 3)
			test.That(t, math.Mod(Angle(from, to)+2*math.Pi, 2*math.Pi), test.ShouldAlmostEqual,
				math.Mod(float64(turns)*math.Pi/2, 2*math.Pi))
		}
	}
}

func TestTurn(t *testing.T) {
	test.That(t, LandscapeLeft.Turn(1), test.ShouldEqual, Portrait)
	test.That(t, LandscapeRight.Turn(-1), test.ShouldEqual, Portrait)
	test.That(t, PortraitUpsideDown.Turn(1), test.ShouldEqual, LandscapeLeft)
	test.That(t, Portrait.Turn(6), test.ShouldEqual, PortraitUpsideDown)
	for _, from := range allOrientations {
		test.That(t, from.Turn(0), test.ShouldEqual, from)
		for _, to := range allOrientations {
			test.That(t, from.Turn(QuarterTurns(from, to)), test.ShouldEqual, to)
		}
	}
}

func TestFamilies(t *testing.T) {
	test.That(t, LandscapeLeft.IsLandscape(), test.ShouldBeTrue)
	test.That(t, LandscapeRight.IsLandscape(), test.ShouldBeTrue)
	test.That(t, Portrait.IsPortrait(), test.ShouldBeTrue)
	test.That(t, PortraitUpsideDown.IsPortrait(), test.ShouldBeTrue)
	for _, o := range allOrientations {
		test.That(t, o.IsLandscape(), test.ShouldNotEqual, o.IsPortrait())
		test.That(t, o.Inverse().Inverse(), test.ShouldEqual, o)
		test.That(t, o.Inverse().IsLandscape(), test.ShouldEqual, o.IsLandscape())
	}
}

func TestFromSize(t *testing.T) {
	test.That(t, FromSize(256, 144), test.ShouldEqual, LandscapeLeft)
	test.That(t, FromSize(144, 256), test.ShouldEqual, Portrait)
	test.That(t, FromSize(100, 100), test.ShouldEqual, Portrait)
}

func TestRotatedContainer(t *testing.T) {
	w, h := RotatedContainer(256, 144, LandscapeLeft, LandscapeRight)
	test.That(t, w, test.ShouldEqual, 256.)
	test.That(t, h, test.ShouldEqual, 144.)

	w, h = RotatedContainer(256, 144, LandscapeLeft, Portrait)
	test.That(t, w, test.ShouldEqual, 144.)
	test.That(t, h, test.ShouldEqual, 256.)

	w, h = RotatedContainer(144, 256, PortraitUpsideDown, Portrait)
	test.That(t, w, test.ShouldEqual, 144.)
	test.That(t, h, test.ShouldEqual, 256.)
}

func TestParse(t *testing.T) {
	for _, o := range allOrientations {
		parsed, err := Parse(o.String())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, o)
	}

	parsed, err := Parse("Portrait-Upside-Down")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed, test.ShouldEqual, PortraitUpsideDown)

	_, err = Parse("sideways")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "sideways")

	var o Orientation
	test.That(t, o.UnmarshalText([]byte("landscape_right")), test.ShouldBeNil)
	test.That(t, o, test.ShouldEqual, LandscapeRight)
}
