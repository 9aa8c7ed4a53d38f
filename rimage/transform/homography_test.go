package transform

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/awareness/spatialmath"
)

func TestNewHomography(t *testing.T) {
	_, err := NewHomography([]float64{})
	test.That(t, err, test.ShouldBeError, errors.New("input to NewHomography must have length of 9. Has length of 0"))

	vals := []float64{
		2.32700501e-01, -8.33535395e-03, -3.61894025e+01,
		-1.90671303e-03, 2.35303232e-01, 8.38582614e+00,
		-6.39101664e-05, -4.64582754e-05, 1.00000000e+00,
	}
	h, err := NewHomography(vals)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h.At(1, 2), test.ShouldEqual, 8.38582614e+00)

	inv, ok := h.Inverse()
	test.That(t, ok, test.ShouldBeTrue)
	pt := r2.Point{X: 320, Y: 240}
	back := inv.Apply(h.Apply(pt))
	test.That(t, back.X, test.ShouldAlmostEqual, pt.X, 1e-6)
	test.That(t, back.Y, test.ShouldAlmostEqual, pt.Y, 1e-6)

	// The 4x4 embedding maps points the same way.
	x, y := h.Matrix4().Transform2D(pt.X, pt.Y)
	mapped := h.Apply(pt)
	test.That(t, x, test.ShouldAlmostEqual, mapped.X, 1e-9)
	test.That(t, y, test.ShouldAlmostEqual, mapped.Y, 1e-9)
}

func TestSingularHomography(t *testing.T) {
	h := &Homography{{1, 2, 3}, {2, 4, 6}, {0, 0, 1}}
	inv, ok := h.Inverse()
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, inv, test.ShouldResemble, NewIdentityHomography())

	test.That(t, (&Homography{}).Apply(r2.Point{X: 1, Y: 1}), test.ShouldResemble, r2.Point{})
}

func TestSolveUnitSquareHomography(t *testing.T) {
	p00, p01, p11, p10 := r2.Point{X: 0.1, Y: 0.05}, r2.Point{X: 0.0, Y: 0.9}, r2.Point{X: 0.95, Y: 1.1}, r2.Point{X: 0.8, Y: 0.0}
	h, ok := SolveUnitSquareHomography(p00, p01, p11, p10)
	test.That(t, ok, test.ShouldBeTrue)

	for i, expected := range []r2.Point{p00, p01, p11, p10} {
		got := h.Apply(unitSquare[i])
		test.That(t, got.X, test.ShouldAlmostEqual, expected.X, 1e-9)
		test.That(t, got.Y, test.ShouldAlmostEqual, expected.Y, 1e-9)
	}

	// All four corners on one line.
	_, ok = SolveUnitSquareHomography(r2.Point{}, r2.Point{X: 1}, r2.Point{X: 2}, r2.Point{X: 3})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestViewWorldRoundTrip(t *testing.T) {
	projection := spatialmath.NewPerspectiveMatrix4(math.Pi/3, 16./9., DefaultNear, DefaultFar)
	view := spatialmath.Compose(spatialmath.NewRotationZMatrix4(0.2), spatialmath.NewTranslationMatrix4(0.5, -1, 2))

	for _, corner := range unitSquare {
		world := ViewToWorld(corner, view, projection, DefaultBackProjectionDistance)
		back := WorldToView(world, view, projection)
		test.That(t, back.X, test.ShouldAlmostEqual, corner.X, 1e-9)
		test.That(t, back.Y, test.ShouldAlmostEqual, corner.Y, 1e-9)
	}

	// The camera center projects with w = 0 and collapses to the origin.
	cameraCenter := spatialmath.NewTranslationMatrix4(-0.5, 1, -2)
	test.That(t, WorldToView(cameraCenter.MultiplyPoint(r3.Vector{}), view, projection), test.ShouldResemble, r2.Point{})

	var singular spatialmath.Matrix4
	test.That(t, ViewToWorld(r2.Point{X: 0.5, Y: 0.5}, singular, projection, 0.5), test.ShouldResemble, r3.Vector{})
}

func TestCalculateHomographyZeroMotion(t *testing.T) {
	projection := spatialmath.NewPerspectiveMatrix4(math.Pi/3, 4./3., DefaultNear, DefaultFar)
	pose := spatialmath.NewPoseMatrix4(r3.Vector{X: 1, Y: 2, Z: 3}, (&spatialmath.R4AA{Theta: 0.4, RX: 1, RY: 1}).ToQuat())

	h, ok := CalculateHomography(pose, pose, projection, DefaultBackProjectionDistance)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, h.AlmostEqual(spatialmath.NewIdentityMatrix4(), 1e-6), test.ShouldBeTrue)
}
