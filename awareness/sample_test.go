package awareness

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/spatialmath"
)

func TestSampleNearest(t *testing.T) {
	buf := MustNewBuffer(2, 2, []float32{1, 2, 3, 4}, Metadata{})
	test.That(t, buf.SampleNormalized(0.25, 0.25), test.ShouldEqual, float32(1))
	test.That(t, buf.SampleNormalized(0.75, 0.25), test.ShouldEqual, float32(2))
	test.That(t, buf.SampleNormalized(0.25, 0.75), test.ShouldEqual, float32(3))
	test.That(t, buf.SampleNormalized(1, 1), test.ShouldEqual, float32(4))
	test.That(t, buf.SampleNormalized(-1, 0.9), test.ShouldEqual, float32(3))
	test.That(t, buf.SampleNormalized(math.NaN(), 0.5), test.ShouldEqual, float32(0))

	empty := MustNewBuffer(0, 0, []float32{}, Metadata{})
	test.That(t, empty.SampleNormalized(0.5, 0.5), test.ShouldEqual, float32(0))
}

func TestSampleThroughTransform(t *testing.T) {
	buf := MustNewBuffer(2, 2, []uint32{1, 2, 3, 4}, Metadata{})
	test.That(t, buf.Sample(0.25, 0.25, spatialmath.NewIdentityMatrix4()), test.ShouldEqual, uint32(1))

	flip := transform.AffineInvertVertical()
	test.That(t, buf.Sample(0.25, 0.25, flip), test.ShouldEqual, uint32(3))

	shift := transform.AffineTranslation(0.5, 0)
	test.That(t, buf.Sample(0.25, 0.75, shift), test.ShouldEqual, uint32(4))
}

func TestSampleBilinear(t *testing.T) {
	buf := MustNewBuffer(2, 2, []float32{1, 2, 3, 4}, Metadata{})
	identity := spatialmath.NewIdentityMatrix4()
	test.That(t, SampleBilinear(buf, 0.5, 0.5, identity), test.ShouldAlmostEqual, 2.5, 1e-6)
	test.That(t, SampleBilinear(buf, 0.25, 0.25, identity), test.ShouldAlmostEqual, 1, 1e-6)
	test.That(t, SampleBilinear(buf, 0.5, 0.25, identity), test.ShouldAlmostEqual, 1.5, 1e-6)
	test.That(t, SampleBilinear(buf, 0, 0, identity), test.ShouldAlmostEqual, 1, 1e-6)
	test.That(t, SampleBilinear(buf, 1, 1, identity), test.ShouldAlmostEqual, 4, 1e-6)
}

func TestFilterString(t *testing.T) {
	test.That(t, FilterNearest.String(), test.ShouldEqual, "nearest")
	test.That(t, FilterBilinear.String(), test.ShouldEqual, "bilinear")
}
