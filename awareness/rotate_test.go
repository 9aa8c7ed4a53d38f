package awareness

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/screen"
)

// 0 1 2
// 3 4 5
func testGrid(t *testing.T) *Buffer[uint32] {
	t.Helper()
	buf, err := NewBuffer(3, 2, []uint32{0, 1, 2, 3, 4, 5}, Metadata{
		Intrinsics: &transform.PinholeCameraIntrinsics{Width: 3, Height: 2, Fx: 10, Fy: 20, Ppx: 1, Ppy: 0.5},
	})
	test.That(t, err, test.ShouldBeNil)
	return buf
}

func TestRotateIndexMapping(t *testing.T) {
	buf := testGrid(t)

	for _, tc := range []struct {
		target        screen.Orientation
		width, height int
		samples       []uint32
	}{
		{screen.Portrait, 2, 3, []uint32{3, 0, 4, 1, 5, 2}},
		{screen.PortraitUpsideDown, 2, 3, []uint32{2, 5, 1, 4, 0, 3}},
		{screen.LandscapeLeft, 3, 2, []uint32{5, 4, 3, 2, 1, 0}},
		{screen.LandscapeRight, 3, 2, []uint32{0, 1, 2, 3, 4, 5}},
	} {
		t.Run(tc.target.String(), func(t *testing.T) {
			rotated := Rotate(buf, tc.target)
			test.That(t, rotated.Width(), test.ShouldEqual, tc.width)
			test.That(t, rotated.Height(), test.ShouldEqual, tc.height)
			test.That(t, rotated.Samples(), test.ShouldResemble, tc.samples)
			test.That(t, rotated.RotatedToScreen(), test.ShouldBeTrue)
			test.That(t, rotated.Intrinsics().Width, test.ShouldEqual, tc.width)
			test.That(t, rotated.Intrinsics().Height, test.ShouldEqual, tc.height)
		})
	}
	test.That(t, buf.RotatedToScreen(), test.ShouldBeFalse)
}

func TestRotateRoundTrip(t *testing.T) {
	buf := testGrid(t)

	back := Rotate(Rotate(buf, screen.Portrait), screen.PortraitUpsideDown)
	test.That(t, back.Width(), test.ShouldEqual, 3)
	test.That(t, back.Samples(), test.ShouldResemble, buf.Samples())
	test.That(t, *back.Intrinsics(), test.ShouldResemble, *buf.Intrinsics())

	back = Rotate(Rotate(buf, screen.LandscapeLeft), screen.LandscapeLeft)
	test.That(t, back.Samples(), test.ShouldResemble, buf.Samples())
	test.That(t, *back.Intrinsics(), test.ShouldResemble, *buf.Intrinsics())
}

func TestRotateIntrinsics(t *testing.T) {
	rotated := Rotate(testGrid(t), screen.Portrait)
	in := rotated.Intrinsics()
	test.That(t, in.Fx, test.ShouldEqual, 20.0)
	test.That(t, in.Fy, test.ShouldEqual, 10.0)
	test.That(t, in.Ppx, test.ShouldEqual, 1.5)
	test.That(t, in.Ppy, test.ShouldEqual, 1.0)
}

func TestRotateEmpty(t *testing.T) {
	buf, err := NewBuffer(0, 0, []float32{}, Metadata{})
	test.That(t, err, test.ShouldBeNil)
	for _, o := range []screen.Orientation{
		screen.LandscapeLeft, screen.Portrait, screen.LandscapeRight, screen.PortraitUpsideDown,
	} {
		rotated := Rotate(buf, o)
		test.That(t, rotated.Len(), test.ShouldEqual, 0)
		test.That(t, rotated.Intrinsics(), test.ShouldBeNil)
	}
}
