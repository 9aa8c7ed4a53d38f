package awareness

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/screen"
	"go.viam.com/awareness/spatialmath"
	"go.viam.com/awareness/utils"
)

func testPose(world spatialmath.Matrix4) CameraPose {
	projection := spatialmath.NewPerspectiveMatrix4(utils.DegToRad(60), 16.0/9, 0.1, 100)
	return NewCameraPose(world, projection, nil, Viewport{Width: 256, Height: 144, Orientation: screen.LandscapeLeft})
}

func TestInterpolateZeroMotion(t *testing.T) {
	pose := testPose(spatialmath.NewTranslationMatrix4(0.5, 1, -2))
	samples := make([]uint32, 16*9)
	for i := range samples {
		samples[i] = uint32(i)
	}
	buf := MustNewBuffer(16, 9, samples, Metadata{
		View:       pose.ProducerView(),
		Intrinsics: &transform.PinholeCameraIntrinsics{Width: 16, Height: 9, Fx: 8, Fy: 8, Ppx: 8, Ppy: 4.5},
	})

	out, ok := Interpolate(buf, pose, transform.DefaultBackProjectionDistance)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, out.Samples(), test.ShouldResemble, samples)
	test.That(t, out.View(), test.ShouldResemble, buf.View())
}

func TestInterpolateMovesContent(t *testing.T) {
	captured := testPose(spatialmath.NewIdentityMatrix4())
	samples := make([]float32, 16*9)
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			samples[y*16+x] = float32(x)
		}
	}
	buf := MustNewBuffer(16, 9, samples, Metadata{View: captured.ProducerView()})

	// After turning left the center column shows content from further left in the buffer.
	turned := testPose((&spatialmath.R4AA{Theta: 0.1, RY: 1}).Matrix4())
	out, ok := Interpolate(buf, turned, transform.DefaultBackProjectionDistance)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, out.At(8, 4), test.ShouldBeLessThan, float32(8))
	test.That(t, out.View(), test.ShouldResemble, turned.ProducerView())
}

func TestInterpolateDegenerate(t *testing.T) {
	buf := MustNewBuffer(2, 1, []float32{1, 2}, Metadata{})
	var singular CameraPose
	out, ok := Interpolate(buf, singular, 0.9)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, out.Samples(), test.ShouldResemble, []float32{1, 2})
}

func TestCameraPose(t *testing.T) {
	world := spatialmath.NewTranslationMatrix4(1, 2, 3)
	pose := testPose(world)
	test.That(t, pose.View.MultiplyPoint(r3.Vector{X: 1, Y: 2, Z: 3}).Norm(), test.ShouldBeLessThan, 1e-9)

	fromView := NewCameraPoseFromView(pose.View, pose.Projection, nil, pose.Viewport)
	test.That(t, fromView.World.AlmostEqual(world, 1e-9), test.ShouldBeTrue)
	test.That(t, transform.ConvertViewToGraphics(pose.ProducerView()), test.ShouldResemble, pose.View)
}

func TestBroadcaster(t *testing.T) {
	var b Broadcaster[float32]
	buf := MustNewBuffer(1, 1, []float32{1}, Metadata{})

	var calls int
	unsubscribe := b.Subscribe(func(got *DepthBuffer, _ CameraPose) {
		test.That(t, got, test.ShouldEqual, buf)
		calls++
	})
	test.That(t, b.Subscribers(), test.ShouldEqual, 1)

	b.Publish(buf, CameraPose{})
	test.That(t, calls, test.ShouldEqual, 1)

	unsubscribe()
	unsubscribe()
	test.That(t, b.Subscribers(), test.ShouldEqual, 0)
	b.Publish(buf, CameraPose{})
	test.That(t, calls, test.ShouldEqual, 1)
}
