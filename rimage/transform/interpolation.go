package transform

import (
	"math"

	"go.viam.com/awareness/screen"
	"go.viam.com/awareness/spatialmath"
)

const (
	// DefaultNear is the near clipping distance of the shared interpolation projection, in meters.
	DefaultNear = 0.2
	// DefaultFar is the far clipping distance of the shared interpolation projection, in meters.
	DefaultFar = 100.0
	// DefaultBackProjectionDistance is the normalized depth, between near and far, of the plane
	// buffer corners are back-projected onto. Values closer to 1 hide translation error at the
	// cost of correcting mostly rotation.
	DefaultBackProjectionDistance = 0.9
	// DefaultFieldOfView is used when the buffer carries no usable focal length.
	DefaultFieldOfView = math.Pi / 3
)

// BufferGeometry is the capture time geometry of an awareness buffer. View is in the producer's
// native convention: the camera looks down +Z with +Y pointing down the image.
type BufferGeometry struct {
	Width      int
	Height     int
	Intrinsics *PinholeCameraIntrinsics
	View       spatialmath.Matrix4
}

// FieldOfViewY returns 2·atan(height / (2·Fy)) for the buffer, or DefaultFieldOfView when the
// focal length is missing.
func (g BufferGeometry) FieldOfViewY() float64 {
	if g.Intrinsics == nil || g.Intrinsics.Fy <= 0 || g.Height <= 0 {
		return DefaultFieldOfView
	}
	return 2 * math.Atan(float64(g.Height)/(2*g.Intrinsics.Fy))
}

// Projection returns the perspective projection shared by the reference and target poses: the
// buffer's own aspect ratio and field of view between DefaultNear and DefaultFar.
func (g BufferGeometry) Projection() spatialmath.Matrix4 {
	return spatialmath.NewPerspectiveMatrix4(g.FieldOfViewY(), float64(g.Width)/float64(g.Height), DefaultNear, DefaultFar)
}

// InvertVerticalAxis negates the camera space y row of a view matrix.
func InvertVerticalAxis(view spatialmath.Matrix4) spatialmath.Matrix4 {
	return view.NegateRow(1)
}

// InvertForwardAxis negates the camera space z row of a view matrix.
func InvertForwardAxis(view spatialmath.Matrix4) spatialmath.Matrix4 {
	return view.NegateRow(2)
}

// ConvertViewToGraphics converts a producer-native view matrix (+Z forward, +Y down) into the
// graphics convention (-Z forward, +Y up). The conversion is its own inverse.
func ConvertViewToGraphics(view spatialmath.Matrix4) spatialmath.Matrix4 {
	return InvertVerticalAxis(InvertForwardAxis(view))
}

// CalculateInterpolationTransform returns a projective transform that maps normalized
// coordinates of the current camera image to normalized coordinates of the buffer, compensating
// for camera motion since the buffer was captured. currentView is the rendering camera's view
// matrix in graphics convention, rotated with the UI like the viewport. The result is agnostic
// to the presentation and is meant to be combined with a display transform. The boolean is false
// when the solve degenerated and the identity was returned.
func CalculateInterpolationTransform(
	buffer BufferGeometry,
	currentView spatialmath.Matrix4,
	viewOrientation screen.Orientation,
	backProjectionDistance float64,
) (spatialmath.Matrix4, bool) {
	if buffer.Width <= 0 || buffer.Height <= 0 {
		return spatialmath.NewIdentityMatrix4(), false
	}
	bufferOrientation := screen.FromSize(float64(buffer.Width), float64(buffer.Height))

	// Undo the UI rotation so both poses are expressed in the buffer's orientation.
	rotation := spatialmath.NewRotationZMatrix4(screen.Angle(bufferOrientation, viewOrientation))
	referencePose := InvertVerticalAxis(rotation.Mul(ConvertViewToGraphics(buffer.View)))
	targetPose := InvertVerticalAxis(rotation.Mul(currentView))

	return CalculateHomography(referencePose, targetPose, buffer.Projection(), backProjectionDistance)
}

// CalculateCameraToWorldTransform returns a transform from the buffer's camera space (+Z
// forward, +Y down, buffer orientation) to world space. currentView is the rendering camera's
// view matrix in graphics convention, rotated with the UI.
func CalculateCameraToWorldTransform(
	bufferWidth, bufferHeight int,
	currentView spatialmath.Matrix4,
	viewOrientation screen.Orientation,
) spatialmath.Matrix4 {
	bufferOrientation := screen.FromSize(float64(bufferWidth), float64(bufferHeight))
	rotation := spatialmath.NewRotationZMatrix4(screen.Angle(bufferOrientation, viewOrientation))
	rotatedView := ConvertViewToGraphics(rotation.Mul(currentView))
	cameraToWorld, _ := rotatedView.Inverse()
	return cameraToWorld
}
