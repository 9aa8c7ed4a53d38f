package awareness

import (
	"go.viam.com/awareness/rimage/transform"
	"go.viam.com/awareness/spatialmath"
)

// Viewport is the render target size and UI orientation.
type Viewport = transform.Viewport

// CameraPose is the rendering camera at a point in time. All matrices use the graphics
// convention: the camera looks down -Z with +Y up, and View is rotated with the UI.
type CameraPose struct {
	// World is the camera to world transform.
	World spatialmath.Matrix4
	// View is the world to camera transform, the inverse of World.
	View spatialmath.Matrix4
	// Projection maps camera space to clip space.
	Projection spatialmath.Matrix4
	// Intrinsics describe the camera image, if known.
	Intrinsics *transform.PinholeCameraIntrinsics
	Viewport   Viewport
}

// NewCameraPose derives the view matrix from the camera to world transform. A singular world
// transform yields an identity view.
func NewCameraPose(
	world, projection spatialmath.Matrix4,
	intrinsics *transform.PinholeCameraIntrinsics,
	viewport Viewport,
) CameraPose {
	view, _ := world.Inverse()
	return CameraPose{
		World:      world,
		View:       view,
		Projection: projection,
		Intrinsics: intrinsics,
		Viewport:   viewport,
	}
}

// NewCameraPoseFromView derives the camera to world transform from a view matrix.
func NewCameraPoseFromView(
	view, projection spatialmath.Matrix4,
	intrinsics *transform.PinholeCameraIntrinsics,
	viewport Viewport,
) CameraPose {
	world, _ := view.Inverse()
	return CameraPose{
		World:      world,
		View:       view,
		Projection: projection,
		Intrinsics: intrinsics,
		Viewport:   viewport,
	}
}

// ProducerView returns the pose's view matrix in the producer convention, as a buffer captured
// from this pose would carry it.
func (p CameraPose) ProducerView() spatialmath.Matrix4 {
	return transform.ConvertViewToGraphics(p.View)
}
