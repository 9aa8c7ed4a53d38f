package transform

import (
	"github.com/golang/geo/r2"

	"go.viam.com/awareness/screen"
	"go.viam.com/awareness/spatialmath"
)

// Affine builders act on normalized 2D coordinates carried as (x, y, 0, 1); z and w pass
// through untouched.

// AffineRotation rotates counter clockwise by rad radians about the origin.
func AffineRotation(rad float64) spatialmath.Matrix4 {
	return spatialmath.NewRotationZMatrix4(rad)
}

// AffineTranslation translates by (x, y).
func AffineTranslation(x, y float64) spatialmath.Matrix4 {
	return spatialmath.NewTranslationMatrix4(x, y, 0)
}

// AffineScale scales each axis independently.
func AffineScale(x, y float64) spatialmath.Matrix4 {
	return spatialmath.NewScaleMatrix4(x, y, 1)
}

// AffineInvertHorizontal maps x to 1-x.
func AffineInvertHorizontal() spatialmath.Matrix4 {
	m := spatialmath.NewIdentityMatrix4()
	m[0][0] = -1
	m[0][3] = 1
	return m
}

// AffineInvertVertical maps y to 1-y.
func AffineInvertVertical() spatialmath.Matrix4 {
	m := spatialmath.NewIdentityMatrix4()
	m[1][1] = -1
	m[1][3] = 1
	return m
}

// AffineRotationAboutPivot rotates normalized coordinates about the image center by the angle
// between the two orientations.
func AffineRotationAboutPivot(from, to screen.Orientation) spatialmath.Matrix4 {
	pivot := r2.Point{X: 0.5, Y: 0.5}
	return spatialmath.Compose(
		AffineTranslation(pivot.X, pivot.Y),
		AffineRotation(screen.Angle(from, to)),
		AffineTranslation(-pivot.X, -pivot.Y),
	)
}

// AffineFit returns an affine transform such that normalized coordinates of the target frame
// multiplied by it are normalized coordinates of the source frame. E.g. with the awareness buffer
// as source and the viewport as target, viewport coordinates map into the buffer. The source is
// rotated into the target orientation, then uniformly scaled and centered so the rotated
// container covers the target without distortion.
func AffineFit(
	sourceWidth, sourceHeight float64, sourceOrientation screen.Orientation,
	targetWidth, targetHeight float64, targetOrientation screen.Orientation,
) spatialmath.Matrix4 {
	containerWidth, containerHeight := screen.RotatedContainer(
		sourceWidth, sourceHeight, sourceOrientation, targetOrientation)

	var s r2.Point
	if targetRatio := targetWidth / targetHeight; targetRatio < 1 {
		s = r2.Point{X: targetWidth / (targetHeight / containerHeight * containerWidth), Y: 1}
	} else {
		s = r2.Point{X: 1, Y: targetHeight / (targetWidth / containerWidth * containerHeight)}
	}

	return spatialmath.Compose(
		AffineRotationAboutPivot(sourceOrientation, targetOrientation),
		AffineTranslation((1-s.X)*0.5, (1-s.Y)*0.5),
		AffineScale(s.X, s.Y),
	)
}
