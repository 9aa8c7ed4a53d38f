package transform

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/awareness/spatialmath"
)

// Homography is a 3x3 matrix (represented as a 2D array) used to transform a plane from the
// perspective of one camera to the perspective of another. Indices are [row][column].
type Homography [3][3]float64

// NewHomography creates a Homography from a row major slice of 9 values.
func NewHomography(vals []float64) (*Homography, error) {
	if len(vals) != 9 {
		return nil, errors.Errorf("input to NewHomography must have length of 9. Has length of %d", len(vals))
	}
	var h Homography
	for i, v := range vals {
		h[i/3][i%3] = v
	}
	return &h, nil
}

// NewIdentityHomography returns the homography that maps every point to itself.
func NewIdentityHomography() *Homography {
	return &Homography{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// At returns the value of the homography at the given row and column.
func (h *Homography) At(row, col int) float64 {
	return h[row][col]
}

// Apply maps pt through the homography. A vanishing homogeneous coordinate maps to the origin.
func (h *Homography) Apply(pt r2.Point) r2.Point {
	x := h.At(0, 0)*pt.X + h.At(0, 1)*pt.Y + h.At(0, 2)
	y := h.At(1, 0)*pt.X + h.At(1, 1)*pt.Y + h.At(1, 2)
	z := h.At(2, 0)*pt.X + h.At(2, 1)*pt.Y + h.At(2, 2)
	if spatialmath.NearZero(z) {
		return r2.Point{}
	}
	return r2.Point{X: x / z, Y: y / z}
}

// Inverse returns the inverse homography. The boolean is false when h is singular.
func (h *Homography) Inverse() (*Homography, bool) {
	dense := mat.NewDense(3, 3, []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	})
	if spatialmath.NearZero(mat.Det(dense)) {
		return NewIdentityHomography(), false
	}
	var inv mat.Dense
	if err := inv.Inverse(dense); err != nil {
		return NewIdentityHomography(), false
	}
	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = inv.At(r, c)
		}
	}
	return &out, true
}

// Matrix4 embeds the homography into a 4x4 matrix acting on 2D points carried as (x, y, 0, w).
func (h *Homography) Matrix4() spatialmath.Matrix4 {
	return spatialmath.NewHomographyMatrix4(*h)
}

// unitSquare lists the corners (0,0), (0,1), (1,1), (1,0) in the order the homography solve uses.
var unitSquare = [4]r2.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}

// ViewToWorld back-projects the normalized view coordinate through the inverse of
// projection·view onto the plane at normalized depth `distance` (0 is the near plane, 1 the far
// plane). A vanishing homogeneous coordinate yields the zero vector.
func ViewToWorld(viewPosition r2.Point, view, projection spatialmath.Matrix4, distance float64) r3.Vector {
	viewProjectionInverted, ok := projection.Mul(view).Inverse()
	if !ok {
		return r3.Vector{}
	}
	result := viewProjectionInverted.Apply([4]float64{
		viewPosition.X*2 - 1,
		viewPosition.Y*2 - 1,
		distance*2 - 1,
		1,
	})
	if spatialmath.NearZero(result[3]) {
		return r3.Vector{}
	}
	return r3.Vector{X: result[0] / result[3], Y: result[1] / result[3], Z: result[2] / result[3]}
}

// WorldToView projects a world position to normalized view coordinates. A vanishing homogeneous
// coordinate yields the origin.
func WorldToView(worldPosition r3.Vector, view, projection spatialmath.Matrix4) r2.Point {
	projected := projection.Mul(view).Apply([4]float64{worldPosition.X, worldPosition.Y, worldPosition.Z, 1})
	if spatialmath.NearZero(projected[3]) {
		return r2.Point{}
	}
	return r2.Point{
		X: projected[0]/projected[3]*0.5 + 0.5,
		Y: projected[1]/projected[3]*0.5 + 0.5,
	}
}

// SolveUnitSquareHomography returns the homography carrying the unit square corners (0,0),
// (0,1), (1,1), (1,0) onto p00, p01, p11, p10. The boolean is false when the corners are
// degenerate (three of them collinear), in which case the identity is returned.
func SolveUnitSquareHomography(p00, p01, p11, p10 r2.Point) (*Homography, bool) {
	a := p10.X - p11.X
	b := p01.X - p11.X
	c := p00.X - p01.X - p10.X + p11.X
	d := p10.Y - p11.Y
	e := p01.Y - p11.Y
	f := p00.Y - p01.Y - p10.Y + p11.Y

	den := b*d - a*e
	if spatialmath.NearZero(den) {
		return NewIdentityHomography(), false
	}
	g := (c*d - a*f) / den
	h := (c*e - b*f) / -den

	return &Homography{
		{p10.X - p00.X + h*p10.X, p01.X - p00.X + g*p01.X, p00.X},
		{p10.Y - p00.Y + h*p10.Y, p01.Y - p00.Y + g*p01.Y, p00.Y},
		{h, g, 1},
	}, true
}

// CalculateHomography returns a projective transform from normalized coordinates in the target
// pose's image to normalized coordinates in the reference pose's image. The unit square corners
// of the reference image are back-projected onto the plane at normalized depth
// `backProjectionDistance` and re-projected into the target. The boolean is false when the solve
// degenerated and the identity was returned.
func CalculateHomography(
	referencePose, targetPose, projection spatialmath.Matrix4,
	backProjectionDistance float64,
) (spatialmath.Matrix4, bool) {
	var projected [4]r2.Point
	for i, corner := range unitSquare {
		world := ViewToWorld(corner, referencePose, projection, backProjectionDistance)
		projected[i] = WorldToView(world, targetPose, projection)
	}

	forward, ok := SolveUnitSquareHomography(projected[0], projected[1], projected[2], projected[3])
	if !ok {
		return spatialmath.NewIdentityMatrix4(), false
	}
	inverse, ok := forward.Inverse()
	if !ok {
		return spatialmath.NewIdentityMatrix4(), false
	}
	return inverse.Matrix4(), true
}
