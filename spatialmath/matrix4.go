package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Matrix4 is a row major 4x4 matrix acting on column vectors: p' = M·p. Translation lives in
// column 3 and the projective (homogeneous) row is row 3.
type Matrix4 [4][4]float64

// maxConditionNumber bounds how ill-conditioned a matrix may be before Inverse reports failure.
const maxConditionNumber = 1e14

// NewIdentityMatrix4 returns the 4x4 identity.
func NewIdentityMatrix4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// NewTranslationMatrix4 returns a matrix translating points by (x, y, z).
func NewTranslationMatrix4(x, y, z float64) Matrix4 {
	m := NewIdentityMatrix4()
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

// NewScaleMatrix4 returns a matrix scaling each axis independently.
func NewScaleMatrix4(x, y, z float64) Matrix4 {
	m := NewIdentityMatrix4()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

// NewRotationZMatrix4 returns a counter clockwise rotation of `rad` radians about the Z axis.
func NewRotationZMatrix4(rad float64) Matrix4 {
	sin, cos := math.Sincos(rad)
	m := NewIdentityMatrix4()
	m[0][0], m[0][1] = cos, -sin
	m[1][0], m[1][1] = sin, cos
	return m
}

// NewRotationMatrix4FromQuat returns the rotation described by the unit quaternion q.
func NewRotationMatrix4FromQuat(q quat.Number) Matrix4 {
	n := quat.Abs(q)
	if n == 0 {
		return NewIdentityMatrix4()
	}
	w, x, y, z := q.Real/n, q.Imag/n, q.Jmag/n, q.Kmag/n
	return Matrix4{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), 0},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), 0},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), 0},
		{0, 0, 0, 1},
	}
}

// NewPoseMatrix4 returns the rigid transform that rotates by q and then translates by t.
func NewPoseMatrix4(t r3.Vector, q quat.Number) Matrix4 {
	m := NewRotationMatrix4FromQuat(q)
	m[0][3], m[1][3], m[2][3] = t.X, t.Y, t.Z
	return m
}

// NewPerspectiveMatrix4 returns an OpenGL style projection: the camera looks down -Z and view
// space depths in [near, far] map to clip space z in [-1, 1]. fovY is the vertical field of
// view in radians and aspect is width/height.
func NewPerspectiveMatrix4(fovY, aspect, near, far float64) Matrix4 {
	return NewMatrix4FromMgl(mgl64.Perspective(fovY, aspect, near, far))
}

// NewMatrix4FromMgl converts a column major mathgl matrix.
func NewMatrix4FromMgl(m mgl64.Mat4) Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

// NewHomographyMatrix4 embeds a 3x3 planar homography into the x, y, w rows and columns, so 2D
// points carried as (x, y, 0, w) are mapped projectively while z passes through.
func NewHomographyMatrix4(h [3][3]float64) Matrix4 {
	idx := [3]int{0, 1, 3}
	m := NewIdentityMatrix4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[idx[r]][idx[c]] = h[r][c]
		}
	}
	return m
}

// Mul returns m·o. Applied to a point, o acts first.
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = m[r][0]*o[0][c] + m[r][1]*o[1][c] + m[r][2]*o[2][c] + m[r][3]*o[3][c]
		}
	}
	return out
}

// Compose multiplies the matrices left to right, so the last one is applied to points first.
func Compose(ms ...Matrix4) Matrix4 {
	out := NewIdentityMatrix4()
	for _, m := range ms {
		out = out.Mul(m)
	}
	return out
}

// Transpose returns the transpose of m.
func (m Matrix4) Transpose() Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c][r] = m[r][c]
		}
	}
	return out
}

func (m Matrix4) dense() *mat.Dense {
	data := make([]float64, 0, 16)
	for r := 0; r < 4; r++ {
		data = append(data, m[r][:]...)
	}
	return mat.NewDense(4, 4, data)
}

// Inverse returns the inverse of m. The boolean is false if m is singular or too ill-conditioned
// to invert reliably, in which case the returned matrix is the identity.
func (m Matrix4) Inverse() (Matrix4, bool) {
	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) || float64(cond) > maxConditionNumber {
			return NewIdentityMatrix4(), false
		}
	}

	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = inv.At(r, c)
		}
	}
	if !out.IsFinite() {
		return NewIdentityMatrix4(), false
	}
	return out, true
}

// NegateRow returns a copy of m with every element of row i negated. Negating row 1 of a view
// matrix flips the vertical axis of view space; negating row 2 flips the forward axis.
func (m Matrix4) NegateRow(i int) Matrix4 {
	for c := 0; c < 4; c++ {
		m[i][c] = -m[i][c]
	}
	return m
}

// Apply multiplies m by the homogeneous column vector v.
func (m Matrix4) Apply(v [4]float64) [4]float64 {
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2] + m[r][3]*v[3]
	}
	return out
}

// MultiplyPoint transforms p as (x, y, z, 1) and divides by the resulting w. A vanishing w
// leaves the undivided coordinates.
func (m Matrix4) MultiplyPoint(p r3.Vector) r3.Vector {
	out := m.Apply([4]float64{p.X, p.Y, p.Z, 1})
	if NearZero(out[3]) {
		return r3.Vector{X: out[0], Y: out[1], Z: out[2]}
	}
	return r3.Vector{X: out[0] / out[3], Y: out[1] / out[3], Z: out[2] / out[3]}
}

// MultiplyPoint3x4 transforms p by the affine part of m only.
func (m Matrix4) MultiplyPoint3x4(p r3.Vector) r3.Vector {
	out := m.Apply([4]float64{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: out[0], Y: out[1], Z: out[2]}
}

// Transform2D maps the normalized 2D point (u, v), carried as (u, v, 0, 1), and divides by w.
// A vanishing w maps the point to the origin.
func (m Matrix4) Transform2D(u, v float64) (float64, float64) {
	x := m[0][0]*u + m[0][1]*v + m[0][3]
	y := m[1][0]*u + m[1][1]*v + m[1][3]
	w := m[3][0]*u + m[3][1]*v + m[3][3]
	if NearZero(w) {
		return 0, 0
	}
	return x / w, y / w
}

// IsFinite reports whether every element of m is a finite number.
func (m Matrix4) IsFinite() bool {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if math.IsNaN(m[r][c]) || math.IsInf(m[r][c], 0) {
				return false
			}
		}
	}
	return true
}

// AlmostEqual reports whether every element of m is within tol of the matching element of o.
func (m Matrix4) AlmostEqual(o Matrix4, tol float64) bool {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if math.Abs(m[r][c]-o[r][c]) > tol {
				return false
			}
		}
	}
	return true
}
