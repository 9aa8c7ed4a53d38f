package spatialmath

import "math"

// floatEpsilon is the tolerance used for "approximately zero" comparisons of homogeneous
// denominators.
const floatEpsilon = 1e-9

// NearZero reports whether v is within floatEpsilon of zero.
func NearZero(v float64) bool {
	return math.Abs(v) < floatEpsilon
}
