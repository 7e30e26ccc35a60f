package mathutil

import "math"

// Thresholds shared by the quaternion and Euler conversions.
const (
	// GimbalLimit is the |m13| above which Euler XYZ extraction treats the
	// Y axis as locked at ±90°.
	GimbalLimit = 0.9999999

	// SlerpLinearThreshold is the squared sine below which slerp falls back
	// to a normalized linear blend.
	SlerpLinearThreshold = 1e-12
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp returns a + (b-a)·t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
