package mathutil

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Euler is an XYZ-order rotation in radians: the rotation matrix is
// Rx · Ry · Rz, the same convention three.js uses for Object3D.rotation.
type Euler [3]float64

// EulerFromMat3 extracts XYZ Euler angles from a pure rotation matrix.
func EulerFromMat3(m Mat3) Euler {
	m11, m12, m13 := m[0], m[1], m[2]
	m22, m23 := m[4], m[5]
	m32, m33 := m[7], m[8]

	y := math.Asin(Clamp(m13, -1, 1))
	if math.Abs(m13) < GimbalLimit {
		return Euler{math.Atan2(-m23, m33), y, math.Atan2(-m12, m11)}
	}
	// Gimbal lock: fold Z into X
	return Euler{math.Atan2(m32, m22), y, 0}
}

// Mat3 returns the rotation matrix Rx · Ry · Rz.
func (e Euler) Mat3() Mat3 {
	return Mat3Mul(Mat3Mul(RotX(e[0]), RotY(e[1])), RotZ(e[2]))
}
