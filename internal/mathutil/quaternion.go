package mathutil

import "math"

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity is the no-rotation quaternion.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// EulerToQuat converts Euler XYZ (radians) to a quaternion.
func EulerToQuat(rx, ry, rz float64) Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return Quat{
		sx*cy*cz + cx*sy*sz, // x
		cx*sy*cz - sx*cy*sz, // y
		cx*cy*sz + sx*sy*cz, // z
		cx*cy*cz - sx*sy*sz, // w
	}
}

// QuatFromEuler converts an Euler value to a quaternion.
func QuatFromEuler(e Euler) Quat {
	return EulerToQuat(e[0], e[1], e[2])
}

// QuatToMat3 converts a quaternion to a 3×3 rotation matrix.
func QuatToMat3(q Quat) Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// Euler returns the XYZ Euler angles of q.
func (q Quat) Euler() Euler {
	return EulerFromMat3(QuatToMat3(q.Normalize()))
}

func (q Quat) Dot(r Quat) float64 {
	return q[0]*r[0] + q[1]*r[1] + q[2]*r[2] + q[3]*r[3]
}

func (q Quat) Len() float64 {
	return math.Sqrt(q.Dot(q))
}

// Normalize returns q scaled to unit length. A zero quaternion becomes identity.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l < 1e-12 {
		return QuatIdentity()
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// Mul returns the Hamilton product q × r (apply r, then q).
func (q Quat) Mul(r Quat) Quat {
	qx, qy, qz, qw := q[0], q[1], q[2], q[3]
	rx, ry, rz, rw := r[0], r[1], r[2], r[3]
	return Quat{
		qx*rw + qw*rx + qy*rz - qz*ry,
		qy*rw + qw*ry + qz*rx - qx*rz,
		qz*rw + qw*rz + qx*ry - qy*rx,
		qw*rw - qx*rx - qy*ry - qz*rz,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// AngleTo returns the rotation angle in radians between q and r, in [0, π].
func (q Quat) AngleTo(r Quat) float64 {
	d := math.Abs(q.Normalize().Dot(r.Normalize()))
	return 2 * math.Acos(Clamp(d, -1, 1))
}

// Slerp interpolates from q toward r by t along the shortest arc.
func (q Quat) Slerp(r Quat, t float64) Quat {
	if t <= 0 {
		return q
	}
	if t >= 1 {
		return r
	}

	cosHalf := q.Dot(r)
	if cosHalf < 0 {
		r = Quat{-r[0], -r[1], -r[2], -r[3]}
		cosHalf = -cosHalf
	}
	if cosHalf >= 1 {
		return q
	}

	sqrSin := 1 - cosHalf*cosHalf
	if sqrSin <= SlerpLinearThreshold {
		s := 1 - t
		return Quat{
			s*q[0] + t*r[0],
			s*q[1] + t*r[1],
			s*q[2] + t*r[2],
			s*q[3] + t*r[3],
		}.Normalize()
	}

	sinHalf := math.Sqrt(sqrSin)
	halfTheta := math.Atan2(sinHalf, cosHalf)
	ra := math.Sin((1-t)*halfTheta) / sinHalf
	rb := math.Sin(t*halfTheta) / sinHalf

	return Quat{
		q[0]*ra + r[0]*rb,
		q[1]*ra + r[1]*rb,
		q[2]*ra + r[2]*rb,
		q[3]*ra + r[3]*rb,
	}
}
