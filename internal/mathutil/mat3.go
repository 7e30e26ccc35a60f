package mathutil

// Mat3 is a row-major rotation matrix. Bone orientations and camera bases
// pass through it on their way into a Mat4.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mat3FromRows stacks three row vectors, e.g. a camera's right, up and
// back axes into a world→camera rotation.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		r0[0], r0[1], r0[2],
		r1[0], r1[1], r1[2],
		r2[0], r2[1], r2[2],
	}
}

// Row returns row r (0..2).
func (m Mat3) Row(r int) Vec3 {
	return Vec3{m[3*r], m[3*r+1], m[3*r+2]}
}

// Column returns column c (0..2), e.g. a rotated basis axis.
func (m Mat3) Column(c int) Vec3 {
	return Vec3{m[c], m[3+c], m[6+c]}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		row := a.Row(r)
		for c := 0; c < 3; c++ {
			m[3*r+c] = row.Dot(b.Column(c))
		}
	}
	return m
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

// Transpose is the inverse of a pure rotation.
func (m Mat3) Transpose() Mat3 {
	return Mat3FromRows(m.Column(0), m.Column(1), m.Column(2))
}
