// Package camera keeps a perspective camera framed on the animated subject
// and projects world points for the renderer.
package camera

import (
	"math"

	"avatar-retarget/internal/mathutil"
)

// Viewport is the render target size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width/height, or 0 for an empty viewport.
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 0
	}
	return float64(v.Width) / float64(v.Height)
}

// Camera is a look-at perspective camera. FOV is the vertical field of
// view in degrees.
type Camera struct {
	Position mathutil.Vec3
	Target   mathutil.Vec3
	Up       mathutil.Vec3
	FOV      float64
	Near     float64
}

// Default is the viewer's starting shot: head-and-shoulders on a
// standing figure, 28° vertical FOV.
func Default() Camera {
	return Camera{
		Position: mathutil.Vec3{0, 1.58, 2.15},
		Target:   mathutil.Vec3{0, 1.48, 0},
		Up:       mathutil.Vec3{0, 1, 0},
		FOV:      28,
		Near:     0.01,
	}
}

// Basis returns the camera's right, up and forward unit vectors.
func (c Camera) Basis() (right, up, forward mathutil.Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	if forward == (mathutil.Vec3{}) {
		forward = mathutil.Vec3{0, 0, -1}
	}
	worldUp := c.Up
	if worldUp == (mathutil.Vec3{}) {
		worldUp = mathutil.Vec3{0, 1, 0}
	}
	right = forward.Cross(worldUp).Normalize()
	if right == (mathutil.Vec3{}) {
		// Looking straight along Up
		right = forward.Cross(mathutil.Vec3{0, 0, 1}).Normalize()
	}
	up = right.Cross(forward)
	return right, up, forward
}

// View returns the world→camera matrix. The camera looks down -Z.
func (c Camera) View() mathutil.Mat4 {
	r, u, f := c.Basis()
	rot := mathutil.Mat3FromRows(r, u, f.Scale(-1))
	t := rot.MulVec3(c.Position).Scale(-1)
	return mathutil.FromMat3Translation(rot, t)
}

// Project maps a world point to pixel coordinates. depth is the
// camera-space Z (negative, larger is nearer). ok is false for points
// behind the near plane or an empty viewport.
func (c Camera) Project(p mathutil.Vec3, vp Viewport) (sx, sy, depth float64, ok bool) {
	return c.projectWith(c.View(), p, vp)
}

// Projector caches the view matrix for projecting many points.
type Projector struct {
	cam  Camera
	view mathutil.Mat4
	vp   Viewport
}

func (c Camera) Projector(vp Viewport) Projector {
	return Projector{cam: c, view: c.View(), vp: vp}
}

func (p Projector) Project(pt mathutil.Vec3) (sx, sy, depth float64, ok bool) {
	return p.cam.projectWith(p.view, pt, p.vp)
}

func (c Camera) projectWith(view mathutil.Mat4, p mathutil.Vec3, vp Viewport) (float64, float64, float64, bool) {
	aspect := vp.Aspect()
	if aspect == 0 {
		return 0, 0, 0, false
	}
	v := view.MulPoint(p)
	near := c.Near
	if near <= 0 {
		near = 1e-3
	}
	if v[2] > -near {
		return 0, 0, 0, false
	}
	focal := 1 / math.Tan(mathutil.Deg2Rad(c.FOV)/2)
	ndcX := focal / aspect * v[0] / -v[2]
	ndcY := focal * v[1] / -v[2]
	sx := (ndcX + 1) / 2 * float64(vp.Width)
	sy := (1 - ndcY) / 2 * float64(vp.Height)
	return sx, sy, v[2], true
}
