package raster

import (
	"image"
	"image/color"
	"math"

	"avatar-retarget/internal/camera"
	"avatar-retarget/internal/mathutil"
)

// Pose is a captured skeleton pose, detached from the live skeleton so it
// can be rendered on another goroutine.
type Pose struct {
	Joints  []mathutil.Vec3 // world-space joint origins
	Parents []int           // parent index per joint, -1 for roots
	Colors  []color.NRGBA   // per joint; used for the bone ending at that joint
}

// DefaultBoneColor is used when a pose carries no per-joint colors.
var DefaultBoneColor = color.NRGBA{160, 160, 170, 255}

// Octahedral bone: head, tail and a ring of four points near the head.
var boneFaces = [8][3]int{
	{0, 2, 3}, {0, 3, 4}, {0, 4, 5}, {0, 5, 2},
	{1, 3, 2}, {1, 4, 3}, {1, 5, 4}, {1, 2, 5},
}

const (
	boneRingAt     = 0.12 // ring position along the bone
	boneRadiusRate = 0.12 // ring radius as a fraction of bone length
	boneRadiusMin  = 0.004
	boneRadiusMax  = 0.05
)

func boneMesh(head, tail mathutil.Vec3) ([6]mathutil.Vec3, bool) {
	dir := tail.Sub(head)
	length := dir.Len()
	if length < 1e-6 {
		return [6]mathutil.Vec3{}, false
	}
	axis := dir.Scale(1 / length)

	ref := mathutil.Vec3{0, 1, 0}
	if math.Abs(axis[1]) > 0.9 {
		ref = mathutil.Vec3{1, 0, 0}
	}
	a := axis.Cross(ref).Normalize()
	b := axis.Cross(a).Normalize()

	r := mathutil.Clamp(length*boneRadiusRate, boneRadiusMin, boneRadiusMax)
	ring := head.Add(dir.Scale(boneRingAt))
	return [6]mathutil.Vec3{
		head,
		tail,
		ring.Add(a.Scale(r)),
		ring.Add(b.Scale(r)),
		ring.Sub(a.Scale(r)),
		ring.Sub(b.Scale(r)),
	}, true
}

// RenderPose draws every parent→child bone of p as a shaded octahedron
// seen through cam, at width×height times supersample. The background is
// transparent.
func RenderPose(p Pose, cam camera.Camera, width, height, supersample int) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	vp := camera.Viewport{Width: width * supersample, Height: height * supersample}
	fb := NewFrameBuffer(vp.Width, vp.Height)
	lc := DefaultLightConfig()

	proj := cam.Projector(vp)
	view := cam.View()
	viewRot := view.Linear()

	for i, parent := range p.Parents {
		if parent < 0 || parent >= len(p.Joints) || i >= len(p.Joints) {
			continue
		}
		verts, ok := boneMesh(p.Joints[parent], p.Joints[i])
		if !ok {
			continue
		}

		var projected [6]Vertex
		visible := true
		for k, v := range verts {
			sx, sy, depth, ok := proj.Project(v)
			if !ok {
				visible = false
				break
			}
			projected[k] = Vertex{X: sx, Y: sy, Z: depth}
		}
		if !visible {
			continue
		}

		base := DefaultBoneColor
		if i < len(p.Colors) {
			base = p.Colors[i]
		}

		for _, f := range boneFaces {
			v0, v1, v2 := verts[f[0]], verts[f[1]], verts[f[2]]
			n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
			shade := lc.ComputeShade(viewRot.MulVec3(n))
			r, g, b := lc.shadeColor(base.R, base.G, base.B, shade)
			RasterizeTriangle(fb, projected[f[0]], projected[f[1]], projected[f[2]], r, g, b)
		}
	}

	return fb.Image()
}
