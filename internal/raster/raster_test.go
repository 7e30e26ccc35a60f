package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-retarget/internal/camera"
	"avatar-retarget/internal/mathutil"
	"avatar-retarget/internal/skeleton"
)

func TestRasterizeTriangleDepthTest(t *testing.T) {
	t.Parallel()
	fb := NewFrameBuffer(16, 16)
	a, b, c := Vertex{X: 0, Y: 0}, Vertex{X: 16, Y: 0}, Vertex{X: 0, Y: 16}

	far := func(z float64) (Vertex, Vertex, Vertex) {
		a.Z, b.Z, c.Z = z, z, z
		return a, b, c
	}

	v0, v1, v2 := far(-5)
	RasterizeTriangle(fb, v0, v1, v2, 255, 0, 0)
	require.Positive(t, fb.Coverage())
	assert.Equal(t, uint8(255), fb.Color[0])

	v0, v1, v2 = far(-2)
	RasterizeTriangle(fb, v0, v1, v2, 0, 0, 255)
	assert.Equal(t, uint8(255), fb.Color[2], "nearer triangle wins")

	v0, v1, v2 = far(-9)
	RasterizeTriangle(fb, v0, v1, v2, 0, 255, 0)
	assert.Equal(t, uint8(0), fb.Color[1], "farther triangle is hidden")

	// Bottom-right corner lies outside the triangle.
	assert.Zero(t, fb.Color[(15*16+15)*4+3])
}

func TestRasterizeDegenerateAndOffscreen(t *testing.T) {
	t.Parallel()
	fb := NewFrameBuffer(8, 8)
	RasterizeTriangle(fb, Vertex{X: 1, Y: 1}, Vertex{X: 4, Y: 4}, Vertex{X: 7, Y: 7}, 255, 255, 255)
	RasterizeTriangle(fb, Vertex{X: -30, Y: -30}, Vertex{X: -20, Y: -30}, Vertex{X: -30, Y: -20}, 255, 255, 255)
	assert.Zero(t, fb.Coverage())
}

func TestRenderPose(t *testing.T) {
	t.Parallel()
	sk := skeleton.Humanoid(skeleton.DefaultPrefix)
	root := mathutil.Mat4Translate(mathutil.Vec3{0, -0.9, 0})
	pose := Pose{Joints: skeleton.JointPositions(skeleton.BuildWorldMatrices(sk, root)), Parents: make([]int, sk.Len())}
	for i, b := range sk.Bones() {
		pose.Parents[i] = b.Parent
	}

	cam := camera.Camera{
		Position: mathutil.Vec3{0, 0.1, 4},
		Target:   mathutil.Vec3{0, 0.1, 0},
		Up:       mathutil.Vec3{0, 1, 0},
		FOV:      28,
		Near:     0.01,
	}

	img := RenderPose(pose, cam, 64, 80, 2)
	require.Equal(t, 128, img.Bounds().Dx())
	require.Equal(t, 160, img.Bounds().Dy())

	opaque := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			opaque++
		}
	}
	assert.Positive(t, opaque)
	assert.Less(t, opaque, 128*160/2, "background stays transparent")

	empty := RenderPose(Pose{}, cam, 32, 32, 1)
	for i := 3; i < len(empty.Pix); i += 4 {
		require.Zero(t, empty.Pix[i])
	}
}

func TestRenderPoseUsesBoneColors(t *testing.T) {
	t.Parallel()
	pose := Pose{
		Joints:  []mathutil.Vec3{{0, -0.5, 0}, {0, 0.5, 0}},
		Parents: []int{-1, 0},
		Colors:  []color.NRGBA{{}, {255, 0, 0, 255}},
	}
	cam := camera.Camera{Position: mathutil.Vec3{0, 0, 3}, Up: mathutil.Vec3{0, 1, 0}, FOV: 40}
	img := RenderPose(pose, cam, 48, 48, 1)

	red := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] != 0 && img.Pix[i] > img.Pix[i+1] && img.Pix[i] > img.Pix[i+2] {
			red++
		}
	}
	assert.Positive(t, red)
}

func TestToneAndShade(t *testing.T) {
	t.Parallel()
	assert.Zero(t, ACESTonemap(0))
	assert.Less(t, ACESTonemap(0.5), ACESTonemap(1))
	assert.InDelta(t, 2.51/2.43, ACESTonemap(1e9), 1e-6)

	lc := DefaultLightConfig()
	facing := lc.ComputeShade(mathutil.Vec3{0, 0, 1})
	away := lc.ComputeShade(mathutil.Vec3{0, 0, -1})
	assert.InDelta(t, facing, away, 1e-12, "faces are lit from both sides")
	assert.Greater(t, lc.ComputeShade(lc.KeyDir), lc.Ambient+lc.Key)
}
