package raster

import (
	"math"

	"avatar-retarget/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in
// camera space (X right, Y up, Z toward the viewer).
type LightConfig struct {
	KeyDir   mathutil.Vec3
	FillDir  mathutil.Vec3
	BackDir  mathutil.Vec3
	HalfKey  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient  float64
	Key      float64
	Fill     float64
	Back     float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig is a three-point studio rig: key from upper right,
// softer fill from the left, a back light for separation.
func DefaultLightConfig() LightConfig {
	keyDir := mathutil.Vec3{2, 4, 3}.Normalize()
	fillDir := mathutil.Vec3{-2, 3, 2}.Normalize()
	backDir := mathutil.Vec3{0, 2, -3}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		KeyDir:   keyDir,
		FillDir:  fillDir,
		BackDir:  backDir,
		HalfKey:  keyDir.Add(viewDir).Normalize(),
		Ambient:  0.6,
		Key:      1.2,
		Fill:     0.6,
		Back:     0.4,
		SpecInt:  0.35,
		SpecPow:  16.0,
		Exposure: 1.1,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a camera-space
// face normal. Faces are lit double-sided.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	key := math.Abs(normal.Dot(lc.KeyDir))
	fill := math.Abs(normal.Dot(lc.FillDir))
	back := math.Abs(normal.Dot(lc.BackDir))

	ndh := math.Abs(normal.Dot(lc.HalfKey))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + key*lc.Key + fill*lc.Fill + back*lc.Back + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadeColor lights an sRGB color and returns the tone-mapped sRGB result.
func (lc *LightConfig) shadeColor(r, g, b uint8, shade float64) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	tr := ACESTonemap(srgbToLinear[r] * k)
	tg := ACESTonemap(srgbToLinear[g] * k)
	tb := ACESTonemap(srgbToLinear[b] * k)
	return clamp255(math.Pow(tr, lc.InvGamma) * 255),
		clamp255(math.Pow(tg, lc.InvGamma) * 255),
		clamp255(math.Pow(tb, lc.InvGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
