package blend

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-retarget/internal/mathutil"
	"avatar-retarget/internal/registry"
	"avatar-retarget/internal/skeleton"
	"avatar-retarget/internal/timeline"
)

func flatRig(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	bones := make([]skeleton.Bone, len(names))
	for i, n := range names {
		bones[i] = skeleton.Bone{Name: n, Parent: -1}
	}
	sk, err := skeleton.New("flat", bones)
	require.NoError(t, err)
	return registry.Build(sk, registry.Options{})
}

func TestDefaultPolicyRates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		canonical string
		rate      float64
		limited   bool
	}{
		{"righthand", RateRightHand, false},
		{"righthandindex1", RateRightHand, false},
		{"rightfinger2", RateRightHand, false},
		{"lefthand", RateLeftHand, false},
		{"lefthandpinky3", RateLeftHand, false},
		{"spine", RateBody, false},
		{"head", RateBody, false},
		{"leftforearm", RateBody, false},
		{"leftupperarm", RateBody, true},
		{"rightarm", RateBody, true},
	}
	for _, tc := range tests {
		rule := DefaultPolicy(tc.canonical)
		assert.Equal(t, tc.rate, rule.Rate, tc.canonical)
		assert.Equal(t, tc.limited, rule.Limit != nil, tc.canonical)
	}
	assert.Equal(t, Left, SideOf("leftfoot"))
	assert.Equal(t, Right, SideOf("rightshoulder"))
	assert.Equal(t, Center, SideOf("hips"))
}

func TestPrefixedHandsUseCanonicalRate(t *testing.T) {
	t.Parallel()
	reg := flatRig(t, "mixamorig_RightHand", "mixamorig_LeftHand")
	b := NewBlender(nil)
	f := &timeline.Frame{Bones: map[string]timeline.Rotation{
		"mixamorig_RightHand": {0, 0, 1},
		"mixamorig_LeftHand":  {0, 0, 1},
	}}
	require.Equal(t, 2, b.Apply(f, reg))

	right, _ := reg.Resolve("righthand")
	left, _ := reg.Resolve("lefthand")
	assert.InDelta(t, RateRightHand, right.Euler()[2], 1e-9)
	assert.InDelta(t, RateLeftHand, left.Euler()[2], 1e-9)
}

func TestAliasesOfOneBoneBlendOnce(t *testing.T) {
	t.Parallel()
	reg := flatRig(t, "mixamorig_LeftArm")
	bone, ok := reg.Resolve("leftarm")
	require.True(t, ok)

	b := NewBlender(nil)
	f := &timeline.Frame{Bones: map[string]timeline.Rotation{
		"LeftArm":           {0, 0, 1},
		"mixamorig_LeftArm": {0, 0, 1},
		"leftarm":           {0, 0, 1},
	}}
	assert.Equal(t, 1, b.Apply(f, reg))
	assert.InDelta(t, RateBody, bone.Euler()[2], 1e-9)

	// Sorted order decides which alias is used when their targets differ.
	bone.Rotation = mathutil.QuatIdentity()
	f.Bones["LeftArm"] = timeline.Rotation{0, 0, -1}
	require.Equal(t, 1, b.Apply(f, reg))
	assert.InDelta(t, -RateBody, bone.Euler()[2], 1e-9)
}

func TestConvergence(t *testing.T) {
	t.Parallel()
	reg := flatRig(t, "mixamorig_LeftUpperArm")
	bone, ok := reg.Resolve("leftupperarm")
	require.True(t, ok)

	b := NewBlender(nil)
	f := &timeline.Frame{Bones: map[string]timeline.Rotation{"mixamorig_LeftUpperArm": {0, 0, 1.0}}}
	target := mathutil.EulerToQuat(0, 0, 1.0)

	for i := 1; i <= 60; i++ {
		b.Apply(f, reg)
		if i == 40 {
			assert.InDelta(t, math.Pow(1-RateBody, 40), bone.Rotation.AngleTo(target), 1e-9)
		}
	}
	assert.InDelta(t, 1.0, bone.Euler()[2], 1e-3)
}

func TestMonotonicWithoutOvershoot(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"Spine", "RightHand", "LeftHand"} {
		reg := flatRig(t, name)
		bone, _ := reg.Resolve(name)
		rate := DefaultPolicy(reg.CanonicalOf(bone)).Rate

		b := NewBlender(nil)
		target := mathutil.EulerToQuat(0.4, -0.3, 0.9)
		f := &timeline.Frame{Bones: map[string]timeline.Rotation{name: {0.4, -0.3, 0.9}}}

		prev := bone.Rotation.AngleTo(target)
		for i := 0; i < 100; i++ {
			b.Apply(f, reg)
			cur := bone.Rotation.AngleTo(target)
			require.LessOrEqual(t, cur, prev+1e-7, "%s tick %d", name, i)
			require.InDelta(t, prev*(1-rate), cur, 1e-7, "%s tick %d", name, i)
			prev = cur
		}
	}
}

func TestApplyNoOps(t *testing.T) {
	t.Parallel()
	reg := flatRig(t, "Spine")
	bone, _ := reg.Resolve("Spine")
	before := bone.Rotation
	b := NewBlender(nil)

	assert.Zero(t, b.Apply(nil, reg))
	assert.Zero(t, b.Apply(&timeline.Frame{}, reg))
	assert.Zero(t, b.Apply(&timeline.Frame{Bones: map[string]timeline.Rotation{"Tail": {1, 1, 1}}}, reg))
	assert.Zero(t, b.Apply(&timeline.Frame{Bones: map[string]timeline.Rotation{"Spine": {1, 0, 0}}}, nil))
	assert.Equal(t, before, bone.Rotation)
}

func TestHeadPitch(t *testing.T) {
	t.Parallel()
	reg := flatRig(t, "mixamorigHead")
	head, _ := reg.Resolve("head")
	b := NewBlender(nil)

	b.Apply(&timeline.Frame{Face: &timeline.Face{HeadPitch: 0.25}}, reg)
	assert.InDelta(t, 0.025, head.Euler()[0], 1e-12)

	b.Apply(&timeline.Frame{Face: &timeline.Face{HeadPitch: 0.25}}, reg)
	assert.InDelta(t, 0.025+0.0225, head.Euler()[0], 1e-12)

	// A face without head_pitch pulls toward zero.
	b.Apply(&timeline.Frame{Face: &timeline.Face{}}, reg)
	assert.InDelta(t, 0.0475*0.9, head.Euler()[0], 1e-12)
}

func TestLimiterRange(t *testing.T) {
	t.Parallel()
	reg := flatRig(t, "mixamorig_LeftArm", "mixamorig_RightUpperArm", "mixamorig_LeftForeArm")
	l := NewLimiter(nil)
	rng := rand.New(rand.NewPCG(5, 9))

	left, _ := reg.Resolve("leftarm")
	right, _ := reg.Resolve("rightupperarm")
	fore, _ := reg.Resolve("leftforearm")

	for i := 0; i < 500; i++ {
		for _, bone := range []*skeleton.Bone{left, right, fore} {
			bone.SetEuler(mathutil.Euler{rng.Float64()*6 - 3, rng.Float64()*3 - 1.5, rng.Float64()*6 - 3})
		}
		foreBefore := fore.Rotation
		l.Clamp(reg)
		for _, bone := range []*skeleton.Bone{left, right} {
			e := bone.Euler()
			require.True(t, e[1] >= -0.5-1e-9 && e[1] <= 0.5+1e-9, "y=%v", e[1])
			require.True(t, e[2] >= -0.7-1e-9 && e[2] <= 0.7+1e-9, "z=%v", e[2])
		}
		require.Equal(t, foreBefore, fore.Rotation)
	}
}

func TestLimiterLeavesInRangeBones(t *testing.T) {
	t.Parallel()
	reg := flatRig(t, "LeftUpperArm")
	bone, _ := reg.Resolve("LeftUpperArm")
	bone.SetEuler(mathutil.Euler{0.2, 0.3, -0.6})
	before := bone.Rotation

	assert.Zero(t, NewLimiter(nil).Clamp(reg))
	assert.Equal(t, before, bone.Rotation)

	bone.SetEuler(mathutil.Euler{0, 0, 1.0})
	assert.Equal(t, 1, NewLimiter(nil).Clamp(reg))
	assert.InDelta(t, 0.7, bone.Euler()[2], 1e-9)
}

func TestRestBias(t *testing.T) {
	t.Parallel()
	sk := skeleton.Humanoid(skeleton.DefaultPrefix)
	reg := registry.Build(sk, registry.Options{})

	biased := ApplyRestBias(reg)
	require.Len(t, biased, 4)

	check := func(name string, want mathutil.Euler) {
		t.Helper()
		bone, ok := reg.Resolve(name)
		require.True(t, ok, name)
		got := bone.Euler()
		for k := range want {
			assert.InDelta(t, want[k], got[k], 1e-9, "%s axis %d", name, k)
		}
	}
	check("LeftArm", mathutil.Euler{-math.Pi / 8, 0, math.Pi / 6})
	check("RightArm", mathutil.Euler{-math.Pi / 8, 0, -math.Pi / 6})
	check("LeftForeArm", mathutil.Euler{-math.Pi / 6, 0, 0})
	check("RightForeArm", mathutil.Euler{-math.Pi / 6, 0, 0})

	// Rigs without arms are left alone.
	assert.Empty(t, ApplyRestBias(flatRig(t, "Hips")))
}
