package blend

import (
	"math"

	"avatar-retarget/internal/registry"
	"avatar-retarget/internal/skeleton"
)

// axisBias sets selected Euler components of one joint, leaving the rest.
type axisBias struct {
	aliases []string
	x, z    *float64
}

func ptr(v float64) *float64 { return &v }

// restBias pulls the arms slightly away from the torso and bends the
// elbows before any motion data arrives.
var restBias = []axisBias{
	{aliases: LeftUpperArm, x: ptr(-math.Pi / 8), z: ptr(math.Pi / 6)},
	{aliases: RightUpperArm, x: ptr(-math.Pi / 8), z: ptr(-math.Pi / 6)},
	{aliases: LeftForeArm, x: ptr(-math.Pi / 6)},
	{aliases: RightForeArm, x: ptr(-math.Pi / 6)},
}

// ApplyRestBias applies the rest-pose offsets once, on a freshly installed
// skeleton. It returns the biased bones.
func ApplyRestBias(reg *registry.Registry) []*skeleton.Bone {
	var biased []*skeleton.Bone
	for _, b := range restBias {
		bone, ok := reg.Lookup(b.aliases...)
		if !ok {
			continue
		}
		e := bone.Euler()
		if b.x != nil {
			e[0] = *b.x
		}
		if b.z != nil {
			e[2] = *b.z
		}
		bone.SetEuler(e)
		biased = append(biased, bone)
	}
	return biased
}
