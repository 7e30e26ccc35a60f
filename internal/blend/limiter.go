package blend

import (
	"avatar-retarget/internal/registry"
)

// Alias groups for the joints the engine addresses by role. The first
// name that resolves wins, so both "UpperArm" rigs and Mixamo "Arm" rigs work.
var (
	LeftUpperArm  = []string{"LeftUpperArm", "LeftArm"}
	RightUpperArm = []string{"RightUpperArm", "RightArm"}
	LeftForeArm   = []string{"LeftForeArm", "LeftLowerArm"}
	RightForeArm  = []string{"RightForeArm", "RightLowerArm"}
)

// Limiter clamps a fixed set of joints after blending. It is not an IK
// solver: it only pulls Euler angles back into range.
type Limiter struct {
	Policy Policy
	Joints [][]string
}

// NewLimiter limits both upper arms using policy, or DefaultPolicy when nil.
func NewLimiter(policy Policy) *Limiter {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Limiter{
		Policy: policy,
		Joints: [][]string{LeftUpperArm, RightUpperArm},
	}
}

// Clamp applies each joint's Limit and returns how many joints were changed.
func (l *Limiter) Clamp(reg *registry.Registry) int {
	changed := 0
	for _, aliases := range l.Joints {
		bone, ok := reg.Lookup(aliases...)
		if !ok {
			continue
		}
		rule := l.Policy(reg.CanonicalOf(bone))
		if rule.Limit == nil {
			continue
		}
		e := bone.Euler()
		if rule.Limit.Y.Contains(e[1]) && rule.Limit.Z.Contains(e[2]) {
			continue
		}
		e[1] = rule.Limit.Y.Clamp(e[1])
		e[2] = rule.Limit.Z.Clamp(e[2])
		bone.SetEuler(e)
		changed++
	}
	return changed
}
