// Package blend turns pose frames into bone orientations: per-bone blend
// rates, cumulative slerp toward each frame's target, the head pitch
// channel, the upper-arm limiter and the initial rest-pose bias.
package blend

import (
	"strings"

	"avatar-retarget/internal/mathutil"
)

// Blend rates: the fraction of the remaining angle closed per tick.
const (
	RateBody      = 0.12
	RateRightHand = 0.28
	RateLeftHand  = 0.14
	RateHeadPitch = 0.1
)

// Range is a closed angular interval in radians.
type Range struct {
	Min, Max float64
}

func (r Range) Clamp(v float64) float64 {
	return mathutil.Clamp(v, r.Min, r.Max)
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Limit bounds the Euler Y (abduction) and Z axes of a joint.
type Limit struct {
	Y Range
	Z Range
}

// UpperArmLimit keeps the shoulders out of the torso and away from hyperextension.
var UpperArmLimit = Limit{
	Y: Range{-0.5, 0.5},
	Z: Range{-0.7, 0.7},
}

// Rule is what a policy decides for one bone.
type Rule struct {
	Rate  float64
	Limit *Limit // nil: no hard clamp
}

// Policy maps a canonical bone name to its rule. Policies are pure.
type Policy func(canonical string) Rule

// Side is the body side a bone name belongs to.
type Side int

const (
	Center Side = iota
	Left
	Right
)

// SideOf classifies a canonical name by its left/right marker.
func SideOf(canonical string) Side {
	switch {
	case strings.HasPrefix(canonical, "left"):
		return Left
	case strings.HasPrefix(canonical, "right"):
		return Right
	case strings.Contains(canonical, "left"):
		return Left
	case strings.Contains(canonical, "right"):
		return Right
	}
	return Center
}

// IsHand reports whether the name carries a finger or hand marker.
func IsHand(canonical string) bool {
	return strings.Contains(canonical, "finger") || strings.Contains(canonical, "hand")
}

var upperArms = map[string]struct{}{
	"leftupperarm":  {},
	"rightupperarm": {},
	"leftarm":       {},
	"rightarm":      {},
}

// DefaultPolicy: hands and fingers converge faster on the right (0.28)
// than on the left (0.14), everything else at 0.12. The source rigs need
// the asymmetry for mirrored sides to look alike. Upper arms carry
// UpperArmLimit.
func DefaultPolicy(canonical string) Rule {
	name := strings.ToLower(canonical)
	rule := Rule{Rate: RateBody}
	if IsHand(name) {
		if SideOf(name) == Left {
			rule.Rate = RateLeftHand
		} else {
			rule.Rate = RateRightHand
		}
	}
	if _, ok := upperArms[name]; ok {
		limit := UpperArmLimit
		rule.Limit = &limit
	}
	return rule
}
