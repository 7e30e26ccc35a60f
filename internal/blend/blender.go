package blend

import (
	"sort"

	"avatar-retarget/internal/mathutil"
	"avatar-retarget/internal/registry"
	"avatar-retarget/internal/skeleton"
	"avatar-retarget/internal/timeline"
)

// HeadAliases name the bone driven by the head pitch channel.
var HeadAliases = []string{"Head"}

// Blender moves bones toward the current frame a fraction at a time.
// Blending is cumulative: every call starts from the bone's present
// orientation, so a held frame converges geometrically.
type Blender struct {
	Policy   Policy
	HeadRate float64

	names []string                    // reused sort buffer
	seen  map[*skeleton.Bone]struct{} // bones written this call
}

// NewBlender returns a blender using policy, or DefaultPolicy when nil.
func NewBlender(policy Policy) *Blender {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Blender{Policy: policy, HeadRate: RateHeadPitch}
}

// Apply blends every resolvable bone of f toward its target rotation and
// returns how many bones were written. Unknown bone names are skipped; a
// nil frame or bone map leaves the pose untouched. When several names in f
// resolve to one bone, only the first in sorted order is applied.
func (b *Blender) Apply(f *timeline.Frame, reg *registry.Registry) int {
	if f == nil || reg == nil {
		return 0
	}

	written := 0
	if f.Bones != nil {
		b.names = b.names[:0]
		for name := range f.Bones {
			b.names = append(b.names, name)
		}
		sort.Strings(b.names)
		if b.seen == nil {
			b.seen = make(map[*skeleton.Bone]struct{}, len(b.names))
		}
		clear(b.seen)

		for _, name := range b.names {
			bone, ok := reg.Resolve(name)
			if !ok {
				continue
			}
			if _, dup := b.seen[bone]; dup {
				continue
			}
			b.seen[bone] = struct{}{}
			rot := f.Bones[name]
			target := mathutil.EulerToQuat(rot[0], rot[1], rot[2])
			rule := b.Policy(reg.CanonicalOf(bone))
			bone.Rotation = bone.Rotation.Slerp(target, rule.Rate)
			written++
		}
	}

	if f.Face != nil {
		if head, ok := reg.Lookup(HeadAliases...); ok {
			e := head.Euler()
			e[0] = mathutil.Lerp(e[0], f.Face.HeadPitch, b.HeadRate)
			head.SetEuler(e)
		}
	}
	return written
}
