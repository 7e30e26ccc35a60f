package skeleton

import (
	"avatar-retarget/internal/mathutil"
)

// BuildWorldMatrices computes the world transform for each bone from the
// current local rotations, with root placing the whole rig in the world.
// Returns a slice of 4×4 matrices indexed by bone index.
func BuildWorldMatrices(s *Skeleton, root mathutil.Mat4) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, s.Len())
	for i, bone := range s.bones {
		local := mathutil.FromQuatTranslation(bone.Rotation, bone.Offset)

		// Chain with parent
		if bone.Parent >= 0 {
			worlds[i] = mathutil.Mat4Mul(worlds[bone.Parent], local)
		} else {
			worlds[i] = mathutil.Mat4Mul(root, local)
		}
	}
	return worlds
}

// JointPositions returns the world-space origin of every bone.
func JointPositions(worlds []mathutil.Mat4) []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, len(worlds))
	for i, w := range worlds {
		pts[i] = w.Translation()
	}
	return pts
}

// Bounds returns the world-space axis-aligned box around every joint. An
// empty skeleton yields an invalid box.
func Bounds(s *Skeleton, root mathutil.Mat4) mathutil.Box3 {
	box := mathutil.EmptyBox()
	if s == nil {
		return box
	}
	for _, p := range JointPositions(BuildWorldMatrices(s, root)) {
		box = box.ExpandByPoint(p)
	}
	return box
}
