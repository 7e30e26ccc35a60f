package skeleton

import (
	"errors"
	"fmt"

	"avatar-retarget/internal/mathutil"
)

var (
	// ErrEmptyRig is returned when a rig has no bones.
	ErrEmptyRig = errors.New("skeleton: rig has no bones")
	// ErrUnknownParent is returned when a bone names a parent that does not exist.
	ErrUnknownParent = errors.New("skeleton: unknown parent bone")
)

// Bone is one joint of the hierarchy. Rotation is the only field the
// playback pipeline writes; everything else is fixed when the rig is built.
type Bone struct {
	Name     string
	Parent   int           // index into Skeleton.Bones(), -1 for roots
	Offset   mathutil.Vec3 // translation relative to the parent joint
	Rotation mathutil.Quat // local orientation

	index int
}

// Index returns the bone's position in its skeleton.
func (b *Bone) Index() int { return b.index }

// Euler returns the local rotation as XYZ Euler angles.
func (b *Bone) Euler() mathutil.Euler {
	return b.Rotation.Euler()
}

// SetEuler replaces the local rotation from XYZ Euler angles.
func (b *Bone) SetEuler(e mathutil.Euler) {
	b.Rotation = mathutil.QuatFromEuler(e)
}

// Skeleton is an ordered joint hierarchy. Parents always precede their
// children, so a single forward pass sees every parent before its child.
type Skeleton struct {
	Name  string
	bones []*Bone
}

// New builds a skeleton from bones whose Parent indices already point at
// earlier entries. Zero rotations are replaced by identity.
func New(name string, bones []Bone) (*Skeleton, error) {
	if len(bones) == 0 {
		return nil, ErrEmptyRig
	}
	s := &Skeleton{Name: name, bones: make([]*Bone, len(bones))}
	for i := range bones {
		b := bones[i]
		if b.Parent >= i || b.Parent < -1 {
			return nil, fmt.Errorf("%w: %q has parent index %d", ErrUnknownParent, b.Name, b.Parent)
		}
		if b.Rotation == (mathutil.Quat{}) {
			b.Rotation = mathutil.QuatIdentity()
		}
		b.index = i
		s.bones[i] = &b
	}
	return s, nil
}

// Bones returns the joints in hierarchy order. The pointers are the live
// bones; callers may mutate Rotation.
func (s *Skeleton) Bones() []*Bone { return s.bones }

func (s *Skeleton) Len() int { return len(s.bones) }

// Traverse visits every bone in hierarchy order.
func (s *Skeleton) Traverse(fn func(*Bone)) {
	for _, b := range s.bones {
		fn(b)
	}
}

// Parent returns b's parent, or nil for a root.
func (s *Skeleton) Parent(b *Bone) *Bone {
	if b.Parent < 0 {
		return nil
	}
	return s.bones[b.Parent]
}

// Pose copies the current local rotations.
func (s *Skeleton) Pose() []mathutil.Quat {
	pose := make([]mathutil.Quat, len(s.bones))
	for i, b := range s.bones {
		pose[i] = b.Rotation
	}
	return pose
}

// SetPose restores rotations captured by Pose. Extra or missing entries are ignored.
func (s *Skeleton) SetPose(pose []mathutil.Quat) {
	for i := 0; i < len(pose) && i < len(s.bones); i++ {
		s.bones[i].Rotation = pose[i]
	}
}
