package skeleton

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-retarget/internal/mathutil"
)

func chainRig() RigFile {
	// Listed child-first on purpose.
	return RigFile{
		Name: "chain",
		Bones: []RigBone{
			{Name: "tip", Parent: "mid", Offset: [3]float64{1, 0, 0}},
			{Name: "mid", Parent: "root", Offset: [3]float64{1, 0, 0}},
			{Name: "root", Offset: [3]float64{0, 1, 0}},
		},
	}
}

func TestRigBuildOrdersParentsFirst(t *testing.T) {
	t.Parallel()
	sk, err := chainRig().Build()
	require.NoError(t, err)
	require.Equal(t, 3, sk.Len())

	names := make([]string, 0, sk.Len())
	for _, b := range sk.Bones() {
		names = append(names, b.Name)
		if b.Parent >= 0 {
			assert.Less(t, b.Parent, b.Index())
		}
	}
	assert.Equal(t, []string{"root", "mid", "tip"}, names)
	assert.Nil(t, sk.Parent(sk.Bones()[0]))
	assert.Equal(t, "mid", sk.Parent(sk.Bones()[2]).Name)
}

func TestRigBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rig  RigFile
		is   error
		msg  string
	}{
		{name: "empty", rig: RigFile{}, is: ErrEmptyRig},
		{
			name: "unknown parent",
			rig:  RigFile{Bones: []RigBone{{Name: "a", Parent: "ghost"}}},
			is:   ErrUnknownParent,
		},
		{
			name: "cycle",
			rig: RigFile{Bones: []RigBone{
				{Name: "root"},
				{Name: "a", Parent: "b"},
				{Name: "b", Parent: "a"},
			}},
			is: ErrUnknownParent,
		},
		{
			name: "duplicate",
			rig:  RigFile{Bones: []RigBone{{Name: "a"}, {Name: "a"}}},
			msg:  "duplicate",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.rig.Build()
			require.Error(t, err)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			if tc.msg != "" {
				assert.Contains(t, err.Error(), tc.msg)
			}
		})
	}
}

func TestNewRejectsForwardParent(t *testing.T) {
	t.Parallel()
	_, err := New("bad", []Bone{{Name: "a", Parent: 1}, {Name: "b", Parent: -1}})
	assert.ErrorIs(t, err, ErrUnknownParent)

	sk, err := New("ok", []Bone{{Name: "a", Parent: -1}})
	require.NoError(t, err)
	assert.Equal(t, mathutil.QuatIdentity(), sk.Bones()[0].Rotation)
}

func TestDecode(t *testing.T) {
	t.Parallel()
	doc := `{"name":"arm","bones":[
		{"name":"shoulder","offset":[0,1.4,0]},
		{"name":"elbow","parent":"shoulder","offset":[0.3,0,0],"rotation":[0,0,0.5]}
	]}`
	sk, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "arm", sk.Name)
	assert.InDelta(t, 0.5, sk.Bones()[1].Euler()[2], 1e-12)

	_, err = Decode(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestWorldMatricesAndBounds(t *testing.T) {
	t.Parallel()
	sk, err := chainRig().Build()
	require.NoError(t, err)

	pts := JointPositions(BuildWorldMatrices(sk, mathutil.Mat4Identity()))
	assert.Equal(t, []mathutil.Vec3{{0, 1, 0}, {1, 1, 0}, {2, 1, 0}}, pts)

	// Bending mid by 90° about Z swings the tip up.
	sk.Bones()[1].SetEuler(mathutil.Euler{0, 0, math.Pi / 2})
	pts = JointPositions(BuildWorldMatrices(sk, mathutil.Mat4Translate(mathutil.Vec3{0, -1, 0})))
	assert.InDelta(t, 1, pts[2][0], 1e-12)
	assert.InDelta(t, 1, pts[2][1], 1e-12)

	box := Bounds(sk, mathutil.Mat4Identity())
	require.True(t, box.Valid())
	assert.InDelta(t, 1, box.Size()[0], 1e-12)
	assert.InDelta(t, 1, box.Size()[1], 1e-12)

	assert.False(t, Bounds(nil, mathutil.Mat4Identity()).Valid())
}

func TestPoseSnapshot(t *testing.T) {
	t.Parallel()
	sk := Humanoid("")
	saved := sk.Pose()
	sk.Bones()[3].SetEuler(mathutil.Euler{0.4, 0, 0})
	assert.NotEqual(t, saved[3], sk.Bones()[3].Rotation)
	sk.SetPose(saved)
	assert.Equal(t, saved, sk.Pose())
}

func TestHumanoid(t *testing.T) {
	t.Parallel()
	sk := Humanoid(DefaultPrefix)
	assert.Equal(t, len(humanoidSpine)+2*len(humanoidSide), sk.Len())

	var left, right mathutil.Vec3
	pts := JointPositions(BuildWorldMatrices(sk, mathutil.Mat4Identity()))
	for i, b := range sk.Bones() {
		require.True(t, strings.HasPrefix(b.Name, DefaultPrefix))
		switch b.Name {
		case DefaultPrefix + "LeftHand":
			left = pts[i]
		case DefaultPrefix + "RightHand":
			right = pts[i]
		}
	}
	assert.Greater(t, left[0], 0.0)
	assert.InDelta(t, -left[0], right[0], 1e-12)
	assert.Equal(t, left[1], right[1])
}
