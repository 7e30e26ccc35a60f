package skeleton

import "strings"

// DefaultPrefix is the armature prefix Mixamo exports put on every bone.
const DefaultPrefix = "mixamorig"

type limb struct {
	name   string
	parent string
	offset [3]float64
}

// Centre line, in metres, hips at 1 m.
var humanoidSpine = []limb{
	{"Hips", "", [3]float64{0, 1.0, 0}},
	{"Spine", "Hips", [3]float64{0, 0.10, 0}},
	{"Spine1", "Spine", [3]float64{0, 0.12, 0}},
	{"Spine2", "Spine1", [3]float64{0, 0.12, 0}},
	{"Neck", "Spine2", [3]float64{0, 0.15, 0}},
	{"Head", "Neck", [3]float64{0, 0.10, 0}},
	{"HeadTop_End", "Head", [3]float64{0, 0.18, 0}},
}

// Left side in T-pose; the right side mirrors X. {Side} expands to Left/Right.
var humanoidSide = []limb{
	{"{Side}Shoulder", "Spine2", [3]float64{0.06, 0.10, 0}},
	{"{Side}Arm", "{Side}Shoulder", [3]float64{0.12, 0, 0}},
	{"{Side}ForeArm", "{Side}Arm", [3]float64{0.27, 0, 0}},
	{"{Side}Hand", "{Side}ForeArm", [3]float64{0.25, 0, 0}},
	{"{Side}HandThumb1", "{Side}Hand", [3]float64{0.03, -0.01, 0.03}},
	{"{Side}HandThumb2", "{Side}HandThumb1", [3]float64{0.03, 0, 0.01}},
	{"{Side}HandThumb3", "{Side}HandThumb2", [3]float64{0.025, 0, 0}},
	{"{Side}HandIndex1", "{Side}Hand", [3]float64{0.09, 0, 0.025}},
	{"{Side}HandIndex2", "{Side}HandIndex1", [3]float64{0.035, 0, 0}},
	{"{Side}HandIndex3", "{Side}HandIndex2", [3]float64{0.025, 0, 0}},
	{"{Side}HandMiddle1", "{Side}Hand", [3]float64{0.09, 0, 0}},
	{"{Side}HandMiddle2", "{Side}HandMiddle1", [3]float64{0.04, 0, 0}},
	{"{Side}HandMiddle3", "{Side}HandMiddle2", [3]float64{0.028, 0, 0}},
	{"{Side}HandRing1", "{Side}Hand", [3]float64{0.085, 0, -0.02}},
	{"{Side}HandRing2", "{Side}HandRing1", [3]float64{0.035, 0, 0}},
	{"{Side}HandRing3", "{Side}HandRing2", [3]float64{0.025, 0, 0}},
	{"{Side}HandPinky1", "{Side}Hand", [3]float64{0.075, 0, -0.04}},
	{"{Side}HandPinky2", "{Side}HandPinky1", [3]float64{0.028, 0, 0}},
	{"{Side}HandPinky3", "{Side}HandPinky2", [3]float64{0.02, 0, 0}},
	{"{Side}UpLeg", "Hips", [3]float64{0.09, -0.05, 0}},
	{"{Side}Leg", "{Side}UpLeg", [3]float64{0, -0.42, 0}},
	{"{Side}Foot", "{Side}Leg", [3]float64{0, -0.42, 0}},
	{"{Side}ToeBase", "{Side}Foot", [3]float64{0, -0.05, 0.13}},
}

// HumanoidRig returns the built-in Mixamo-style T-pose rig with every bone
// name prefixed by prefix (pass "" for bare names).
func HumanoidRig(prefix string) RigFile {
	rf := RigFile{Name: "humanoid"}
	add := func(name, parent string, off [3]float64) {
		p := ""
		if parent != "" {
			p = prefix + parent
		}
		rf.Bones = append(rf.Bones, RigBone{Name: prefix + name, Parent: p, Offset: off})
	}

	for _, l := range humanoidSpine {
		add(l.name, l.parent, l.offset)
	}
	for _, side := range []string{"Left", "Right"} {
		mirror := 1.0
		if side == "Right" {
			mirror = -1
		}
		for _, l := range humanoidSide {
			off := l.offset
			off[0] *= mirror
			add(strings.ReplaceAll(l.name, "{Side}", side), strings.ReplaceAll(l.parent, "{Side}", side), off)
		}
	}
	return rf
}

// Humanoid builds the built-in rig.
func Humanoid(prefix string) *Skeleton {
	sk, err := HumanoidRig(prefix).Build()
	if err != nil {
		// The table above is static; a failure here is a programming error.
		panic(err)
	}
	return sk
}
