package skeleton

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"avatar-retarget/internal/mathutil"
)

// RigFile is the on-disk joint hierarchy description.
type RigFile struct {
	Name  string    `json:"name"`
	Bones []RigBone `json:"bones"`
}

// RigBone describes one joint. Parent is a bone name; empty for roots.
type RigBone struct {
	Name     string     `json:"name"`
	Parent   string     `json:"parent,omitempty"`
	Offset   [3]float64 `json:"offset"`
	Rotation [3]float64 `json:"rotation,omitempty"` // Euler XYZ radians
}

// Load reads a JSON rig file.
func Load(path string) (*Skeleton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("skeleton: open %s: %w", path, err)
	}
	defer f.Close()

	sk, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("skeleton: %s: %w", path, err)
	}
	return sk, nil
}

// Decode parses a rig document.
func Decode(r io.Reader) (*Skeleton, error) {
	var rf RigFile
	if err := json.NewDecoder(r).Decode(&rf); err != nil {
		return nil, fmt.Errorf("decode rig: %w", err)
	}
	return rf.Build()
}

// Build orders the bones so parents precede children and resolves parent
// names to indices. Bone order in the file does not matter.
func (rf RigFile) Build() (*Skeleton, error) {
	if len(rf.Bones) == 0 {
		return nil, ErrEmptyRig
	}

	byName := make(map[string]int, len(rf.Bones))
	for i, b := range rf.Bones {
		if _, dup := byName[b.Name]; dup {
			return nil, fmt.Errorf("skeleton: duplicate bone name %q", b.Name)
		}
		byName[b.Name] = i
	}

	children := make(map[int][]int, len(rf.Bones))
	var roots []int
	for i, b := range rf.Bones {
		if b.Parent == "" {
			roots = append(roots, i)
			continue
		}
		p, ok := byName[b.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: %q (parent of %q)", ErrUnknownParent, b.Parent, b.Name)
		}
		children[p] = append(children[p], i)
	}

	// Depth-first from each root; anything unvisited afterwards sits on a cycle.
	order := make([]int, 0, len(rf.Bones))
	newIndex := make(map[int]int, len(rf.Bones))
	var visit func(i int)
	visit = func(i int) {
		newIndex[i] = len(order)
		order = append(order, i)
		for _, c := range children[i] {
			visit(c)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	if len(order) != len(rf.Bones) {
		return nil, fmt.Errorf("%w: parent cycle in rig %q", ErrUnknownParent, rf.Name)
	}

	bones := make([]Bone, len(order))
	for j, i := range order {
		src := rf.Bones[i]
		parent := -1
		if src.Parent != "" {
			parent = newIndex[byName[src.Parent]]
		}
		bones[j] = Bone{
			Name:     src.Name,
			Parent:   parent,
			Offset:   mathutil.Vec3(src.Offset),
			Rotation: mathutil.EulerToQuat(src.Rotation[0], src.Rotation[1], src.Rotation[2]),
		}
	}
	return New(rf.Name, bones)
}
