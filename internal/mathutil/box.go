package mathutil

import "math"

// Box3 is an axis-aligned bounding box. The zero value is NOT empty; use
// EmptyBox to start an accumulation.
type Box3 struct {
	Min Vec3
	Max Vec3
}

// EmptyBox returns an inverted box that any ExpandByPoint call will replace.
func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// ExpandByPoint grows the box to contain p.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	return Box3{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Valid reports whether every bound is finite and Min <= Max on each axis.
func (b Box3) Valid() bool {
	for k := 0; k < 3; k++ {
		if !IsFinite(b.Min[k]) || !IsFinite(b.Max[k]) || b.Min[k] > b.Max[k] {
			return false
		}
	}
	return true
}

func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b Box3) Size() Vec3 {
	return b.Max.Sub(b.Min)
}
