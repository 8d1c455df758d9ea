package geom

import (
	"math"

	"github.com/gazed/pathtrace/vec"
)

// AABB is an axis-aligned bounding box defined by its minimum and maximum
// corners. The invariant Min.Axis(a) <= Max.Axis(a) holds on every axis
// except for the default-constructed empty box, which is never queried
// directly (only unioned with real boxes).
type AABB struct {
	Min, Max vec.V3
}

// Empty is the default, invalid bounding box: an empty box on every axis.
// Unioning Empty with any real box returns that box unchanged.
var Empty = AABB{
	Min: vec.New(math.Inf(1), math.Inf(1), math.Inf(1)),
	Max: vec.New(math.Inf(-1), math.Inf(-1), math.Inf(-1)),
}

// Union returns the bounding box that contains both a and b.
func Union(a, b AABB) AABB {
	return AABB{
		Min: vec.New(min3(a.Min.X, b.Min.X), min3(a.Min.Y, b.Min.Y), min3(a.Min.Z, b.Min.Z)),
		Max: vec.New(max3(a.Max.X, b.Max.X), max3(a.Max.Y, b.Max.Y), max3(a.Max.Z, b.Max.Z)),
	}
}

func min3(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func max3(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) along which the box has its
// largest extent.
func (b AABB) LongestAxis() int {
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	dz := b.Max.Z - b.Min.Z
	if dx > dy && dx > dz {
		return 0
	}
	if dy > dz {
		return 1
	}
	return 2
}

// Hit performs the slab test: does ray r intersect the box for some
// t in tRange. tRange is narrowed in place is not required; the original
// interval is left untouched, matching the teacher's ray casting style of
// returning a bool rather than mutating caller state (physics/caster.go).
func (b AABB) Hit(r vec.Ray, tRange vec.Interval) bool {
	for axis := 0; axis < 3; axis++ {
		invD := 1 / r.Direction.Axis(axis)
		orig := r.Origin.Axis(axis)
		t0 := (b.Min.Axis(axis) - orig) * invD
		t1 := (b.Max.Axis(axis) - orig) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tRange.Min {
			tRange.Min = t0
		}
		if t1 < tRange.Max {
			tRange.Max = t1
		}
		if tRange.Max <= tRange.Min {
			return false
		}
	}
	return true
}
