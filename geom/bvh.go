package geom

import (
	"sort"

	"github.com/gazed/pathtrace/vec"
)

// BVHNode is an internal bounding-volume-hierarchy node: two children and
// their union bounding box. Leaves of the tree are Sphere/Cylinder values
// (or, in a single-object subtree, the same leaf duplicated as both
// children — see BuildBVH).
type BVHNode struct {
	Left, Right Hittable
	Box         AABB
}

// NewBVHNode constructs a node directly from precomputed children and
// bounding box, without rebuilding — this is the constructor used by
// scene deserialization (§4.8), where the box in the flat encoding is
// authoritative and must not be recomputed.
func NewBVHNode(left, right Hittable, box AABB) *BVHNode {
	return &BVHNode{Left: left, Right: right, Box: box}
}

// BuildBVH builds a median-split BVH over objects[start:end], following
// §4.1: the split axis is the box's longest axis, a two-element range is
// ordered directly, and larger ranges are median-partitioned around
// mid = start + (end-start)/2 and recursed on both halves.
func BuildBVH(objects []Hittable, start, end int) Hittable {
	span := end - start

	box := Empty
	for i := start; i < end; i++ {
		box = Union(box, objects[i].BoundingBox())
	}
	axis := box.LongestAxis()
	less := func(i, j int) bool {
		return objects[i].BoundingBox().Min.Axis(axis) < objects[j].BoundingBox().Min.Axis(axis)
	}

	var left, right Hittable
	switch span {
	case 1:
		left, right = objects[start], objects[start]
	case 2:
		if less(start, start+1) {
			left, right = objects[start], objects[start+1]
		} else {
			left, right = objects[start+1], objects[start]
		}
	default:
		sub := objects[start:end]
		sort.Slice(sub, func(i, j int) bool {
			return sub[i].BoundingBox().Min.Axis(axis) < sub[j].BoundingBox().Min.Axis(axis)
		})
		mid := start + span/2
		left = BuildBVH(objects, start, mid)
		right = BuildBVH(objects, mid, end)
	}

	return NewBVHNode(left, right, Union(left.BoundingBox(), right.BoundingBox()))
}

// Hit implements Hittable. The box is slab-tested first; the left subtree
// is queried against the original t-max, then the right subtree is
// queried against whatever t-max the left search tightened it to, so a
// closer right-subtree hit always wins the tie.
func (n *BVHNode) Hit(r vec.Ray, tRange vec.Interval, rec *HitRecord) bool {
	if !n.Box.Hit(r, tRange) {
		return false
	}

	hitLeft := n.Left.Hit(r, tRange, rec)
	rightRange := tRange
	if hitLeft {
		rightRange.Max = rec.T
	}
	hitRight := n.Right.Hit(r, rightRange, rec)

	return hitLeft || hitRight
}

// BoundingBox implements Hittable.
func (n *BVHNode) BoundingBox() AABB { return n.Box }
