package scene

import (
	"math"
	"testing"

	"github.com/gazed/pathtrace/camera"
	"github.com/gazed/pathtrace/geom"
	"github.com/gazed/pathtrace/material"
	"github.com/gazed/pathtrace/vec"
	"pgregory.net/rapid"
)

func rayBattery() []vec.Ray {
	var rays []vec.Ray
	for _, origin := range []vec.V3{{X: 0, Y: 0, Z: 5}, {X: 3, Y: 0, Z: 5}, {X: -3, Y: 2, Z: 5}} {
		for _, dir := range []vec.V3{{X: 0, Y: 0, Z: -1}, {X: 0.1, Y: 0.1, Z: -1}, {X: -0.2, Y: 0, Z: -1}} {
			rays = append(rays, vec.NewRay(origin, dir))
		}
	}
	return rays
}

func sameHit(t *testing.T, world1, world2 geom.Hittable, r vec.Ray) {
	t.Helper()
	var rec1, rec2 geom.HitRecord
	hit1 := world1.Hit(r, vec.NewInterval(0.001, math.Inf(1)), &rec1)
	hit2 := world2.Hit(r, vec.NewInterval(0.001, math.Inf(1)), &rec2)
	if hit1 != hit2 {
		t.Fatalf("hit mismatch: original=%v reconstructed=%v for ray %+v", hit1, hit2, r)
	}
	if hit1 && rec1.T != rec2.T {
		t.Fatalf("t mismatch: original=%v reconstructed=%v for ray %+v", rec1.T, rec2.T, r)
	}
}

// TestSerializeDeserializeRoundTripsArbitraryScenes is the serialization
// round-trip property from §8: for any scene graph, deserializing a
// serialized scene yields identical hits across a fixed ray battery.
func TestSerializeDeserializeRoundTripsArbitraryScenes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "objectCount")
		var objects []geom.Hittable
		for i := 0; i < n; i++ {
			cx := rapid.Float64Range(-5, 5).Draw(rt, "cx")
			cy := rapid.Float64Range(-5, 5).Draw(rt, "cy")
			cz := rapid.Float64Range(-5, 5).Draw(rt, "cz")
			radius := rapid.Float64Range(0.1, 2).Draw(rt, "radius")
			albedo := vec.New(
				rapid.Float64Range(0, 1).Draw(rt, "r"),
				rapid.Float64Range(0, 1).Draw(rt, "g"),
				rapid.Float64Range(0, 1).Draw(rt, "b"),
			)
			mat := material.NewLambertian(albedo)
			objects = append(objects, geom.NewSphere(vec.New(cx, cy, cz), radius, mat))
		}
		root := geom.BuildBVH(objects, 0, len(objects))
		original := Scene{Root: root, Camera: camera.DefaultDesc()}

		flat, err := Serialize(original)
		if err != nil {
			rt.Fatalf("serialize: %v", err)
		}
		reconstructed, err := Deserialize(flat)
		if err != nil {
			rt.Fatalf("deserialize: %v", err)
		}

		for _, r := range rayBattery() {
			sameHit(t, original.Root, reconstructed.Root, r)
		}
	})
}

// TestSerializeSharedLeafEncodesOnce is scenario 6 from §8: a hand-built
// scene where two BVH branches share a single leaf must serialize to a
// node list where the leaf appears exactly once, and deserialize must
// reproduce that sharing as pointer identity on both parents.
func TestSerializeSharedLeafEncodesOnce(t *testing.T) {
	mat := material.NewLambertian(vec.New(0.5, 0.5, 0.5))
	leaf := geom.NewSphere(vec.New(0, 0, 0), 1, mat)
	other := geom.NewSphere(vec.New(5, 0, 0), 1, mat)

	leftBranch := geom.NewBVHNode(leaf, leaf, leaf.BoundingBox())
	rightBranch := geom.NewBVHNode(leaf, other, geom.Union(leaf.BoundingBox(), other.BoundingBox()))
	root := geom.NewBVHNode(leftBranch, rightBranch, geom.Union(leftBranch.BoundingBox(), rightBranch.BoundingBox()))

	flat, err := Serialize(Scene{Root: root, Camera: camera.DefaultDesc()})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	sphereCount := 0
	for _, node := range flat.Nodes {
		if node.Kind == KindSphere {
			sphereCount++
		}
	}
	if sphereCount != 2 {
		t.Fatalf("expected exactly 2 distinct sphere nodes (leaf shared, other separate), got %d", sphereCount)
	}

	reconstructed, err := Deserialize(flat)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	rebuiltRoot := reconstructed.Root.(*geom.BVHNode)
	rebuiltLeft := rebuiltRoot.Left.(*geom.BVHNode)
	rebuiltRight := rebuiltRoot.Right.(*geom.BVHNode)
	if rebuiltLeft.Left != rebuiltLeft.Right {
		t.Fatalf("expected the single-leaf branch to duplicate the same pointer on both sides")
	}
	if rebuiltLeft.Left != rebuiltRight.Left {
		t.Fatalf("expected the shared leaf to have identical pointer identity across both parent branches")
	}
}

// TestSerializeEmptyWorldYieldsNoNodes is scenario 1 from §8: an empty
// world (the *geom.List Parse produces when a scene file names no
// objects) must serialize to zero nodes and an out-of-range root, not
// an error, and must deserialize back to an empty, always-miss world.
func TestSerializeEmptyWorldYieldsNoNodes(t *testing.T) {
	original := Scene{Root: geom.NewList(), Camera: camera.DefaultDesc()}

	flat, err := Serialize(original)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if len(flat.Nodes) != 0 {
		t.Fatalf("expected 0 nodes for an empty world, got %d", len(flat.Nodes))
	}
	if flat.Root >= 0 {
		t.Fatalf("expected an out-of-range root sentinel, got %d", flat.Root)
	}

	reconstructed, err := Deserialize(flat)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	for _, r := range rayBattery() {
		sameHit(t, original.Root, reconstructed.Root, r)
	}
}

// TestDeserializeRejectsForwardReferences guards the index-order
// invariant from §4.8: a BVH node must never reference a child at or
// after its own index.
func TestDeserializeRejectsForwardReferences(t *testing.T) {
	flat := Flat{
		Nodes: []Node{
			{Kind: KindBVH, Left: 1, Right: 1},
			{Kind: KindSphere, Radius: 1},
		},
		Root: 0,
	}
	if _, err := Deserialize(flat); err == nil {
		t.Fatal("expected an error for a forward-referencing bvh node")
	}
}
