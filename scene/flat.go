package scene

import (
	"fmt"

	"github.com/gazed/pathtrace/camera"
	"github.com/gazed/pathtrace/geom"
	"github.com/gazed/pathtrace/material"
	"github.com/gazed/pathtrace/vec"
)

// NodeKind tags a Node's geometric variant in the flat encoding.
type NodeKind uint8

const (
	KindSphere NodeKind = iota
	KindCylinder
	KindBVH
)

// MaterialKind tags a MaterialData's variant.
type MaterialKind uint8

const (
	MatLambertian MaterialKind = iota
	MatMetal
	MatDielectric
	MatDiffuseLight
)

// MaterialData is the flat, gob-friendly encoding of any of the four
// concrete material.* types. Only the fields relevant to Kind are
// meaningful; the rest are zero.
type MaterialData struct {
	Kind   MaterialKind
	Albedo vec.Color // lambertian, metal
	Fuzz   float64   // metal
	IOR    float64   // dielectric
	Emit   vec.Color // diffuse_light
}

// encodeMaterial converts a concrete geom.Material into its flat
// representation. Unknown concrete types are a Fatal-class invariant
// violation: the material set is closed by construction (§3).
func encodeMaterial(m geom.Material) (MaterialData, error) {
	switch mm := m.(type) {
	case *material.Lambertian:
		return MaterialData{Kind: MatLambertian, Albedo: mm.Albedo}, nil
	case *material.Metal:
		return MaterialData{Kind: MatMetal, Albedo: mm.Albedo, Fuzz: mm.Fuzz}, nil
	case *material.Dielectric:
		return MaterialData{Kind: MatDielectric, IOR: mm.IOR}, nil
	case *material.DiffuseLight:
		return MaterialData{Kind: MatDiffuseLight, Emit: mm.Emit}, nil
	default:
		return MaterialData{}, fmt.Errorf("scene: unknown material type %T", m)
	}
}

// decodeMaterial reconstructs a concrete geom.Material from its flat
// encoding.
func decodeMaterial(d MaterialData) (geom.Material, error) {
	switch d.Kind {
	case MatLambertian:
		return material.NewLambertian(d.Albedo), nil
	case MatMetal:
		return material.NewMetal(d.Albedo, d.Fuzz), nil
	case MatDielectric:
		return material.NewDielectric(d.IOR), nil
	case MatDiffuseLight:
		return material.NewDiffuseLight(d.Emit), nil
	default:
		return nil, fmt.Errorf("scene: unknown material kind %d", d.Kind)
	}
}

// Node is one entry of the flat, index-referenced scene encoding (§4.8).
// BVH nodes reference children by index into the same Flat.Nodes slice;
// children are always encoded at a lower index than their parent.
type Node struct {
	Kind NodeKind

	// sphere
	Center vec.V3
	Radius float64

	// cylinder: its own two endpoints; its radius goes in the Radius
	// field shared with sphere
	P1, P2 vec.V3

	// sphere / cylinder
	Mat MaterialData

	// bvh
	Left, Right int32
	Box         geom.AABB
}

// Flat is the full flat scene encoding: an ordered node list, the index
// of the root node, and the camera descriptor traveling alongside it.
type Flat struct {
	Nodes  []Node
	Root   int32
	Camera camera.Desc
}

// Serialize walks s.Root depth-first, memoizing each hittable by pointer
// identity so that a hittable reachable from more than one BVH parent is
// encoded exactly once (§4.8, §9 "shared subgraphs"). Children are always
// appended before the parent that references them, so a parent's index is
// always greater than both of its children's.
//
// An empty world (§8 scenario 1) is encoded as zero nodes with Root set to
// -1, the same out-of-range sentinel Deserialize already special-cases.
func Serialize(s Scene) (Flat, error) {
	flat := Flat{Camera: s.Camera}
	if l, ok := s.Root.(*geom.List); s.Root == nil || (ok && len(l.Objects) == 0) {
		flat.Root = -1
		return flat, nil
	}
	memo := make(map[geom.Hittable]int32)
	root, err := serializeNode(s.Root, &flat, memo)
	if err != nil {
		return Flat{}, err
	}
	flat.Root = root
	return flat, nil
}

func serializeNode(h geom.Hittable, flat *Flat, memo map[geom.Hittable]int32) (int32, error) {
	if idx, ok := memo[h]; ok {
		return idx, nil
	}

	var node Node
	switch v := h.(type) {
	case *geom.Sphere:
		md, err := encodeMaterial(v.Mat)
		if err != nil {
			return 0, err
		}
		node = Node{Kind: KindSphere, Center: v.Center, Radius: v.Radius, Mat: md}
	case *geom.Cylinder:
		md, err := encodeMaterial(v.Mat)
		if err != nil {
			return 0, err
		}
		node = Node{Kind: KindCylinder, P1: v.P1, P2: v.P2, Radius: v.Radius, Mat: md}
	case *geom.BVHNode:
		left, err := serializeNode(v.Left, flat, memo)
		if err != nil {
			return 0, err
		}
		right, err := serializeNode(v.Right, flat, memo)
		if err != nil {
			return 0, err
		}
		node = Node{Kind: KindBVH, Left: left, Right: right, Box: v.Box}
	default:
		return 0, fmt.Errorf("scene: unsupported hittable type %T in flat encoding", h)
	}

	idx := int32(len(flat.Nodes))
	flat.Nodes = append(flat.Nodes, node)
	memo[h] = idx
	return idx, nil
}

// Deserialize reconstructs a Scene from its flat encoding. It allocates a
// slot per node and materializes indices 0..len-1 in order: because
// children are always encoded before their parents (the Serialize
// invariant), a BVH node's children are already populated by the time the
// node itself is built, with no recursion or topological sort required
// (§4.8).
func Deserialize(flat Flat) (Scene, error) {
	slots := make([]geom.Hittable, len(flat.Nodes))
	for i, node := range flat.Nodes {
		switch node.Kind {
		case KindSphere:
			mat, err := decodeMaterial(node.Mat)
			if err != nil {
				return Scene{}, err
			}
			slots[i] = geom.NewSphere(node.Center, node.Radius, mat)
		case KindCylinder:
			mat, err := decodeMaterial(node.Mat)
			if err != nil {
				return Scene{}, err
			}
			slots[i] = geom.NewCylinder(node.P1, node.P2, node.Radius, mat)
		case KindBVH:
			if int(node.Left) >= i || int(node.Right) >= i {
				return Scene{}, fmt.Errorf("scene: bvh node %d references a child at or after its own index", i)
			}
			slots[i] = geom.NewBVHNode(slots[node.Left], slots[node.Right], node.Box)
		default:
			return Scene{}, fmt.Errorf("scene: unknown node kind %d at index %d", node.Kind, i)
		}
	}

	if int(flat.Root) < 0 || int(flat.Root) >= len(slots) {
		if len(slots) == 0 {
			return Scene{Root: geom.NewList(), Camera: flat.Camera}, nil
		}
		return Scene{}, fmt.Errorf("scene: root index %d out of range for %d nodes", flat.Root, len(slots))
	}
	return Scene{Root: slots[flat.Root], Camera: flat.Camera}, nil
}
