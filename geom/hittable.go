// Package geom implements the ray/primitive intersection types: the closed
// Hittable set (sphere, cylinder, BVH node, list) and the HitRecord they
// produce. Material is declared here, rather than in its own package, to
// avoid an import cycle: a HitRecord carries a Material, and materials
// scatter against a Ray without needing to know about Hittable at all. The
// concrete material variants live in package material.
package geom

import "github.com/gazed/pathtrace/vec"

// Material is the scattering/emission capability attached to every
// Hittable. It is a closed set of variants (see package material); the
// renderer calls it through this interface, and scene serialization
// dispatches on the concrete type with a type switch, the idiomatic
// replacement for the source's dynamic_cast chains.
type Material interface {
	// Scatter computes the scattered ray and its attenuation for an
	// incoming ray hitting rec. ok is false when the material absorbs
	// the ray instead of scattering it.
	Scatter(rIn vec.Ray, rec *HitRecord, rnd RandSource) (attenuation vec.Color, scattered vec.Ray, ok bool)

	// Emitted returns the radiance emitted at the hit point. Materials
	// that never emit return vec.Black.
	Emitted(rec *HitRecord) vec.Color
}

// RandSource is the uniform-[0,1) random source contract consumed by
// Material.Scatter and by the renderer. It is satisfied by *rng.Source;
// declared here instead of imported to keep geom and material free of a
// dependency on the rng package's concrete type.
type RandSource interface {
	Float64() float64
	Range(min, max float64) float64
	V3(min, max float64) (x, y, z float64)
	InUnitSphere() (x, y, z float64)
	InHemisphere(nx, ny, nz float64) (x, y, z float64)
}

// HitRecord is the output of a successful ray/hittable intersection.
type HitRecord struct {
	P         vec.V3   // hit point
	Normal    vec.V3   // outward-oriented unit normal, flipped to face the incoming ray
	Mat       Material // material at the hit point
	T         float64  // ray parameter of the hit
	FrontFace bool     // true when the ray originated outside the surface
}

// SetFaceNormal orients rec.Normal to always face the incoming ray r, given
// the true outward normal outwardNormal (assumed unit length), and records
// whether the hit was on the front face.
func (rec *HitRecord) SetFaceNormal(r vec.Ray, outwardNormal vec.V3) {
	rec.FrontFace = r.Direction.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}

// Hittable is anything a ray can intersect: spheres, cylinders, BVH
// internal nodes and flat lists. Hittable values are shared freely after
// construction — a single hittable may be reachable from more than one BVH
// parent (see BVHNode's single-child duplication and the flat scene
// encoding's DAG sharing).
type Hittable interface {
	// Hit reports whether ray r intersects the receiver within tRange,
	// filling rec on success.
	Hit(r vec.Ray, tRange vec.Interval, rec *HitRecord) bool

	// BoundingBox returns the hittable's axis-aligned bounding box.
	BoundingBox() AABB
}
