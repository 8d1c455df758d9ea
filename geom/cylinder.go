package geom

import (
	"math"

	"github.com/gazed/pathtrace/vec"
)

// Cylinder is a finite, capped Hittable running from P1 to P2 with the
// given Radius. Unlike Sphere, cylinder radius has no construction-time
// convention in the distilled spec; this implementation clamps it to
// non-negative the same way Sphere does, resolving the asymmetry the spec
// calls out as an open question in favor of consistency.
type Cylinder struct {
	P1, P2 vec.V3
	Radius float64
	Mat    Material
}

// NewCylinder returns a Cylinder with Radius clamped to non-negative.
func NewCylinder(p1, p2 vec.V3, radius float64, mat Material) *Cylinder {
	if radius < 0 {
		radius = 0
	}
	return &Cylinder{P1: p1, P2: p2, Radius: radius, Mat: mat}
}

// axis returns the (unnormalized axis vector, its length, and its unit
// direction).
func (c *Cylinder) axis() (a vec.V3, length float64, unit vec.V3) {
	a = c.P2.Sub(c.P1)
	length = a.Len()
	if length == 0 {
		return a, 0, vec.New(0, 0, 1)
	}
	return a, length, a.Scale(1 / length)
}

// Hit implements Hittable. The infinite-cylinder quadratic is solved in
// the plane perpendicular to the axis; height-along-axis and the two disc
// caps are then checked to bound it to the finite segment, per §4.2.
func (c *Cylinder) Hit(r vec.Ray, tRange vec.Interval, rec *HitRecord) bool {
	_, length, axisUnit := c.axis()

	best := tRange.Max
	found := false
	var bestNormal vec.V3
	var bestP vec.V3
	var bestT float64

	// --- body: infinite-cylinder quadratic, then clip to [0, length]. ---
	oc := r.Origin.Sub(c.P1)
	dPerp := r.Direction.Sub(axisUnit.Scale(r.Direction.Dot(axisUnit)))
	ocPerp := oc.Sub(axisUnit.Scale(oc.Dot(axisUnit)))

	a := dPerp.LenSq()
	if a > 1e-12 {
		b := 2 * dPerp.Dot(ocPerp)
		cc := ocPerp.LenSq() - c.Radius*c.Radius
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sqrtd := math.Sqrt(disc)
			for _, root := range [2]float64{(-b - sqrtd) / (2 * a), (-b + sqrtd) / (2 * a)} {
				if !tRange.Surrounds(root) || root >= best {
					continue
				}
				p := r.At(root)
				h := p.Sub(c.P1).Dot(axisUnit)
				if h < 0 || h > length {
					continue
				}
				centerOnAxis := c.P1.Add(axisUnit.Scale(h))
				normal := p.Sub(centerOnAxis).Scale(1 / c.Radius)
				best, found = root, true
				bestNormal, bestP, bestT = normal, p, root
			}
		}
	}

	// --- caps: two discs, at P1 (normal -axisUnit) and P2 (normal +axisUnit). ---
	for _, cap := range [2]struct {
		center vec.V3
		normal vec.V3
	}{
		{c.P1, axisUnit.Neg()},
		{c.P2, axisUnit},
	} {
		denom := r.Direction.Dot(cap.normal)
		if denom == 0 {
			continue
		}
		root := cap.center.Sub(r.Origin).Dot(cap.normal) / denom
		if !tRange.Surrounds(root) || root >= best {
			continue
		}
		p := r.At(root)
		if p.Sub(cap.center).LenSq() > c.Radius*c.Radius {
			continue
		}
		best, found = root, true
		bestNormal, bestP, bestT = cap.normal, p, root
	}

	if !found {
		return false
	}
	rec.T = bestT
	rec.P = bestP
	rec.SetFaceNormal(r, bestNormal)
	rec.Mat = c.Mat
	return true
}

// BoundingBox implements Hittable. The box is the union of two axis-aligned
// cubes of half-extent Radius centered at P1 and P2 — a conservative
// overestimate per §4.2, not a tight fit to the cylinder's true extent.
func (c *Cylinder) BoundingBox() AABB {
	rad := vec.New(c.Radius, c.Radius, c.Radius)
	b1 := AABB{Min: c.P1.Sub(rad), Max: c.P1.Add(rad)}
	b2 := AABB{Min: c.P2.Sub(rad), Max: c.P2.Add(rad)}
	return Union(b1, b2)
}
