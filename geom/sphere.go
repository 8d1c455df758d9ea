package geom

import (
	"math"

	"github.com/gazed/pathtrace/vec"
)

// Sphere is a Hittable centered at Center with the given Radius and
// Material. The ray/sphere quadratic below follows the same derivation as
// the teacher's castRaySphere (physics/caster.go), generalized to report
// both roots instead of only the entry point, since the renderer needs to
// reject hits outside an arbitrary t-range rather than only the nearest
// positive one.
type Sphere struct {
	Center vec.V3
	Radius float64
	Mat    Material
}

// NewSphere returns a Sphere with a non-negative radius: negative inputs
// are clamped to zero, matching the spec's construction-time clamp.
func NewSphere(center vec.V3, radius float64, mat Material) *Sphere {
	if radius < 0 {
		radius = 0
	}
	return &Sphere{Center: center, Radius: radius, Mat: mat}
}

// Hit implements Hittable.
func (s *Sphere) Hit(r vec.Ray, tRange vec.Interval, rec *HitRecord) bool {
	oc := s.Center.Sub(r.Origin)
	a := r.Direction.LenSq()
	h := r.Direction.Dot(oc)
	c := oc.LenSq() - s.Radius*s.Radius
	discriminant := h*h - a*c
	if discriminant < 0 {
		return false
	}
	sqrtd := math.Sqrt(discriminant)

	root := (h - sqrtd) / a
	if !tRange.Surrounds(root) {
		root = (h + sqrtd) / a
		if !tRange.Surrounds(root) {
			return false
		}
	}

	rec.T = root
	rec.P = r.At(root)
	outwardNormal := rec.P.Sub(s.Center).Scale(1 / s.Radius)
	rec.SetFaceNormal(r, outwardNormal)
	rec.Mat = s.Mat
	return true
}

// BoundingBox implements Hittable.
func (s *Sphere) BoundingBox() AABB {
	rad := vec.New(s.Radius, s.Radius, s.Radius)
	return AABB{Min: s.Center.Sub(rad), Max: s.Center.Add(rad)}
}
