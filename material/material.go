// Package material implements the closed set of BSDF variants named in
// §3: lambertian, metal, dielectric and diffuse_light. Each is a small
// pointer-receiver type satisfying geom.Material; dispatch elsewhere in
// the renderer is a plain interface call, with package scene using a type
// switch over these four concrete types for serialization, mirroring the
// source's dynamic_cast chains the way geom's Hittable switch does.
package material

import (
	"math"

	"github.com/gazed/pathtrace/geom"
	"github.com/gazed/pathtrace/vec"
)

// Lambertian is a diffuse material that scatters uniformly over the
// hemisphere above the surface, approximated by sampling within the unit
// sphere offset from the hit normal (the standard "random in hemisphere"
// construction).
type Lambertian struct {
	Albedo vec.Color
}

// NewLambertian returns a Lambertian material with the given albedo.
func NewLambertian(albedo vec.Color) *Lambertian { return &Lambertian{Albedo: albedo} }

// Scatter implements geom.Material. The scatter direction is
// normal + random_in_hemisphere(normal); when that sum is near zero
// (the random sample nearly cancels the normal) it falls back to the
// normal itself, so Lambertian never degenerates to a non-scatter.
func (m *Lambertian) Scatter(rIn vec.Ray, rec *geom.HitRecord, rnd geom.RandSource) (vec.Color, vec.Ray, bool) {
	rx, ry, rz := rnd.InHemisphere(rec.Normal.X, rec.Normal.Y, rec.Normal.Z)
	direction := rec.Normal.Add(vec.New(rx, ry, rz))
	if direction.NearZero() {
		direction = rec.Normal
	}
	return m.Albedo, vec.NewRay(rec.P, direction), true
}

// Emitted implements geom.Material: lambertian surfaces never emit.
func (m *Lambertian) Emitted(rec *geom.HitRecord) vec.Color { return vec.Black }

// Metal is a reflective material with an optional fuzz factor that
// perturbs the reflected direction.
type Metal struct {
	Albedo vec.Color
	Fuzz   float64 // clamped to [0,1] at construction.
}

// NewMetal returns a Metal material with fuzz clamped to [0,1].
func NewMetal(albedo vec.Color, fuzz float64) *Metal {
	if fuzz < 0 {
		fuzz = 0
	}
	if fuzz > 1 {
		fuzz = 1
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter implements geom.Material. Scatters along the mirror reflection
// perturbed by Fuzz*random_in_unit_sphere; scatters that end up pointing
// into the surface (non-positive dot with the normal) are rejected.
func (m *Metal) Scatter(rIn vec.Ray, rec *geom.HitRecord, rnd geom.RandSource) (vec.Color, vec.Ray, bool) {
	reflected := rIn.Direction.Unit().Reflect(rec.Normal)
	if m.Fuzz > 0 {
		fx, fy, fz := rnd.InUnitSphere()
		reflected = reflected.Add(vec.New(fx, fy, fz).Scale(m.Fuzz))
	}
	scattered := vec.NewRay(rec.P, reflected)
	if scattered.Direction.Dot(rec.Normal) <= 0 {
		return vec.Black, scattered, false
	}
	return m.Albedo, scattered, true
}

// Emitted implements geom.Material: metal surfaces never emit.
func (m *Metal) Emitted(rec *geom.HitRecord) vec.Color { return vec.Black }

// dielectricAttenuation is the constant attenuation applied to every
// refracted/reflected ray. The source used (0.95, 0.95, 0.95) as a
// deliberate "-5% absorption" fudge rather than physically clear glass;
// §9 of the spec resolves the open question in favor of preserving it
// verbatim so renders match the reference images.
var dielectricAttenuation = vec.New(0.95, 0.95, 0.95)

// Dielectric is a refractive material (glass, water, ...) with the given
// index of refraction.
type Dielectric struct {
	IOR float64
}

// NewDielectric returns a Dielectric material with the given index of
// refraction.
func NewDielectric(ior float64) *Dielectric { return &Dielectric{IOR: ior} }

// Scatter implements geom.Material. Dielectrics always scatter: the ray
// either refracts or reflects, chosen by total-internal-reflection and a
// Schlick-reflectance coin flip.
func (m *Dielectric) Scatter(rIn vec.Ray, rec *geom.HitRecord, rnd geom.RandSource) (vec.Color, vec.Ray, bool) {
	refractionRatio := m.IOR
	if rec.FrontFace {
		refractionRatio = 1.0 / m.IOR
	}

	unitDirection := rIn.Direction.Unit()
	cosTheta := math.Min(unitDirection.Neg().Dot(rec.Normal), 1)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

	cannotRefract := refractionRatio*sinTheta > 1
	var direction vec.V3
	if cannotRefract || schlick(cosTheta, refractionRatio) > rnd.Float64() {
		direction = unitDirection.Reflect(rec.Normal)
	} else {
		direction = unitDirection.Refract(rec.Normal, refractionRatio)
	}
	return dielectricAttenuation, vec.NewRay(rec.P, direction), true
}

// schlick computes the Schlick approximation to the Fresnel reflectance.
func schlick(cosine, refIdx float64) float64 {
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// Emitted implements geom.Material: dielectrics never emit.
func (m *Dielectric) Emitted(rec *geom.HitRecord) vec.Color { return vec.Black }

// DiffuseLight never scatters; it emits a constant radiance regardless of
// the incoming ray.
type DiffuseLight struct {
	Emit vec.Color
}

// NewDiffuseLight returns a DiffuseLight material with the given emitted
// radiance.
func NewDiffuseLight(emit vec.Color) *DiffuseLight { return &DiffuseLight{Emit: emit} }

// Scatter implements geom.Material: diffuse lights never scatter.
func (m *DiffuseLight) Scatter(rIn vec.Ray, rec *geom.HitRecord, rnd geom.RandSource) (vec.Color, vec.Ray, bool) {
	return vec.Black, vec.Ray{}, false
}

// Emitted implements geom.Material.
func (m *DiffuseLight) Emitted(rec *geom.HitRecord) vec.Color { return m.Emit }
