package material

import (
	"math"
	"testing"

	"github.com/gazed/pathtrace/geom"
	"github.com/gazed/pathtrace/vec"
)

// zeroRand drives every Scatter call toward its most degenerate input:
// InHemisphere/InUnitSphere return the normal's exact negation so the
// lambertian sum collapses to near-zero, and Float64 always returns 0 so
// dielectric reflectance comparisons pick the "reflect" branch.
type zeroRand struct{ hemi, sphere [3]float64 }

func (z zeroRand) Float64() float64                               { return 0 }
func (z zeroRand) Range(min, max float64) float64                 { return min }
func (z zeroRand) V3(min, max float64) (float64, float64, float64) { return min, min, min }
func (z zeroRand) InUnitSphere() (float64, float64, float64) {
	return z.sphere[0], z.sphere[1], z.sphere[2]
}
func (z zeroRand) InHemisphere(nx, ny, nz float64) (float64, float64, float64) {
	return z.hemi[0], z.hemi[1], z.hemi[2]
}

func TestLambertianFallsBackToNormalWhenScatterNearsZero(t *testing.T) {
	rec := &geom.HitRecord{P: vec.New(0, 0, 0), Normal: vec.New(0, 1, 0)}
	// InHemisphere returns the normal's negation: normal + (-normal) == 0.
	rnd := zeroRand{hemi: [3]float64{0, -1, 0}}
	m := NewLambertian(vec.New(0.5, 0.5, 0.5))

	_, scattered, ok := m.Scatter(vec.Ray{}, rec, rnd)
	if !ok {
		t.Fatal("lambertian must always scatter")
	}
	if scattered.Direction != rec.Normal {
		t.Errorf("scattered direction = %v, want fallback to normal %v", scattered.Direction, rec.Normal)
	}
}

func TestMetalRejectsBelowSurfaceReflection(t *testing.T) {
	// A near-grazing incoming ray reflects just barely above the surface;
	// full fuzz with a sphere sample pointing straight down pushes the
	// fuzzed reflection below the surface, which must be rejected.
	rec := &geom.HitRecord{P: vec.New(0, 0, 0), Normal: vec.New(0, 1, 0)}
	m := NewMetal(vec.New(1, 1, 1), 1)
	rIn := vec.NewRay(vec.New(0, 0, 0), vec.New(1, -0.1, 0))
	rnd := zeroRand{sphere: [3]float64{0, -1, 0}}

	_, _, ok := m.Scatter(rIn, rec, rnd)
	if ok {
		t.Error("metal should reject a reflection that points back into the surface")
	}
}

func TestDielectricNeverNaNsAtGrazingIncidence(t *testing.T) {
	rec := &geom.HitRecord{P: vec.New(0, 0, 0), Normal: vec.New(0, 1, 0), FrontFace: true}
	m := NewDielectric(1.5)
	// Nearly tangent to the surface: large sinTheta, so the Schlick
	// reflectance is close to 1 and the reflect branch is taken.
	rIn := vec.NewRay(vec.New(0, 0, 0), vec.New(1, -0.0001, 0))

	attenuation, scattered, ok := m.Scatter(rIn, rec, zeroRand{})
	if !ok {
		t.Fatal("dielectric must always scatter")
	}
	if attenuation != dielectricAttenuation {
		t.Errorf("attenuation = %v, want the fudged %v", attenuation, dielectricAttenuation)
	}
	if math.IsNaN(scattered.Direction.X) || math.IsNaN(scattered.Direction.Y) || math.IsNaN(scattered.Direction.Z) {
		t.Error("grazing incidence produced a NaN scattered direction")
	}
}

func TestDiffuseLightNeverScattersAndEmitsConstant(t *testing.T) {
	emit := vec.New(4, 4, 4)
	m := NewDiffuseLight(emit)
	rec := &geom.HitRecord{}

	if _, _, ok := m.Scatter(vec.Ray{}, rec, zeroRand{}); ok {
		t.Error("diffuse light must never scatter")
	}
	if got := m.Emitted(rec); got != emit {
		t.Errorf("Emitted = %v, want %v", got, emit)
	}
}
