package camera

import (
	"math"
	"testing"

	"github.com/gazed/pathtrace/vec"
)

// zeroRand always returns the midpoint of any requested range, so
// GetRay samples exactly the pixel center with no jitter.
type zeroRand struct{}

func (zeroRand) Float64() float64                              { return 0.5 }
func (zeroRand) Range(min, max float64) float64                { return (min + max) / 2 }
func (zeroRand) V3(min, max float64) (float64, float64, float64) {
	m := (min + max) / 2
	return m, m, m
}
func (zeroRand) InUnitSphere() (float64, float64, float64) { return 0, 0, 0 }
func (zeroRand) InHemisphere(nx, ny, nz float64) (float64, float64, float64) {
	return nx, ny, nz
}

// TestCenterRayPointsAtLookAt checks §8's camera-geometry invariant: the
// undithered center-pixel ray must pass within a pixel-size epsilon of the
// line from Position to LookAt.
func TestCenterRayPointsAtLookAt(t *testing.T) {
	desc := Desc{
		Position: vec.New(0, 0, 3),
		LookAt:   vec.New(0, 0, -1),
		Up:       vec.New(0, 1, 0),
		VfovDeg:  45,
	}
	const width, height = 400, 300
	cam := New(desc, width, height)

	r := cam.GetRay(width/2, height/2, zeroRand{})
	dir := r.Direction.Unit()
	want := desc.LookAt.Sub(desc.Position).Unit()

	// distance from dir to the want line, via the sine of the angle
	// between them (both unit vectors).
	cross := dir.Cross(want)
	epsilon := 1.0 / float64(width) // one pixel-size worth of angular slack.
	if cross.Len() > epsilon {
		t.Errorf("center ray direction %v deviates from look-at line %v by %v, want <= %v", dir, want, cross.Len(), epsilon)
	}
}

func TestFocusDistanceClampedWhenLookAtNearlyAtPosition(t *testing.T) {
	desc := Desc{
		Position: vec.New(1, 1, 1),
		LookAt:   vec.New(1, 1, 1-1e-9),
		Up:       vec.New(0, 1, 0),
		VfovDeg:  45,
	}
	cam := New(desc, 10, 10)
	r := cam.GetRay(5, 5, zeroRand{})
	if math.IsNaN(r.Direction.X) || math.IsNaN(r.Direction.Y) || math.IsNaN(r.Direction.Z) {
		t.Fatal("sub-epsilon look-at distance produced a NaN ray direction")
	}
}
