// Package rng provides the uniform-[0,1) random number source used by the
// renderer. The concrete algorithm is explicitly out of scope for the core
// path-tracing spec; only a uniform-[0,1), integer-seeded source is required.
// This is a small, fast xorshift32 generator in the spirit of the teacher's
// own rnd() helper (vu/eg/rt.go), generalized into a reusable Source type
// instead of a raw *uint32 threaded through render calls by hand.
package rng

// Source is a uniform-[0,1) random number source. A Source is not safe for
// concurrent use; the renderer hands each scanline goroutine its own Source.
type Source struct {
	state uint32
}

// New returns a Source seeded deterministically from seed. Two Sources
// created with the same seed produce identical sequences.
func New(seed uint32) *Source {
	if seed == 0 {
		seed = 0x9e3779b9 // avoid the fixed point at zero.
	}
	return &Source{state: seed}
}

// Float64 returns a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	x := s.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.state = x
	return float64(x) / float64(1<<32)
}

// Range returns a uniform value in [min, max).
func (s *Source) Range(min, max float64) float64 {
	return min + (max-min)*s.Float64()
}

// V3 returns a vector with each component uniform in [min, max).
func (s *Source) V3(min, max float64) (x, y, z float64) {
	return s.Range(min, max), s.Range(min, max), s.Range(min, max)
}

// UnitSquare returns a point uniform in [-0.5, 0.5) x [-0.5, 0.5), used for
// pixel-area sampling.
func (s *Source) UnitSquare() (x, y float64) {
	return s.Range(-0.5, 0.5), s.Range(-0.5, 0.5)
}

// InUnitSphere returns a point uniformly distributed within the unit ball,
// via rejection sampling.
func (s *Source) InUnitSphere() (x, y, z float64) {
	for {
		x, y, z = s.V3(-1, 1)
		if x*x+y*y+z*z < 1 {
			return x, y, z
		}
	}
}

// InHemisphere returns a point in the unit ball on the same side of the
// plane through the origin with normal (nx, ny, nz) as the normal itself.
func (s *Source) InHemisphere(nx, ny, nz float64) (x, y, z float64) {
	x, y, z = s.InUnitSphere()
	if x*nx+y*ny+z*nz < 0 {
		return -x, -y, -z
	}
	return x, y, z
}
