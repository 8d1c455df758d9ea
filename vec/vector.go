// Package vec provides the 3D vector, ray and interval primitives used
// throughout the path tracer. vec3 doubles as point3 and color: all three
// share the same three-float64 layout and arithmetic.
package vec

import "math"

// nearZeroEpsilon is the per-component threshold below which a vector is
// considered the zero vector for scatter-direction fallback purposes.
const nearZeroEpsilon = 1e-8

// V3 is a 3 element double-precision vector. It is used interchangeably as
// a point in space, a direction, and an RGB color.
type V3 struct {
	X, Y, Z float64
}

// New returns a vector with the given components.
func New(x, y, z float64) V3 { return V3{x, y, z} }

// Add returns v + o.
func (v V3) Add(o V3) V3 { return V3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v V3) Sub(o V3) V3 { return V3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns the component-wise (Hadamard) product v ⊙ o.
func (v V3) Mul(o V3) V3 { return V3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Scale returns v scaled by s.
func (v V3) Scale(s float64) V3 { return V3{v.X * s, v.Y * s, v.Z * s} }

// Neg returns -v.
func (v V3) Neg() V3 { return V3{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of v and o.
func (v V3) Dot(o V3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v V3) Cross(o V3) V3 {
	return V3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LenSq returns the squared length of v, cheaper than Len when only
// comparing magnitudes.
func (v V3) LenSq() float64 { return v.Dot(v) }

// Len returns the length of v.
func (v V3) Len() float64 { return math.Sqrt(v.LenSq()) }

// Unit returns v normalized to unit length. The zero vector is returned
// unchanged (division by zero is never expected to reach here given the
// callers always normalize non-degenerate directions).
func (v V3) Unit() V3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// NearZero reports whether every component of v is smaller in magnitude
// than nearZeroEpsilon.
func (v V3) NearZero() bool {
	return math.Abs(v.X) < nearZeroEpsilon && math.Abs(v.Y) < nearZeroEpsilon && math.Abs(v.Z) < nearZeroEpsilon
}

// Get returns the components of v as three float64 values, mirroring the
// GetS accessor style used throughout the teacher's math/lin package.
func (v V3) Get() (x, y, z float64) { return v.X, v.Y, v.Z }

// Axis returns the i'th component of v, where i is 0, 1 or 2.
func (v V3) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Reflect returns v reflected about a surface with unit normal n.
func (v V3) Reflect(n V3) V3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Refract returns the refracted direction of unit vector v through a
// surface with unit normal n, using Snell's law with ratio
// etaiOverEtat = eta_incident / eta_transmitted.
func (v V3) Refract(n V3, etaiOverEtat float64) V3 {
	cosTheta := math.Min(v.Neg().Dot(n), 1)
	rOutPerp := v.Add(n.Scale(cosTheta)).Scale(etaiOverEtat)
	rOutParallel := n.Scale(-math.Sqrt(math.Abs(1 - rOutPerp.LenSq())))
	return rOutPerp.Add(rOutParallel)
}

// Color is an alias for V3 used where a value is semantically a linear RGB
// color rather than a point or direction.
type Color = V3

// Black is the zero color, the default value returned by Material.Emitted.
var Black = V3{0, 0, 0}

// White is full-intensity linear white.
var White = V3{1, 1, 1}

// Sky is the background gradient's horizon color.
var Sky = V3{0.5, 0.7, 1.0}
