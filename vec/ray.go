package vec

// Ray is a half-line with an Origin point and a Direction vector. Direction
// is not required to be unit length; callers normalize as needed.
type Ray struct {
	Origin    V3
	Direction V3
}

// NewRay returns a ray with the given origin and direction.
func NewRay(origin, direction V3) Ray { return Ray{Origin: origin, Direction: direction} }

// At returns the point origin + t*direction.
func (r Ray) At(t float64) V3 { return r.Origin.Add(r.Direction.Scale(t)) }
