// Package camera implements pinhole ray generation from screen
// coordinates, per §4.4. There is no lens/defocus model.
package camera

import (
	"math"

	"github.com/gazed/pathtrace/geom"
	"github.com/gazed/pathtrace/vec"
)

// Desc describes a camera's placement and field of view, as carried
// inside a serialized scene envelope.
type Desc struct {
	Position vec.V3
	LookAt   vec.V3
	Up       vec.V3
	VfovDeg  float64
}

// DefaultDesc returns the spec's default camera placement.
func DefaultDesc() Desc {
	return Desc{
		Position: vec.New(0, 0, 1.5),
		LookAt:   vec.New(0, 0, -1),
		Up:       vec.New(0, 1, 0),
		VfovDeg:  45,
	}
}

// Camera generates primary rays for an image of the given dimensions.
type Camera struct {
	position    vec.V3
	pixel00     vec.V3
	pixelDeltaU vec.V3
	pixelDeltaV vec.V3
}

// New builds a Camera from desc for an image of imageWidth x imageHeight
// pixels, following the frame construction in §4.4.
func New(desc Desc, imageWidth, imageHeight int) *Camera {
	aspect := float64(imageWidth) / float64(imageHeight)

	w := desc.Position.Sub(desc.LookAt).Unit()
	u := desc.Up.Cross(w).Unit()
	v := w.Cross(u)

	focusDist := desc.LookAt.Sub(desc.Position).Len()
	if focusDist < 1e-6 {
		focusDist = 1
	}

	theta := desc.VfovDeg * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2) * focusDist
	viewportWidth := viewportHeight * aspect

	viewportU := u.Scale(viewportWidth)
	viewportV := v.Neg().Scale(viewportHeight)

	pixelDeltaU := viewportU.Scale(1 / float64(imageWidth))
	pixelDeltaV := viewportV.Scale(1 / float64(imageHeight))

	viewportUpperLeft := desc.Position.
		Sub(w.Scale(focusDist)).
		Sub(viewportU.Scale(0.5)).
		Add(v.Scale(viewportHeight / 2))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Scale(0.5))

	return &Camera{
		position:    desc.Position,
		pixel00:     pixel00,
		pixelDeltaU: pixelDeltaU,
		pixelDeltaV: pixelDeltaV,
	}
}

// GetRay returns a ray from the camera through pixel (i, j), jittered by a
// uniform sample within the pixel's footprint.
func (c *Camera) GetRay(i, j int, rnd geom.RandSource) vec.Ray {
	center := c.pixel00.
		Add(c.pixelDeltaU.Scale(float64(i))).
		Add(c.pixelDeltaV.Scale(float64(j)))

	ox, oy := rnd.Range(-0.5, 0.5), rnd.Range(-0.5, 0.5)
	sample := center.
		Add(c.pixelDeltaU.Scale(ox)).
		Add(c.pixelDeltaV.Scale(oy))

	direction := sample.Sub(c.position)
	return vec.NewRay(c.position, direction)
}
