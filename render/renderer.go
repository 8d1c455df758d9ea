package render

import (
	"math"
	"runtime"
	"sync"

	"github.com/gazed/pathtrace/camera"
	"github.com/gazed/pathtrace/geom"
	"github.com/gazed/pathtrace/rng"
	"github.com/gazed/pathtrace/vec"
)

// RenderTile renders a w x h pixel rectangle with its top-left corner at
// (x0, y0) against world, as seen by cam, accumulating samples rays per
// pixel up to maxDepth bounces. It returns colors in row-major order
// exactly like the teacher's rayTrace()/worker() channel-fed pool
// (vu/eg/rt.go): one goroutine per available processor reads scanline
// indices off a channel until it is closed, instead of a fixed static
// split, so that scanlines of uneven cost still balance across workers.
//
// Per §4.5/§5, each scanline owns its own RNG seeded deterministically
// from seed combined with the scanline index, so a render is
// reproducible given the same (seed, schedule) regardless of how the
// goroutines happen to interleave.
func RenderTile(world geom.Hittable, cam *camera.Camera, x0, y0, w, h, samples, maxDepth int, seed uint32) []vec.Color {
	pixels := make([]vec.Color, w*h)

	procs := runtime.NumCPU()
	if procs > h {
		procs = h
	}
	if procs < 1 {
		procs = 1
	}

	rows := make(chan int, h)
	var wg sync.WaitGroup
	wg.Add(procs)
	for p := 0; p < procs; p++ {
		go func() {
			defer wg.Done()
			for j := range rows {
				renderScanline(world, cam, x0, y0, w, j, samples, maxDepth, seed, pixels[j*w:(j+1)*w])
			}
		}()
	}
	for j := 0; j < h; j++ {
		rows <- j
	}
	close(rows)
	wg.Wait()

	return pixels
}

// renderScanline fills out[0:w] with the accumulated-and-averaged color
// of each pixel in scanline j of the tile at (x0, y0).
func renderScanline(world geom.Hittable, cam *camera.Camera, x0, y0, w, j, samples, maxDepth int, seed uint32, out []vec.Color) {
	rnd := rng.New(seed ^ uint32(j)*2654435761)
	for i := 0; i < w; i++ {
		sum := vec.Black
		for s := 0; s < samples; s++ {
			r := cam.GetRay(x0+i, y0+j, rnd)
			sum = sum.Add(RayColor(r, world, maxDepth, rnd))
		}
		out[i] = sum.Scale(1 / float64(samples))
	}
}

// selfIntersectEpsilon avoids re-hitting the same surface due to floating
// point error on the ray's own origin.
const selfIntersectEpsilon = 0.005

// backgroundSky and backgroundWhite are the endpoints of the linear
// background gradient returned when a ray hits nothing.
var (
	backgroundWhite = vec.White
	backgroundSky   = vec.Sky
)

// RayColor recursively evaluates the rendering equation along ray r
// against world, following §4.5: depth exhaustion returns black, a hit
// adds emission to attenuated recursive scatter, and a miss returns the
// background gradient.
func RayColor(r vec.Ray, world geom.Hittable, depth int, rnd geom.RandSource) vec.Color {
	if depth <= 0 {
		return vec.Black
	}

	var rec geom.HitRecord
	if world != nil && world.Hit(r, vec.NewInterval(selfIntersectEpsilon, math.Inf(1)), &rec) {
		emitted := rec.Mat.Emitted(&rec)
		attenuation, scattered, ok := rec.Mat.Scatter(r, &rec, rnd)
		if !ok {
			return emitted
		}
		return emitted.Add(attenuation.Mul(RayColor(scattered, world, depth-1, rnd)))
	}

	unitDir := r.Direction.Unit()
	t := 0.5 * (unitDir.Y + 1)
	return backgroundWhite.Scale(1 - t).Add(backgroundSky.Scale(t))
}
