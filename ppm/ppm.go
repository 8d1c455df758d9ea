// Package ppm writes a rendered pixel buffer out as a PPM "P3" ASCII
// image (§4.10, §6): the PixelSink contract named by the render pipeline.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/gazed/pathtrace/vec"
)

// PixelSink is anything that can persist a rendered image. The
// coordinator command calls the package-level Write once, after all tiles
// complete; Writer adapts that function to this interface.
type PixelSink interface {
	Write(w io.Writer, width, height int, pixels []vec.Color) error
}

// Writer is the P3 ASCII PixelSink implementation.
type Writer struct{}

// Write implements PixelSink, emitting the header `P3\n<w> <h>\n255\n`
// followed by w*h whitespace-separated RGB triples in row-major order.
// Each linear channel is gamma-2 corrected (sqrt), clamped to
// [0, 0.999], then scaled by 256 and truncated to an integer — the exact
// encoding in §6.
func Write(w io.Writer, width, height int, pixels []vec.Color) error {
	if len(pixels) != width*height {
		return fmt.Errorf("ppm: pixel buffer has %d entries, want %d for a %dx%d image", len(pixels), width*height, width, height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for _, p := range pixels {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", byteOf(p.X), byteOf(p.Y), byteOf(p.Z)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// byteOf converts one linear color channel to its gamma-corrected,
// clamped byte value.
func byteOf(channel float64) int {
	gamma := math.Sqrt(math.Max(channel, 0))
	if gamma > 0.999 {
		gamma = 0.999
	}
	return int(256 * gamma)
}

// Writer.Write satisfies the PixelSink interface by delegating to Write.
func (Writer) Write(w io.Writer, width, height int, pixels []vec.Color) error {
	return Write(w, width, height, pixels)
}
