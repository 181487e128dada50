package partition

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Render paints every leaf with its mean color into a new width x height
// image with a zero origin.
//
// The leaves must tile the image; each output pixel is then written exactly
// once. Leaves are disjoint, so they are filled concurrently.
func Render(leaves []Region, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	parallel.Line(len(leaves), func(start, end int) {
		for _, r := range leaves[start:end] {
			fill(dst, r)
		}
	})
	return dst
}

func fill(dst *image.NRGBA, r Region) {
	c := r.Color()
	px := [4]uint8{c.R, c.G, c.B, c.A}
	b := r.Bounds
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			copy(row[i:i+4], px[:])
		}
	}
}
