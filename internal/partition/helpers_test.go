package partition

import (
	"image"
	"image/color"
)

// newImage builds a w x h NRGBA image with pixels from fn.
func newImage(w, h int, fn func(x, y int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fn(x, y))
		}
	}
	return img
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	return newImage(w, h, func(int, int) color.NRGBA { return c })
}

// noiseImage returns a deterministic pattern with variation in every channel,
// alpha included.
func noiseImage(w, h int) *image.NRGBA {
	return newImage(w, h, func(x, y int) color.NRGBA {
		return color.NRGBA{
			R: uint8((x*37 + y*91 + x*y*13) % 256),
			G: uint8((x*x*7 + y*29) % 256),
			B: uint8((x*11 ^ y*53) % 256),
			A: uint8(255 - (x*y*17)%64),
		}
	})
}

// blockImage returns a piecewise-flat image of 4 x 4 pixel blocks.
func blockImage(w, h int) *image.NRGBA {
	palette := []color.NRGBA{
		{200, 30, 30, 255},
		{30, 200, 30, 255},
		{30, 30, 200, 255},
		{240, 240, 240, 128},
	}
	return newImage(w, h, func(x, y int) color.NRGBA {
		return palette[(x/4+2*(y/4))%len(palette)]
	})
}

// columnChecker is the 2x2 image with a black left column and a white right
// column.
func columnChecker() *image.NRGBA {
	black := color.NRGBA{0, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}
	return newImage(2, 2, func(x, _ int) color.NRGBA {
		if x == 0 {
			return black
		}
		return white
	})
}

// bruteMoments scans every pixel of r.
func bruteMoments(img *image.NRGBA, r image.Rectangle) Moments {
	var m Moments
	b := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			v := [numChannels]uint64{uint64(c.R), uint64(c.G), uint64(c.B), uint64(c.A)}
			m.N++
			for i := range v {
				m.Sum[i] += v[i]
				m.Sq[i] += v[i] * v[i]
			}
		}
	}
	return m
}

// bruteScore computes the default-weight score in floating point directly
// from the pixels.
func bruteScore(img *image.NRGBA, r image.Rectangle) float64 {
	m := bruteMoments(img, r)
	n := float64(m.N)
	var score float64
	for c := Red; c <= Blue; c++ {
		mean := float64(m.Sum[c]) / n
		score += float64(m.Sq[c])/n - mean*mean
	}
	if score < 0 {
		return 0
	}
	return score
}

func mustStats(img *image.NRGBA) *Stats {
	s, err := NewStats(img)
	if err != nil {
		panic(err)
	}
	return s
}
