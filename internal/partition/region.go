package partition

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/bits"
)

// Moments holds the raw statistics of a rectangle: pixel count, per-channel
// sums and per-channel sums of squares, indexed by Channel.
type Moments struct {
	N   uint64
	Sum [numChannels]uint64
	Sq  [numChannels]uint64
}

// Sub returns m minus o. It is used to derive the second half of a split from
// its parent without another table lookup.
func (m Moments) Sub(o Moments) Moments {
	r := Moments{N: m.N - o.N}
	for c := 0; c < numChannels; c++ {
		r.Sum[c] = m.Sum[c] - o.Sum[c]
		r.Sq[c] = m.Sq[c] - o.Sq[c]
	}
	return r
}

// Deviation returns n*Q - S^2 for channel c, which equals n^2 times the
// channel variance. It is exact for any image that fits in memory.
func (m Moments) Deviation(c Channel) float64 {
	hi1, lo1 := bits.Mul64(m.N, m.Sq[c])
	hi2, lo2 := bits.Mul64(m.Sum[c], m.Sum[c])
	lo, borrow := bits.Sub64(lo1, lo2, 0)
	hi, borrow := bits.Sub64(hi1, hi2, borrow)
	if borrow != 0 {
		// Inconsistent moments; a true deviation is never negative.
		return 0
	}
	return float64(hi)*0x1p64 + float64(lo)
}

// Variance returns the population variance of channel c.
func (m Moments) Variance(c Channel) float64 {
	if m.N == 0 {
		return 0
	}
	n := float64(m.N)
	return clamp(m.Deviation(c) / (n * n))
}

// Mean returns the rounded per-channel average as a non-premultiplied color.
// Rounding is half up: floor((2S + n) / 2n).
func (m Moments) Mean() color.NRGBA {
	if m.N == 0 {
		return color.NRGBA{}
	}
	var v [numChannels]uint8
	for c := 0; c < numChannels; c++ {
		v[c] = uint8((2*m.Sum[c] + m.N) / (2 * m.N))
	}
	return color.NRGBA{R: v[Red], G: v[Green], B: v[Blue], A: v[Alpha]}
}

// Flat reports whether every pixel, alpha included, has the same value.
func (m Moments) Flat() bool {
	for c := 0; c < numChannels; c++ {
		if m.Deviation(Channel(c)) != 0 {
			return false
		}
	}
	return true
}

// Weights scales the red, green and blue variances when they are combined
// into a region score. The zero value selects DefaultWeights.
type Weights [3]float64

// DefaultWeights counts every color channel equally.
var DefaultWeights = Weights{1, 1, 1}

func (w Weights) orDefault() Weights {
	if w == (Weights{}) {
		return DefaultWeights
	}
	return w
}

// Validate checks that every weight is finite and non-negative.
func (w Weights) Validate() error {
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: weight %d is %v, must be finite and >= 0", ErrInvalidParameter, i, v)
		}
	}
	return nil
}

// deviation returns the weighted sum of the color channel deviations.
func (w Weights) deviation(m Moments) float64 {
	var d float64
	for c := Red; c <= Blue; c++ {
		d += w[c] * m.Deviation(c)
	}
	return d
}

// Score returns the variance score of m: sum over R, G, B of w_c * variance_c.
func (w Weights) Score(m Moments) float64 {
	if m.N == 0 {
		return 0
	}
	n := float64(m.N)
	return clamp(w.deviation(m) / (n * n))
}

// cost returns n times the score of m, the contribution of one half of a split
// to the combined variance.
func (w Weights) cost(m Moments) float64 {
	if m.N == 0 {
		return 0
	}
	return clamp(w.deviation(m) / float64(m.N))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Region is one axis-aligned rectangle of the partition with its cached
// statistics. Regions are values; splitting produces two new regions and
// never modifies the original.
type Region struct {
	Bounds  image.Rectangle
	Moments Moments
	Score   float64
}

// Area returns the number of pixels covered by the region.
func (r Region) Area() int {
	return r.Bounds.Dx() * r.Bounds.Dy()
}

// Splittable reports whether the region is larger than one pixel.
func (r Region) Splittable() bool {
	return r.Bounds.Dx() > 1 || r.Bounds.Dy() > 1
}

// Color returns the color the region is rendered with.
func (r Region) Color() color.NRGBA {
	return r.Moments.Mean()
}
