package partition

import (
	"fmt"
	"image"
)

// Channel identifies one component of an NRGBA pixel.
type Channel int

// Channels in NRGBA byte order.
const (
	Red Channel = iota
	Green
	Blue
	Alpha
)

const numChannels = 4

// Stats answers rectangle queries over an image in constant time.
//
// It holds one summed-area table of channel values and one of squared channel
// values per channel. Each table is (W+1) x (H+1) with a zero first row and
// column, so entry (x, y) is the total over [0,x) x [0,y) and any rectangle is
// four lookups away.
//
// Stats is read-only after construction and safe for concurrent use.
type Stats struct {
	width  int
	height int
	stride int

	sum [numChannels][]uint64
	sq  [numChannels][]uint64
}

// NewStats builds the summed-area tables for img.
//
// The image bounds may have any origin; table coordinates are always relative
// to img.Bounds().Min.
//
// # Errors
//
//   - Returns ErrInvalidImage if img is nil or has zero width or height.
func NewStats(img *image.NRGBA) (*Stats, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, w, h)
	}

	s := &Stats{
		width:  w,
		height: h,
		stride: w + 1,
	}
	size := (w + 1) * (h + 1)
	for c := 0; c < numChannels; c++ {
		s.sum[c] = make([]uint64, size)
		s.sq[c] = make([]uint64, size)
	}

	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		above := y * s.stride
		cur := above + s.stride

		var rowSum, rowSq [numChannels]uint64
		for x := 0; x < w; x++ {
			px := row[4*x : 4*x+4 : 4*x+4]
			for c := 0; c < numChannels; c++ {
				v := uint64(px[c])
				rowSum[c] += v
				rowSq[c] += v * v
				s.sum[c][cur+x+1] = s.sum[c][above+x+1] + rowSum[c]
				s.sq[c][cur+x+1] = s.sq[c][above+x+1] + rowSq[c]
			}
		}
	}

	return s, nil
}

// Width returns the image width in pixels.
func (s *Stats) Width() int { return s.width }

// Height returns the image height in pixels.
func (s *Stats) Height() int { return s.height }

// Bounds returns the rectangle covering the whole image.
func (s *Stats) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// PixelCount returns the number of pixels in r.
func (s *Stats) PixelCount(r image.Rectangle) uint64 {
	return uint64(r.Dx()) * uint64(r.Dy())
}

// Sum returns the total of channel c over r.
func (s *Stats) Sum(r image.Rectangle, c Channel) uint64 {
	return s.rect(s.sum[c], r)
}

// SumSquares returns the total of squared values of channel c over r.
func (s *Stats) SumSquares(r image.Rectangle, c Channel) uint64 {
	return s.rect(s.sq[c], r)
}

// Moments gathers every statistic of r in one call.
func (s *Stats) Moments(r image.Rectangle) Moments {
	m := Moments{N: s.PixelCount(r)}
	for c := 0; c < numChannels; c++ {
		m.Sum[c] = s.rect(s.sum[c], r)
		m.Sq[c] = s.rect(s.sq[c], r)
	}
	return m
}

// rect combines four corner lookups. Intermediate terms may wrap around, the
// final value never does.
func (s *Stats) rect(t []uint64, r image.Rectangle) uint64 {
	i00 := r.Min.Y*s.stride + r.Min.X
	i01 := r.Min.Y*s.stride + r.Max.X
	i10 := r.Max.Y*s.stride + r.Min.X
	i11 := r.Max.Y*s.stride + r.Max.X
	return t[i11] - t[i01] - t[i10] + t[i00]
}
