package partition

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Options controls a partitioning run.
type Options struct {
	// Tolerance is the largest variance score a leaf may keep. Zero reproduces
	// the input exactly; larger values give fewer, larger regions.
	Tolerance float64

	// Workers selects the parallel builder when greater than zero. Zero runs
	// the sequential builder.
	Workers int

	// Weights scales the per-channel variances in the score. The zero value
	// means DefaultWeights.
	Weights Weights
}

// Validate checks opts for out-of-range values.
func (o Options) Validate() error {
	if err := validateTolerance(o.Tolerance); err != nil {
		return err
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers %d must be >= 0", ErrInvalidParameter, o.Workers)
	}
	return o.Weights.Validate()
}

// Result is the outcome of a partitioning run.
type Result struct {
	// Width and Height are the dimensions of both source and output.
	Width  int
	Height int

	// Leaves is the final partition sorted by top edge, then left edge.
	Leaves []Region

	// Image is the flat-color rendering of Leaves.
	Image *image.NRGBA
}

// Partition approximates img with flat-color rectangles using the default
// channel weights and the sequential builder.
//
// The returned image has the same dimensions as img and a zero origin. Every
// pixel holds the rounded mean color, alpha included, of the region it falls
// in.
//
// # Errors
//
//   - ErrInvalidParameter if tolerance is negative or NaN.
//   - ErrInvalidImage if img is nil or empty.
func Partition(img image.Image, tolerance float64) (*image.NRGBA, error) {
	res, err := Run(img, Options{Tolerance: tolerance})
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// Run partitions img according to opts and returns the leaf set along with the
// rendered image.
func Run(img image.Image, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	src, err := toNRGBA(img)
	if err != nil {
		return nil, err
	}
	stats, err := NewStats(src)
	if err != nil {
		return nil, err
	}
	eval := NewEvaluator(stats, opts.Weights)

	var leaves []Region
	if opts.Workers > 0 {
		leaves, err = BuildParallel(eval, opts.Tolerance, opts.Workers)
		if err != nil {
			return nil, err
		}
	} else {
		b, err := NewBuilder(eval, opts.Tolerance)
		if err != nil {
			return nil, err
		}
		leaves = b.Build()
	}

	return &Result{
		Width:  stats.Width(),
		Height: stats.Height(),
		Leaves: leaves,
		Image:  Render(leaves, stats.Width(), stats.Height()),
	}, nil
}

// toNRGBA returns img as a non-premultiplied buffer, converting only when
// needed. Dimensions are checked first so no copy is made of an empty image.
func toNRGBA(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImage, b.Dx(), b.Dy())
	}
	if n, ok := img.(*image.NRGBA); ok {
		return n, nil
	}
	return imaging.Clone(img), nil
}
