package imaging

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
)

// CompareResult quantifies how far a partitioned image strays from its
// source.
type CompareResult struct {
	// MSE is the mean squared error per channel over R, G, B and A.
	MSE float64 `json:"mse"`

	// PSNR is the peak signal-to-noise ratio in dB. It is left at 0 for
	// identical images, which have Identical set instead.
	PSNR float64 `json:"psnr"`

	// MeanDeltaE and MaxDeltaE are CIE76 color differences in CIELAB space.
	MeanDeltaE float64 `json:"mean_delta_e"`
	MaxDeltaE  float64 `json:"max_delta_e"`

	// PixelsDifferent counts pixels that differ in any channel.
	PixelsDifferent int `json:"pixels_different"`
	TotalPixels     int `json:"total_pixels"`

	Identical bool `json:"identical"`
}

type compareAcc struct {
	sq      float64
	deltaE  float64
	maxE    float64
	changed int
}

// Compare measures the difference between two images of equal size.
//
// Both images are compared pixel by pixel from their top-left corners, rows in
// parallel.
//
// # Errors
//
//   - Returns error if the dimensions differ or either image is empty.
func Compare(a, b image.Image) (*CompareResult, error) {
	na, nb := ToNRGBA(a), ToNRGBA(b)
	ra, rb := na.Bounds(), nb.Bounds()
	if ra.Dx() != rb.Dx() || ra.Dy() != rb.Dy() {
		return nil, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", ra.Dx(), ra.Dy(), rb.Dx(), rb.Dy())
	}
	if ra.Empty() {
		return nil, fmt.Errorf("cannot compare empty images")
	}
	w, h := ra.Dx(), ra.Dy()

	var mu sync.Mutex
	var total compareAcc
	parallel.Line(h, func(start, end int) {
		var acc compareAcc
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				pa, pb := na.NRGBAAt(x, y), nb.NRGBAAt(x, y)
				if pa == pb {
					continue
				}
				acc.changed++
				for _, d := range [4]float64{
					float64(pa.R) - float64(pb.R),
					float64(pa.G) - float64(pb.G),
					float64(pa.B) - float64(pb.B),
					float64(pa.A) - float64(pb.A),
				} {
					acc.sq += d * d
				}
				e := DeltaE(pa, pb)
				acc.deltaE += e
				acc.maxE = math.Max(acc.maxE, e)
			}
		}
		mu.Lock()
		total.sq += acc.sq
		total.deltaE += acc.deltaE
		total.maxE = math.Max(total.maxE, acc.maxE)
		total.changed += acc.changed
		mu.Unlock()
	})

	pixels := w * h
	res := &CompareResult{
		MSE:             total.sq / float64(4*pixels),
		MeanDeltaE:      round(total.deltaE/float64(pixels), 4),
		MaxDeltaE:       round(total.maxE, 4),
		PixelsDifferent: total.changed,
		TotalPixels:     pixels,
		Identical:       total.changed == 0,
	}
	if res.MSE > 0 {
		res.PSNR = round(10*math.Log10(255*255/res.MSE), 4)
	}
	res.MSE = round(res.MSE, 4)
	return res, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
