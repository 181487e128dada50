package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func createInMemoryImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestCompare_Identical(t *testing.T) {
	a := createInMemoryImage(40, 30, color.NRGBA{12, 34, 56, 255})
	b := createInMemoryImage(40, 30, color.NRGBA{12, 34, 56, 255})

	res, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !res.Identical {
		t.Error("Identical: got false, want true")
	}
	if res.MSE != 0 || res.PSNR != 0 || res.PixelsDifferent != 0 {
		t.Errorf("got MSE %v PSNR %v different %d, want zeros", res.MSE, res.PSNR, res.PixelsDifferent)
	}
	if res.TotalPixels != 1200 {
		t.Errorf("TotalPixels: got %d, want 1200", res.TotalPixels)
	}
}

func TestCompare_KnownError(t *testing.T) {
	a := createInMemoryImage(10, 10, color.NRGBA{100, 100, 100, 255})
	b := createInMemoryImage(10, 10, color.NRGBA{100, 100, 100, 255})
	// The first row is off by 10 in red.
	for x := 0; x < 10; x++ {
		b.SetNRGBA(x, 0, color.NRGBA{110, 100, 100, 255})
	}

	res, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	// 10 pixels * 100 squared error over 400 channel samples.
	if res.MSE != 2.5 {
		t.Errorf("MSE: got %v, want 2.5", res.MSE)
	}
	wantPSNR := 10 * math.Log10(255*255/2.5)
	if math.Abs(res.PSNR-wantPSNR) > 1e-3 {
		t.Errorf("PSNR: got %v, want %v", res.PSNR, wantPSNR)
	}
	if res.PixelsDifferent != 10 {
		t.Errorf("PixelsDifferent: got %d, want 10", res.PixelsDifferent)
	}
	if res.MaxDeltaE <= 0 || res.MeanDeltaE <= 0 || res.MeanDeltaE > res.MaxDeltaE {
		t.Errorf("delta E: mean %v max %v", res.MeanDeltaE, res.MaxDeltaE)
	}
}

func TestCompare_AlphaCounts(t *testing.T) {
	a := createInMemoryImage(2, 2, color.NRGBA{50, 50, 50, 255})
	b := createInMemoryImage(2, 2, color.NRGBA{50, 50, 50, 0})

	res, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if res.PixelsDifferent != 4 {
		t.Errorf("PixelsDifferent: got %d, want 4", res.PixelsDifferent)
	}
	if res.MeanDeltaE != 0 {
		t.Errorf("MeanDeltaE: got %v, want 0", res.MeanDeltaE)
	}
}

func TestCompare_SizeMismatch(t *testing.T) {
	a := createInMemoryImage(10, 10, color.NRGBA{})
	b := createInMemoryImage(10, 11, color.NRGBA{})

	if _, err := Compare(a, b); err == nil {
		t.Error("Compare should fail for different sizes")
	}
	if _, err := Compare(image.NewNRGBA(image.Rectangle{}), image.NewNRGBA(image.Rectangle{})); err == nil {
		t.Error("Compare should fail for empty images")
	}
}
