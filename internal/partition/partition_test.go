package partition

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPartition_ColumnChecker(t *testing.T) {
	img := columnChecker()

	exact, err := Partition(img, 0)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if diff := cmp.Diff(img.Pix, exact.Pix); diff != "" {
		t.Errorf("tolerance 0 changed pixels (-want +got):\n%s", diff)
	}

	flat, err := Partition(img, 1e5)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	want := color.NRGBA{128, 128, 128, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := flat.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPartition_Errors(t *testing.T) {
	tests := []struct {
		name      string
		img       image.Image
		tolerance float64
		want      error
	}{
		{"nil image", nil, 1, ErrInvalidImage},
		{"empty image", image.NewRGBA(image.Rect(0, 0, 0, 0)), 1, ErrInvalidImage},
		{"zero height", image.NewNRGBA(image.Rect(0, 0, 4, 0)), 1, ErrInvalidImage},
		{"negative tolerance", noiseImage(2, 2), -0.5, ErrInvalidParameter},
		{"nan tolerance", noiseImage(2, 2), math.NaN(), ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(tt.img, tt.tolerance)
			if !errors.Is(err, tt.want) {
				t.Errorf("Partition error: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPartition_AlphaAveragedIndependently(t *testing.T) {
	img := newImage(4, 2, func(x, _ int) color.NRGBA {
		return color.NRGBA{R: 10, G: 20, B: 30, A: uint8(255 * (x % 2))}
	})

	out, err := Partition(img, 1)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	want := color.NRGBA{10, 20, 30, 128}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got := out.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPartition_TransparentAndOpaque(t *testing.T) {
	img := newImage(4, 4, func(x, _ int) color.NRGBA {
		if x < 2 {
			return color.NRGBA{}
		}
		return color.NRGBA{R: 255, A: 255}
	})

	res, err := Run(img, Options{Tolerance: 1e9})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Leaves) != 1 {
		t.Fatalf("leaves: got %d, want 1", len(res.Leaves))
	}
	if got := res.Image.NRGBAAt(0, 0); got.A != 128 {
		t.Errorf("alpha: got %d, want 128", got.A)
	}
}

func TestPartition_Idempotent(t *testing.T) {
	tests := []struct {
		name      string
		img       *image.NRGBA
		tolerance float64
	}{
		{"noise exact", noiseImage(12, 9), 0},
		{"noise collapsed", noiseImage(12, 9), math.Inf(1)},
		{"blocks", blockImage(16, 12), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once, err := Partition(tt.img, tt.tolerance)
			if err != nil {
				t.Fatalf("Partition failed: %v", err)
			}
			twice, err := Partition(once, tt.tolerance)
			if err != nil {
				t.Fatalf("Partition failed: %v", err)
			}
			if diff := cmp.Diff(once.Pix, twice.Pix); diff != "" {
				t.Errorf("second pass changed pixels (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestPartition_ConvertsOtherImageTypes(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 9, 7))
	for y := 5; y < 7; y++ {
		for x := 5; x < 9; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 7, 255})
		}
	}

	out, err := Partition(img, 0)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds: got %v, want (0,0)-(4,2)", out.Bounds())
	}
	if got := out.NRGBAAt(1, 1); got != (color.NRGBA{60, 60, 7, 255}) {
		t.Errorf("pixel (1,1): got %v, want {60 60 7 255}", got)
	}
}

func TestRun_Options(t *testing.T) {
	img := noiseImage(16, 10)

	seq, err := Run(img, Options{Tolerance: 300})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	par, err := Run(img, Options{Tolerance: 300, Workers: 4})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if seq.Width != 16 || seq.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 16x10", seq.Width, seq.Height)
	}
	if diff := cmp.Diff(seq.Image.Pix, par.Image.Pix); diff != "" {
		t.Errorf("parallel output differs (-seq +par):\n%s", diff)
	}

	redOnly, err := Run(img, Options{Tolerance: 300, Weights: Weights{1, 0, 0}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	checkTiling(t, redOnly.Leaves, 16, 10)
	for _, r := range redOnly.Leaves {
		if v := r.Moments.Variance(Red); v > 300 {
			t.Errorf("leaf %v red variance %v above tolerance", r.Bounds, v)
		}
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"zero", Options{}, true},
		{"infinite tolerance", Options{Tolerance: math.Inf(1)}, true},
		{"negative workers", Options{Workers: -1}, false},
		{"negative weight", Options{Weights: Weights{-1, 0, 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate: got %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
