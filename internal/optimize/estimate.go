package optimize

import (
	"fmt"
	"image"

	"github.com/klauspost/compress/zstd"
)

// EstimateSize returns the zstd-compressed size of the raw pixel bytes of img.
//
// It is a quick, encoder-independent measure of how much redundancy the flat
// regions introduced, useful for comparing tolerances without running the
// full PNG pipeline.
func EstimateSize(img *image.NRGBA) (int, error) {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		return 0, fmt.Errorf("zstd encoder: %w", err)
	}
	defer enc.Close()

	b := img.Bounds()
	raw := make([]byte, 0, 4*b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		raw = append(raw, img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]...)
	}
	return len(enc.EncodeAll(raw, nil)), nil
}
