package imaging

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// PreviewResult contains a downscaled PNG suitable for inline display.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview fits img within maxSize x maxSize pixels and encodes it as base64
// PNG. Images already small enough are encoded unchanged.
//
// Scaling uses nearest-neighbor sampling so flat regions keep their hard
// edges.
func Preview(img image.Image, maxSize int) (*PreviewResult, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid preview size %d", maxSize)
	}

	out := img
	b := img.Bounds()
	if b.Dx() > maxSize || b.Dy() > maxSize {
		out = imaging.Fit(img, maxSize, maxSize, imaging.NearestNeighbor)
	}

	data, err := EncodePNG(out, png.BestSpeed)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}
