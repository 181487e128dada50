package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// Outline draws the border of every rectangle onto a copy of img.
//
// It is used to inspect a partition: passing the leaf rectangles shows where
// the cuts fell. Rectangles are in zero-origin image coordinates; parts
// outside the image are clipped.
//
// lineHex accepts "#RRGGBB" or "#RRGGBBAA". An unparsable color falls back to
// semi-transparent red.
func Outline(img image.Image, rects []image.Rectangle, lineHex string) *image.NRGBA {
	lineColor, err := parseHexColor(lineHex)
	if err != nil {
		lineColor = color.NRGBA{255, 0, 0, 128}
	}

	src := ToNRGBA(img)
	result := image.NewNRGBA(src.Bounds())
	draw.Draw(result, result.Bounds(), src, image.Point{}, draw.Src)

	bounds := result.Bounds()
	for _, r := range rects {
		r = r.Intersect(bounds)
		if r.Empty() {
			continue
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			blend(result, x, r.Min.Y, lineColor)
			if r.Dy() > 1 {
				blend(result, x, r.Max.Y-1, lineColor)
			}
		}
		for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
			blend(result, r.Min.X, y, lineColor)
			if r.Dx() > 1 {
				blend(result, r.Max.X-1, y, lineColor)
			}
		}
	}

	return result
}

// blend composites c over the pixel at (x, y).
func blend(img *image.NRGBA, x, y int, c color.NRGBA) {
	draw.Draw(img, image.Rect(x, y, x+1, y+1), image.NewUniform(c), image.Point{}, draw.Over)
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
