// Package imaging provides the image I/O and inspection helpers around the
// partitioning engine.
//
// It decodes source files into zero-origin *image.NRGBA buffers, encodes
// results as PNG, and offers tools to judge a partitioned image: color
// descriptions, a pixel-level comparison against the source, region outline
// overlays and small inline previews.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner. Rectangles are half-open: Min is inclusive, Max exclusive.
//
// # Color Representation
//
// Images are handled as non-premultiplied RGBA (image.NRGBA) so that color
// and alpha can be averaged independently. Colors are reported as:
//   - Hex: "#rrggbb" (alpha excluded)
//   - RGBA: 8-bit components with alpha
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Every other function is stateless
// and may be called concurrently as long as the images passed in are not
// being modified.
package imaging
