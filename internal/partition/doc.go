// Package partition implements the adaptive region partitioning engine.
//
// The engine approximates a raster image with a set of axis-aligned flat-color
// rectangles. Long runs of identical pixels compress much better under lossless
// PNG encoders, so the output trades fine detail for file size while keeping
// the overall structure of the image.
//
// # Pipeline
//
// The work is split across four components:
//
//  1. Stats: summed-area tables built once per image. Any rectangle's pixel
//     count, channel sums and channel sums of squares are available in O(1).
//  2. Evaluator: for one region, tries every interior cut line on both axes
//     and returns the split with the lowest combined variance, in O(W+H).
//  3. Builder: a greedy best-first loop. The region with the highest variance
//     score is split next until every region is within tolerance.
//  4. Render: fills every leaf region with its mean color.
//
// # Coordinate System
//
// Regions are half-open rectangles [X0,X1) x [Y0,Y1) expressed as
// image.Rectangle values relative to the top-left pixel of the source image,
// which is always (0,0) regardless of the source bounds.
//
// # Variance Score
//
// For a region of n pixels with channel sum S and channel sum of squares Q,
// the channel variance is Q/n - (S/n)^2. The region score is the weighted sum
// of the red, green and blue variances. Alpha does not drive splitting, but
// it is averaged per region like the color channels when rendering.
//
// The centered moment n*Q - S^2 is computed exactly in 128-bit integer
// arithmetic, so uniform regions always score exactly zero.
//
// # Determinism
//
// Partitioning is a pure function of the image, the tolerance and the channel
// weights. Every split depends only on the region being split and the
// read-only tables, so the sequential and parallel builders produce the same
// leaf set.
package partition
