package partition

import (
	"image"
	"math"
)

// Axis is the orientation of a cut line.
type Axis int

const (
	// Horizontal cuts along a horizontal line; Split.Position is a y
	// coordinate and the halves are top and bottom.
	Horizontal Axis = iota
	// Vertical cuts along a vertical line; Split.Position is an x coordinate
	// and the halves are left and right.
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Split is the outcome of evaluating one region.
type Split struct {
	Axis     Axis
	Position int

	// Cost is the combined variance of both halves: the sum of each half's
	// score weighted by its pixel count.
	Cost float64

	// First is the top or left half, Second the bottom or right half.
	First  Region
	Second Region
}

// costEpsilon is the relative difference under which two costs are equal.
const costEpsilon = 1e-12

// Evaluator searches for the best split of a region using the summed-area
// tables. It is stateless apart from its read-only inputs and safe for
// concurrent use.
type Evaluator struct {
	stats   *Stats
	weights Weights
}

// NewEvaluator returns an Evaluator over stats. Zero weights select
// DefaultWeights.
func NewEvaluator(stats *Stats, weights Weights) *Evaluator {
	return &Evaluator{stats: stats, weights: weights.orDefault()}
}

// Region builds a Region for bounds with its statistics and score.
func (e *Evaluator) Region(bounds image.Rectangle) Region {
	m := e.stats.Moments(bounds)
	return e.region(bounds, m)
}

func (e *Evaluator) region(bounds image.Rectangle, m Moments) Region {
	return Region{Bounds: bounds, Moments: m, Score: e.weights.Score(m)}
}

// Best returns the split of r with the lowest combined variance.
//
// Every interior coordinate of both axes is a candidate, so the cost is
// O(width + height) table lookups. Among candidates with equal cost the one
// closest to the midpoint of its axis wins; after that the horizontal axis and
// then the lower position win.
//
// The second return value is false when r is a single pixel and cannot be
// split.
func (e *Evaluator) Best(r Region) (Split, bool) {
	b := r.Bounds
	best := Split{Cost: math.Inf(1)}
	bestDist := math.MaxInt
	found := false

	consider := func(axis Axis, pos, lo, hi int, first image.Rectangle) {
		fm := e.stats.Moments(first)
		sm := r.Moments.Sub(fm)
		cost := e.weights.cost(fm) + e.weights.cost(sm)
		dist := abs(2*pos - lo - hi)

		if found {
			switch compareCost(cost, best.Cost) {
			case 1:
				return
			case 0:
				if dist >= bestDist {
					return
				}
			}
		}

		var second image.Rectangle
		if axis == Horizontal {
			second = image.Rect(b.Min.X, pos, b.Max.X, b.Max.Y)
		} else {
			second = image.Rect(pos, b.Min.Y, b.Max.X, b.Max.Y)
		}
		best = Split{
			Axis:     axis,
			Position: pos,
			Cost:     cost,
			First:    e.region(first, fm),
			Second:   e.region(second, sm),
		}
		bestDist = dist
		found = true
	}

	for y := b.Min.Y + 1; y < b.Max.Y; y++ {
		consider(Horizontal, y, b.Min.Y, b.Max.Y, image.Rect(b.Min.X, b.Min.Y, b.Max.X, y))
	}
	for x := b.Min.X + 1; x < b.Max.X; x++ {
		consider(Vertical, x, b.Min.X, b.Max.X, image.Rect(b.Min.X, b.Min.Y, x, b.Max.Y))
	}

	return best, found
}

// compareCost returns -1, 0 or 1 as a is less than, equal to or greater than
// b, treating values within costEpsilon of each other as equal.
func compareCost(a, b float64) int {
	diff := a - b
	scale := math.Max(math.Abs(a), math.Abs(b))
	if math.Abs(diff) <= costEpsilon*scale {
		return 0
	}
	if diff < 0 {
		return -1
	}
	return 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
