package partition

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
)

// Builder runs the greedy refinement loop over one image.
//
// Outstanding regions sit in a max-heap ordered by score, then area (larger
// first), then position. The region with the highest score is always refined
// next. The heap holds only the current frontier; a split region is dropped as
// soon as its halves are pushed.
type Builder struct {
	eval      *Evaluator
	tolerance float64

	queue  regionQueue
	leaves []Region
}

// NewBuilder returns a Builder ready to partition the image behind eval.
//
// # Errors
//
//   - Returns ErrInvalidParameter if tolerance is negative or NaN.
func NewBuilder(eval *Evaluator, tolerance float64) (*Builder, error) {
	if err := validateTolerance(tolerance); err != nil {
		return nil, err
	}
	return &Builder{eval: eval, tolerance: tolerance}, nil
}

// Build partitions the image and returns the leaf set sorted by top edge, then
// left edge. The leaves tile the image exactly.
//
// Build may be called more than once; each call starts from the whole image.
func (b *Builder) Build() []Region {
	b.queue = b.queue[:0]
	b.leaves = nil

	heap.Push(&b.queue, b.eval.Region(b.eval.stats.Bounds()))
	for b.queue.Len() > 0 {
		r := heap.Pop(&b.queue).(Region)

		if isLeaf(r, b.tolerance) {
			b.leaves = append(b.leaves, r)
			continue
		}
		s, ok := b.eval.Best(r)
		if !ok {
			b.leaves = append(b.leaves, r)
			continue
		}
		heap.Push(&b.queue, s.First)
		heap.Push(&b.queue, s.Second)
	}

	sortLeaves(b.leaves)
	return b.leaves
}

// isLeaf reports whether r is finished at the given tolerance. A zero
// tolerance demands exact reproduction, so alpha must be uniform too.
func isLeaf(r Region, tolerance float64) bool {
	if !r.Splittable() {
		return true
	}
	if r.Score > tolerance {
		return false
	}
	return tolerance > 0 || r.Moments.Flat()
}

func validateTolerance(tolerance float64) error {
	if math.IsNaN(tolerance) || tolerance < 0 {
		return fmt.Errorf("%w: tolerance %v must be >= 0", ErrInvalidParameter, tolerance)
	}
	return nil
}

func sortLeaves(leaves []Region) {
	sort.Slice(leaves, func(i, j int) bool {
		a, b := leaves[i].Bounds.Min, leaves[j].Bounds.Min
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

// regionQueue implements heap.Interface over region values.
type regionQueue []Region

func (q regionQueue) Len() int { return len(q) }

func (q regionQueue) Less(i, j int) bool {
	a, b := &q[i], &q[j]
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if aa, ba := a.Area(), b.Area(); aa != ba {
		return aa > ba
	}
	if a.Bounds.Min.Y != b.Bounds.Min.Y {
		return a.Bounds.Min.Y < b.Bounds.Min.Y
	}
	return a.Bounds.Min.X < b.Bounds.Min.X
}

func (q regionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *regionQueue) Push(x any) { *q = append(*q, x.(Region)) }

func (q *regionQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
