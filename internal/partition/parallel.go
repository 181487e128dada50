package partition

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BuildParallel partitions the image behind eval using up to workers
// goroutines and returns the same leaf set as Builder.Build.
//
// Work proceeds in waves: every outstanding region above tolerance is split
// concurrently, and the halves form the next wave. Each split reads only its
// own region and the immutable tables, so the result does not depend on
// scheduling.
//
// # Errors
//
//   - Returns ErrInvalidParameter if tolerance is negative or NaN, or if
//     workers is less than 1.
func BuildParallel(eval *Evaluator, tolerance float64, workers int) ([]Region, error) {
	if err := validateTolerance(tolerance); err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, fmt.Errorf("%w: workers %d must be >= 1", ErrInvalidParameter, workers)
	}

	var leaves []Region
	wave := []Region{eval.Region(eval.stats.Bounds())}

	for len(wave) > 0 {
		splits := make([]Split, len(wave))
		done := make([]bool, len(wave))

		var g errgroup.Group
		g.SetLimit(workers)
		for i := range wave {
			if isLeaf(wave[i], tolerance) {
				continue
			}
			g.Go(func() error {
				splits[i], done[i] = eval.Best(wave[i])
				return nil
			})
		}
		_ = g.Wait()

		next := make([]Region, 0, 2*len(wave))
		for i, r := range wave {
			if !done[i] {
				leaves = append(leaves, r)
				continue
			}
			next = append(next, splits[i].First, splits[i].Second)
		}
		wave = next
	}

	sortLeaves(leaves)
	return leaves, nil
}
