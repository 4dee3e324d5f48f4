// Package weighted samples an index from a list of non-negative weights.
package weighted

import (
	"math"
	"math/rand"
	"sort"
)

// Choose draws one index with probability proportional to its weight.
// Prefix sums form the cumulative distribution, one uniform draw picks
// the bucket. When the total is not positive the draw is uniform.
func Choose(r *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w > 0 {
			total += w
		}
		cumulative[i] = total
	}
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return r.Intn(len(weights))
	}
	x := r.Float64() * total
	i := sort.Search(len(cumulative), func(i int) bool {
		return cumulative[i] > x
	})
	if i == len(cumulative) {
		// x can round up to total
		i = len(cumulative) - 1
	}
	return i
}
