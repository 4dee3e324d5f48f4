package weighted

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChooseDistribution(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	weights := []float64{1, 2, 0, 1}
	counts := make([]int, len(weights))
	n := 40000
	for i := 0; i < n; i++ {
		counts[Choose(r, weights)]++
	}
	assert.Zero(t, counts[2], "zero weight is never picked")
	assert.InDelta(t, 0.25, float64(counts[0])/float64(n), 0.02)
	assert.InDelta(t, 0.5, float64(counts[1])/float64(n), 0.02)
	assert.InDelta(t, 0.25, float64(counts[3])/float64(n), 0.02)
}

func TestChooseDegenerate(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	assert.Equal(t, -1, Choose(r, nil))
	assert.Equal(t, 0, Choose(r, []float64{5}))

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		seen[Choose(r, []float64{0, 0, 0})] = true
	}
	assert.Len(t, seen, 3, "zero total falls back to a uniform pick")
}

func TestChooseDeterministic(t *testing.T) {
	weights := []float64{0.3, 1.2, 4, 0.1}
	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		assert.Equal(t, Choose(a, weights), Choose(b, weights))
	}
}
