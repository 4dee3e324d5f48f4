// Package trend produces the slow per-bar pitch drift that nudges a
// phrase up or down.
package trend

import (
	perlin "github.com/aquilax/go-perlin"
)

// Step is the distance between bars in noise space. Larger steps make
// neighbouring bars less related.
const Step = 0.2

const (
	alpha   = 2.0
	beta    = 2.0
	octaves = 3
)

// Curve samples one-dimensional Perlin noise
type Curve struct {
	noise *perlin.Perlin
}

// New returns a curve that is fully determined by seed
func New(seed int64) *Curve {
	return &Curve{noise: perlin.NewPerlin(alpha, beta, octaves, seed)}
}

// Sample returns the raw noise of each bar, nominally in [-1,1]
func (c *Curve) Sample(bars int) []float64 {
	if bars < 0 {
		bars = 0
	}
	values := make([]float64, bars)
	for i := range values {
		values[i] = c.noise.Noise1D(float64(i) * Step)
	}
	return values
}

// Offsets scales the noise of each bar to a pitch offset in semitones
func (c *Curve) Offsets(bars int, strength float64, span int) []float64 {
	values := c.Sample(bars)
	for i := range values {
		values[i] *= strength * float64(span)
	}
	return values
}
