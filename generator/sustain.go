package generator

import "github.com/muton2008/music-generator/music"

// sustainProb is the chance of holding a note that was already held run times
func (g *Generator) sustainProb(run int) float64 {
	if run < len(g.cfg.SustainProbs) {
		return g.cfg.SustainProbs[run]
	}
	return g.cfg.Weights.SustainFloor
}

// sustain holds note over the steps after step and returns how many
// cells it filled. A strong beat always ends the hold.
func (g *Generator) sustain(grid music.Grid, step int, note music.Pitch) (run int) {
	for j := step + 1; j < len(grid); j++ {
		if g.isStrongBeat(j) {
			break
		}
		if g.rng.Float64() >= g.sustainProb(run) {
			break
		}
		grid[j] = note
		run++
	}
	return
}
