package generator

import (
	"github.com/muton2008/music-generator/music"
	"github.com/muton2008/music-generator/weighted"
)

type stepState struct {
	step     int
	position int
	strong   bool
	prev     music.Pitch
	target   music.Pitch
}

// rest draws whether the step is silent. Strong beats rest less often,
// unless RestProb is 1 which silences everything.
func (g *Generator) rest(strong bool) bool {
	p := g.cfg.RestProb
	if p >= 1 {
		return true
	}
	if strong {
		p *= g.cfg.Weights.StrongBeatRestScale
	}
	return g.rng.Float64() < p
}

// candidates returns the scale pitches within MaxStepJump of prev,
// or just prev when none are.
func (g *Generator) candidates(prev music.Pitch) []music.Pitch {
	var pool []music.Pitch
	for _, n := range g.scale {
		if abs(int(n-prev)) <= g.cfg.MaxStepJump {
			pool = append(pool, n)
		}
	}
	if len(pool) == 0 {
		pool = []music.Pitch{prev}
	}
	return pool
}

// weigh scores every candidate. Small steps, chord tones (strongly so on
// strong beats), pitches near the trend target and the tonic at the end
// of a bar score higher.
func (g *Generator) weigh(s stepState, candidates []music.Pitch) []float64 {
	w := g.cfg.Weights
	weights := make([]float64, len(candidates))
	for i, n := range candidates {
		weight := 1.0
		dist := abs(int(n - s.prev))
		weight *= 1.0 / (1.0 + float64(dist)*w.DistanceDamping)

		chordTone := g.chords.IsChordTone(n)
		switch {
		case s.strong && chordTone:
			weight *= w.StrongChordTone
		case s.strong:
			weight *= w.StrongNonChordTone
		case chordTone:
			weight *= g.cfg.ChordToneWeight
		default:
			weight *= w.WeakNonChordTone
		}

		if abs(int(n-s.target)) < w.TrendWindow {
			weight *= w.TrendBonus
		}

		if s.position == g.cfg.StepsPerBar-1 && n.PitchClass() == g.base.PitchClass() {
			weight *= w.Cadence
		}
		weights[i] = weight
	}
	return weights
}

func (g *Generator) pick(candidates []music.Pitch, weights []float64) music.Pitch {
	return candidates[weighted.Choose(g.rng, weights)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
