// Package generator builds melodic phrases step by step: it narrows the
// key's pitches to a candidate pool, scores every candidate, samples one
// and holds it for a random number of steps.
package generator

import (
	"math"
	"math/rand"

	"github.com/muton2008/music-generator/music"
	"github.com/muton2008/music-generator/theory"
	"github.com/muton2008/music-generator/trend"
	log "github.com/sirupsen/logrus"
)

// Generator owns all mutable generation state. It is not safe for
// concurrent use, give every goroutine its own Generator.
type Generator struct {
	cfg     Config
	mode    theory.Mode
	base    music.Pitch
	scale   []music.Pitch
	chords  *theory.Progression
	rng     *rand.Rand
	phrases int
}

// StepTrace records what happened at one step of a phrase
type StepTrace struct {
	Step     int
	Bar      int
	Position int
	Strong   bool
	Function theory.Function
	Chord    theory.Chord
	Target   music.Pitch
	// Rest is set when the step was silenced by the rest draw
	Rest bool
	// Sustained is set when the step holds an earlier pick
	Sustained  bool
	Candidates []music.Pitch
	Weights    []float64
	Pitch      music.Pitch
}

// New validates cfg and seeds the generator
func New(cfg Config) (g *Generator, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	g = new(Generator)
	g.cfg = cfg
	g.cfg.SustainProbs = append([]float64(nil), cfg.SustainProbs...)
	g.mode, _ = theory.ParseMode(cfg.Mode)
	g.base = music.Pitch(cfg.BaseNote)
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	for _, n := range theory.BuildScale(g.base, g.mode, ScaleHalfRange) {
		// the window is cut at the edges of the MIDI range
		if n.Valid() {
			g.scale = append(g.scale, n)
		}
	}
	g.chords = theory.NewProgression(g.rng, chordTranspose(g.base, g.mode))
	log.WithFields(log.Fields{
		"function": "Generator.New",
	}).Debugf("base %d %s, %d scale notes, chord %s", g.base, g.mode, len(g.scale), g.chords.Chord().Label)
	return
}

// chordTranspose moves the C major chord bank into the key. A minor key
// uses the bank of its relative major.
func chordTranspose(base music.Pitch, m theory.Mode) int {
	if m == theory.Minor {
		base += 3
	}
	return (base - 60).PitchClass()
}

// Config returns the configuration the generator runs with
func (g *Generator) Config() Config {
	return g.cfg
}

// Scale returns the pitches candidates are drawn from
func (g *Generator) Scale() []music.Pitch {
	return append([]music.Pitch(nil), g.scale...)
}

// Progression exposes the chord state
func (g *Generator) Progression() *theory.Progression {
	return g.chords
}

// Phrase generates one grid of TotalSteps cells
func (g *Generator) Phrase() music.Grid {
	grid, _ := g.phrase(false)
	return grid
}

// PhraseWithTrace generates a grid and reports every step
func (g *Generator) PhraseWithTrace() (music.Grid, []StepTrace) {
	return g.phrase(true)
}

func (g *Generator) bars() int {
	bars := g.cfg.TotalSteps / g.cfg.StepsPerBar
	if g.cfg.TotalSteps%g.cfg.StepsPerBar != 0 {
		bars++
	}
	if bars < 1 {
		bars = 1
	}
	return bars
}

func (g *Generator) isStrongBeat(step int) bool {
	return step%g.cfg.StepsPerBar%4 == 0
}

func (g *Generator) phrase(trace bool) (grid music.Grid, steps []StepTrace) {
	logger := log.WithFields(log.Fields{
		"function": "Generator.Phrase",
	})
	cfg := g.cfg
	grid = make(music.Grid, cfg.TotalSteps)
	for i := range grid {
		grid[i] = music.Rest
	}
	if trace {
		steps = make([]StepTrace, 0, cfg.TotalSteps)
	}

	// every phrase gets its own stretch of noise
	offsets := trend.New(cfg.Seed+int64(g.phrases)).Offsets(g.bars(), cfg.TrendStrength, cfg.MaxSpanSemitones)
	g.phrases++

	prev := g.base
	held := 0
	for step := 0; step < cfg.TotalSteps; step++ {
		if step%cfg.ChordChangeEvery == 0 && step != 0 {
			c := g.chords.Advance()
			logger.Debugf("step %d: chord -> %s %v", step, c.Label, c.Tones)
		}

		bar := step / cfg.StepsPerBar
		s := stepState{
			step:     step,
			position: step % cfg.StepsPerBar,
			strong:   g.isStrongBeat(step),
			prev:     prev,
			target:   music.Pitch(math.Round(float64(g.base) + offsets[bar])),
		}
		st := StepTrace{
			Step:     step,
			Bar:      bar,
			Position: s.position,
			Strong:   s.strong,
			Function: g.chords.Function(),
			Chord:    g.chords.Chord(),
			Target:   s.target,
		}

		if held > 0 {
			held--
			st.Sustained = true
			st.Pitch = grid[step]
			if trace {
				steps = append(steps, st)
			}
			continue
		}

		if g.rest(s.strong) {
			st.Rest = true
			st.Pitch = music.Rest
			if trace {
				steps = append(steps, st)
			}
			continue
		}

		candidates := g.candidates(prev)
		weights := g.weigh(s, candidates)
		note := g.pick(candidates, weights)
		grid[step] = note
		prev = note
		held = g.sustain(grid, step, note)

		logger.Debugf("step %03d | bar %d.%d | strong=%v | chord=%s | chosen=%d held=%d",
			step, bar+1, s.position, s.strong, st.Chord.Label, note, held)
		if trace {
			st.Candidates = candidates
			st.Weights = weights
			st.Pitch = note
			steps = append(steps, st)
		}
	}
	return
}
