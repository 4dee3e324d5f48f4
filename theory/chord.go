package theory

import (
	"fmt"

	"github.com/muton2008/music-generator/music"
)

// Function is the harmonic role of a chord
type Function int

const (
	Tonic Function = iota
	Subdominant
	Dominant
)

func (f Function) String() string {
	switch f {
	case Tonic:
		return "tonic"
	case Subdominant:
		return "subdominant"
	case Dominant:
		return "dominant"
	}
	return fmt.Sprintf("Function(%d)", int(f))
}

// Chord is a named group of pitches
type Chord struct {
	Label string
	Tones []music.Pitch
}

// Contains tests pitch-class membership, ignoring octave
func (c Chord) Contains(p music.Pitch) bool {
	pc := p.PitchClass()
	for _, t := range c.Tones {
		if t.PitchClass() == pc {
			return true
		}
	}
	return false
}

// Transpose shifts every tone by semitones
func (c Chord) Transpose(semitones int) Chord {
	tones := make([]music.Pitch, len(c.Tones))
	for i, t := range c.Tones {
		tones[i] = t + music.Pitch(semitones)
	}
	return Chord{Label: c.Label, Tones: tones}
}

// ChordBank lists the chords of each function, written in C major
var ChordBank = map[Function][]Chord{
	Tonic: {
		{"C", []music.Pitch{60, 64, 67}},
		{"Am", []music.Pitch{57, 60, 64}},
		{"Em", []music.Pitch{52, 55, 59}},
	},
	Subdominant: {
		{"F", []music.Pitch{53, 57, 60}},
		{"Dm", []music.Pitch{50, 53, 57}},
	},
	Dominant: {
		{"G", []music.Pitch{55, 59, 62}},
		{"G7", []music.Pitch{55, 59, 62, 65}},
		{"Bdim", []music.Pitch{59, 62, 65}},
	},
}

type transition struct {
	to []Function
	p  []float64
}

// transitions gives the probability of each next function
var transitions = map[Function]transition{
	Tonic:       {to: []Function{Tonic, Subdominant, Dominant}, p: []float64{0.25, 0.5, 0.25}},
	Subdominant: {to: []Function{Subdominant, Dominant, Tonic}, p: []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}},
	Dominant:    {to: []Function{Tonic, Subdominant}, p: []float64{2.0 / 3, 1.0 / 3}},
}

// TransitionProbability returns P(to | from)
func TransitionProbability(from, to Function) float64 {
	tr := transitions[from]
	for i, f := range tr.to {
		if f == to {
			return tr.p[i]
		}
	}
	return 0
}

// CanTransition reports whether to may directly follow from
func CanTransition(from, to Function) bool {
	return TransitionProbability(from, to) > 0
}
