package theory

import (
	"math/rand"

	"github.com/muton2008/music-generator/music"
	"github.com/muton2008/music-generator/weighted"
	log "github.com/sirupsen/logrus"
)

// Progression walks the harmonic functions as a Markov chain and
// keeps the chord currently sounding. It is not safe for concurrent use.
type Progression struct {
	// Transpose shifts every chord of the bank, in semitones
	Transpose int

	function Function
	chord    Chord
	rng      *rand.Rand
}

// NewProgression starts on the tonic with a random tonic chord
func NewProgression(rng *rand.Rand, transpose int) (p *Progression) {
	p = new(Progression)
	p.rng = rng
	p.Transpose = transpose
	p.function = Tonic
	p.chord = p.pickChord(Tonic)
	return
}

func (p *Progression) pickChord(f Function) Chord {
	bank := ChordBank[f]
	return bank[p.rng.Intn(len(bank))].Transpose(p.Transpose)
}

// Advance moves to the next function and picks one of its chords
func (p *Progression) Advance() Chord {
	tr := transitions[p.function]
	next := tr.to[weighted.Choose(p.rng, tr.p)]
	log.WithFields(log.Fields{
		"function": "Progression.Advance",
	}).Debugf("%s -> %s", p.function, next)
	p.function = next
	p.chord = p.pickChord(next)
	return p.chord
}

// Function returns the current harmonic function
func (p *Progression) Function() Function {
	return p.function
}

// Chord returns the chord currently sounding
func (p *Progression) Chord() Chord {
	return p.chord
}

// CurrentTones returns the pitches of the current chord
func (p *Progression) CurrentTones() []music.Pitch {
	return append([]music.Pitch(nil), p.chord.Tones...)
}

// IsChordTone reports whether pitch shares a pitch class with the current chord
func (p *Progression) IsChordTone(pitch music.Pitch) bool {
	return p.chord.Contains(pitch)
}
