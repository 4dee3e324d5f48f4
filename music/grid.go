package music

import (
	"strconv"
	"strings"
)

// Pitch is a MIDI note number
type Pitch int

// Rest marks a silent step in a Grid
const Rest Pitch = -1

// MinPitch and MaxPitch bound the MIDI note numbers
const (
	MinPitch Pitch = 0
	MaxPitch Pitch = 127
)

// Valid reports whether p is a playable MIDI note
func (p Pitch) Valid() bool {
	return p >= MinPitch && p <= MaxPitch
}

// PitchClass returns the pitch modulo 12, always in [0,12)
func (p Pitch) PitchClass() int {
	return ((int(p) % 12) + 12) % 12
}

// Grid is one generated phrase, a pitch or Rest per step
type Grid []Pitch

// Run is a maximal stretch of identical cells
type Run struct {
	Pitch  Pitch
	Start  int
	Length int
}

// Runs splits the grid into held notes. Each rest is its own run.
func (g Grid) Runs() (runs []Run) {
	for i := 0; i < len(g); {
		j := i + 1
		if g[i] != Rest {
			for j < len(g) && g[j] == g[i] {
				j++
			}
		}
		runs = append(runs, Run{Pitch: g[i], Start: i, Length: j - i})
		i = j
	}
	return
}

// Pitches returns the sounding cells in order, dropping rests
func (g Grid) Pitches() []Pitch {
	pitches := make([]Pitch, 0, len(g))
	for _, p := range g {
		if p != Rest {
			pitches = append(pitches, p)
		}
	}
	return pitches
}

func (g Grid) String() string {
	s := make([]string, len(g))
	for i, p := range g {
		s[i] = strconv.Itoa(int(p))
	}
	return "[" + strings.Join(s, ", ") + "]"
}
