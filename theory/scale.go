// Package theory holds the scales, chords and harmonic progression
// rules the melody generator draws from.
package theory

import (
	"fmt"
	"strings"

	"github.com/muton2008/music-generator/music"
)

// Mode is the scale mode of a key
type Mode int

const (
	Major Mode = iota
	Minor
)

var modeIntervals = map[Mode][7]int{
	Major: {0, 2, 4, 5, 7, 9, 11},
	Minor: {0, 2, 3, 5, 7, 8, 10},
}

// ParseMode accepts "major" or "minor"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	}
	return Major, fmt.Errorf("unknown mode %q, must be major or minor", s)
}

func (m Mode) String() string {
	if m == Minor {
		return "minor"
	}
	return "major"
}

// Intervals returns the semitone offsets of the mode's seven degrees
func (m Mode) Intervals() [7]int {
	return modeIntervals[m]
}

// InScale reports whether p belongs to the key of tonic in mode m
func InScale(p, tonic music.Pitch, m Mode) bool {
	degree := (p - tonic).PitchClass()
	for _, iv := range modeIntervals[m] {
		if iv == degree {
			return true
		}
	}
	return false
}

// BuildScale returns, ascending, every pitch within halfRange semitones
// of tonic that belongs to the key. The tonic itself always qualifies.
func BuildScale(tonic music.Pitch, m Mode, halfRange int) (scale []music.Pitch) {
	if halfRange < 0 {
		halfRange = 0
	}
	for p := tonic - music.Pitch(halfRange); p <= tonic+music.Pitch(halfRange); p++ {
		if InScale(p, tonic, m) {
			scale = append(scale, p)
		}
	}
	return
}
