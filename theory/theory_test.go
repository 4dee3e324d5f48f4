package theory

import (
	"math/rand"
	"testing"

	"github.com/muton2008/music-generator/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("major")
	require.NoError(t, err)
	assert.Equal(t, Major, m)
	m, err = ParseMode(" Minor ")
	require.NoError(t, err)
	assert.Equal(t, Minor, m)
	_, err = ParseMode("dorian")
	assert.Error(t, err)
}

func TestBuildScale(t *testing.T) {
	assert.Equal(t,
		[]music.Pitch{48, 50, 52, 53, 55, 57, 59, 60, 62, 64, 65, 67, 69, 71, 72},
		BuildScale(60, Major, 12))
	assert.Equal(t,
		[]music.Pitch{57, 59, 60, 62, 64, 65, 67, 69, 71, 72, 74, 76, 77, 79, 81},
		BuildScale(69, Minor, 12))
	assert.Equal(t, []music.Pitch{60}, BuildScale(60, Minor, 0))

	for _, mode := range []Mode{Major, Minor} {
		scale := BuildScale(62, mode, 24)
		assert.Len(t, scale, 29)
		for _, p := range scale {
			assert.True(t, InScale(p, 62, mode))
			assert.LessOrEqual(t, int(p), 86)
			assert.GreaterOrEqual(t, int(p), 38)
		}
	}
}

func TestChordContains(t *testing.T) {
	c := Chord{Label: "C", Tones: []music.Pitch{60, 64, 67}}
	assert.True(t, c.Contains(48))
	assert.True(t, c.Contains(76))
	assert.False(t, c.Contains(62))
	assert.True(t, c.Transpose(2).Contains(62))
	assert.Equal(t, "C", c.Transpose(2).Label)
}

func TestTransitionTable(t *testing.T) {
	for _, from := range []Function{Tonic, Subdominant, Dominant} {
		total := 0.0
		for _, to := range []Function{Tonic, Subdominant, Dominant} {
			total += TransitionProbability(from, to)
		}
		assert.InDelta(t, 1.0, total, 1e-9, from.String())
	}
	assert.False(t, CanTransition(Dominant, Dominant))
	assert.True(t, CanTransition(Tonic, Tonic))
	assert.Equal(t, 0.5, TransitionProbability(Tonic, Subdominant))
}

func TestProgression(t *testing.T) {
	p := NewProgression(rand.New(rand.NewSource(3)), 0)
	assert.Equal(t, Tonic, p.Function())
	assert.Contains(t, []string{"C", "Am", "Em"}, p.Chord().Label)

	counts := map[Function]map[Function]int{}
	n := 30000
	for i := 0; i < n; i++ {
		from := p.Function()
		c := p.Advance()
		to := p.Function()
		require.True(t, CanTransition(from, to), "%s -> %s", from, to)
		if counts[from] == nil {
			counts[from] = map[Function]int{}
		}
		counts[from][to]++

		found := false
		for _, bc := range ChordBank[to] {
			if bc.Label == c.Label {
				found = true
			}
		}
		assert.True(t, found, "%s not in %s bank", c.Label, to)
		assert.Equal(t, c.Tones, p.CurrentTones())
	}

	for from, row := range counts {
		sum := 0
		for _, c := range row {
			sum += c
		}
		for to, c := range row {
			assert.InDelta(t, TransitionProbability(from, to), float64(c)/float64(sum), 0.03)
		}
	}
}

func TestProgressionTranspose(t *testing.T) {
	p := NewProgression(rand.New(rand.NewSource(1)), 7)
	for i := 0; i < 50; i++ {
		c := p.Advance()
		for _, tone := range c.Tones {
			assert.True(t, InScale(tone, 67, Major), "%s tone %d outside G major", c.Label, tone)
			assert.True(t, p.IsChordTone(tone+12))
		}
	}
}

func TestCurrentTonesIsCopy(t *testing.T) {
	p := NewProgression(rand.New(rand.NewSource(5)), 0)
	want := append([]music.Pitch(nil), p.Chord().Tones...)
	tones := p.CurrentTones()
	for i := range tones {
		tones[i] = 0
	}
	assert.Equal(t, want, p.Chord().Tones)
	assert.Equal(t, want, p.CurrentTones())
}
