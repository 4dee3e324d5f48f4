package music

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuns(t *testing.T) {
	g := Grid{60, 60, 62, Rest, Rest, 62, 62, 62}
	assert.Equal(t, []Run{
		{Pitch: 60, Start: 0, Length: 2},
		{Pitch: 62, Start: 2, Length: 1},
		{Pitch: Rest, Start: 3, Length: 1},
		{Pitch: Rest, Start: 4, Length: 1},
		{Pitch: 62, Start: 5, Length: 3},
	}, g.Runs())
	assert.Empty(t, Grid{}.Runs())
}

func TestPitches(t *testing.T) {
	g := Grid{Rest, 60, 60, Rest, 64}
	assert.Equal(t, []Pitch{60, 60, 64}, g.Pitches())
	assert.Equal(t, "[-1, 60, 60, -1, 64]", g.String())
}

func TestPitchClass(t *testing.T) {
	assert.Equal(t, 0, Pitch(60).PitchClass())
	assert.Equal(t, 11, Pitch(-1).PitchClass())
	assert.Equal(t, 7, Pitch(55).PitchClass())
}

func TestPitchValid(t *testing.T) {
	assert.True(t, Pitch(0).Valid())
	assert.True(t, Pitch(127).Valid())
	assert.False(t, Rest.Valid())
	assert.False(t, Pitch(128).Valid())
}

func TestFromGrid(t *testing.T) {
	m := FromGrid(Grid{60, 60, Rest, 62}, 120, 64)
	notes := m.GetAll()
	require.Len(t, notes, 4)
	assert.Equal(t, Note{On: true, Pitch: 60, Velocity: 64, Beat: 0}, notes[0])
	assert.Equal(t, Note{On: false, Pitch: 60, Beat: 240}, notes[1])
	assert.Equal(t, Note{On: true, Pitch: 62, Velocity: 64, Beat: 360}, notes[2])
	assert.Equal(t, Note{On: false, Pitch: 62, Beat: 480}, notes[3])

	hasNotes, atZero := m.Get(0)
	assert.True(t, hasNotes)
	assert.Len(t, atZero, 1)
	hasNotes, _ = m.Get(1)
	assert.False(t, hasNotes)
}

func TestReleaseBeforePress(t *testing.T) {
	m := New()
	m.AddNote(Note{On: true, Pitch: 60, Velocity: 64, Beat: 10})
	m.AddNote(Note{On: false, Pitch: 60, Beat: 10})
	_, notes := m.Get(10)
	require.Len(t, notes, 2)
	assert.False(t, notes[0].On)
	assert.True(t, notes[1].On)
}

func TestSaveOpen(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "phrase.json")
	m := FromGrid(Grid{60, 62, 62}, 10, 100)
	require.NoError(t, m.Save(fname))

	m2, err := Open(fname)
	require.NoError(t, err)
	assert.Equal(t, m.GetAll(), m2.GetAll())

	_, err = Open(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
