package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/muton2008/music-generator/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type event struct {
	tick int
	on   bool
	key  uint8
	vel  uint8
}

func notes(track smf.Track) (events []event) {
	tick := 0
	for _, ev := range track {
		tick += int(ev.Delta)
		var ch, key, vel uint8
		msg := midi.Message(ev.Message)
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			events = append(events, event{tick, true, key, vel})
		case msg.GetNoteOff(&ch, &key, &vel):
			events = append(events, event{tick, false, key, vel})
		}
	}
	return
}

func TestWriteMelody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMelody(&buf, []music.Pitch{60, 62, 62}, 480))

	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, smf.MetricTicks(TicksPerQuarter), s.TimeFormat)
	require.Len(t, s.Tracks, 1)
	assert.Equal(t, []event{
		{0, true, 60, 64}, {480, false, 60, 64},
		{480, true, 62, 64}, {960, false, 62, 64},
		{960, true, 62, 64}, {1440, false, 62, 64},
	}, notes(s.Tracks[0]))
}

func TestWriteMelodyRange(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteMelody(&buf, []music.Pitch{60, 128}, 480))
	assert.Error(t, WriteMelody(&buf, []music.Pitch{music.Rest}, 480))
}

func TestWriteGrid(t *testing.T) {
	var buf bytes.Buffer
	grid := music.Grid{60, 60, music.Rest, 64, music.Rest}
	require.NoError(t, WriteGrid(&buf, grid, 120, 100))

	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2)
	tempos := s.TempoChanges()
	require.NotEmpty(t, tempos)
	assert.InDelta(t, 100.0, tempos[0].BPM, 0.01)

	assert.Equal(t, []event{
		{0, true, 60, 64}, {240, false, 60, 0},
		{360, true, 64, 64}, {480, false, 64, 0},
	}, notes(s.Tracks[1]))
}

func TestWriteFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "out.mid")
	err := WriteFile(fname, func(w io.Writer) error {
		return WriteMelody(w, []music.Pitch{60}, 240)
	})
	require.NoError(t, err)
	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "MThd", string(b[:4]))
}
