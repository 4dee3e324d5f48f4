// Package export writes phrases as Standard MIDI Files.
package export

import (
	"bytes"
	"io"
	"os"

	"github.com/muton2008/music-generator/music"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// TicksPerQuarter is the file resolution
	TicksPerQuarter = 480
	// Velocity is used for every exported note
	Velocity = 64
	channel  = 0
)

// WriteMelody writes one note per pitch, each tick ticks long, with no
// gaps or overlaps
func WriteMelody(w io.Writer, pitches []music.Pitch, tick uint32) (err error) {
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("melody"))
	for _, p := range pitches {
		if p < 0 || p > 127 {
			return errors.Errorf("pitch %d outside MIDI range", p)
		}
		track.Add(0, midi.NoteOn(channel, uint8(p), Velocity))
		track.Add(tick, midi.NoteOffVelocity(channel, uint8(p), Velocity))
	}
	track.Close(0)
	return write(w, smf.MetricTicks(TicksPerQuarter), track)
}

// WriteGrid writes a phrase with its held notes and rests, after a
// tempo track
func WriteGrid(w io.Writer, grid music.Grid, ticksPerStep int, bpm float64) (err error) {
	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(bpm))
	tempo.Close(0)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("phrase"))
	last := 0
	for _, note := range music.FromGrid(grid, ticksPerStep, Velocity).GetAll() {
		if note.Pitch < 0 || note.Pitch > 127 {
			return errors.Errorf("pitch %d outside MIDI range", note.Pitch)
		}
		delta := uint32(note.Beat - last)
		if note.On {
			track.Add(delta, midi.NoteOn(channel, uint8(note.Pitch), uint8(note.Velocity)))
		} else {
			track.Add(delta, midi.NoteOff(channel, uint8(note.Pitch)))
		}
		last = note.Beat
	}
	// trailing rests still take time
	end := len(grid) * ticksPerStep
	if end < last {
		end = last
	}
	track.Close(uint32(end - last))
	return write(w, smf.MetricTicks(TicksPerQuarter), tempo, track)
}

func write(w io.Writer, tf smf.TimeFormat, tracks ...smf.Track) error {
	s := smf.New()
	s.TimeFormat = tf
	for i, track := range tracks {
		if err := s.Add(track); err != nil {
			return errors.Wrapf(err, "adding track %d", i)
		}
	}
	_, err := s.WriteTo(w)
	return errors.Wrap(err, "writing midi")
}

// WriteFile writes to filename whatever fn produces
func WriteFile(filename string, fn func(w io.Writer) error) (err error) {
	logger := log.WithFields(log.Fields{
		"function": "export.WriteFile",
	})
	var buf bytes.Buffer
	if err = fn(&buf); err != nil {
		return
	}
	if err = os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "saving midi")
	}
	logger.Infof("Saved %s", filename)
	return
}
