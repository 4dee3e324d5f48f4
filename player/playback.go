package player

import (
	"context"
	"time"

	"github.com/muton2008/music-generator/music"
	log "github.com/sirupsen/logrus"
)

// Velocity is used for every played note
const Velocity = 100

// Output is a device that can sound notes and hold the sustain pedal
type Output interface {
	NoteOn(pitch music.Pitch, velocity int) error
	NoteOff(pitch music.Pitch) error
	Pedal(on bool) error
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PlayGrid plays a phrase. Held runs of a pitch are one note, a rest
// lifts the pedal for one step and presses it again.
func PlayGrid(ctx context.Context, out Output, grid music.Grid, stepDuration time.Duration, sleep Sleeper) (err error) {
	logger := log.WithFields(log.Fields{
		"function": "PlayGrid",
	})
	if sleep == nil {
		sleep = Sleep
	}
	if err = out.Pedal(true); err != nil {
		return
	}
	for _, run := range grid.Runs() {
		if run.Pitch == music.Rest {
			if err = out.Pedal(false); err != nil {
				return
			}
			if err = sleep(ctx, stepDuration); err != nil {
				return
			}
			if err = out.Pedal(true); err != nil {
				return
			}
			continue
		}
		logger.Debugf("%d for %d steps", run.Pitch, run.Length)
		if err = out.NoteOn(run.Pitch, Velocity); err != nil {
			return
		}
		err = sleep(ctx, stepDuration*time.Duration(run.Length))
		if errOff := out.NoteOff(run.Pitch); err == nil {
			err = errOff
		}
		if err != nil {
			return
		}
	}
	return
}

// LogOutput prints notes instead of playing them
type LogOutput struct{}

// NoteOn logs a key press
func (LogOutput) NoteOn(pitch music.Pitch, velocity int) error {
	log.WithFields(log.Fields{"p": pitch, "v": velocity}).Info("on")
	return nil
}

// NoteOff logs a key release
func (LogOutput) NoteOff(pitch music.Pitch) error {
	log.WithFields(log.Fields{"p": pitch}).Info("off")
	return nil
}

// Pedal logs the sustain pedal
func (LogOutput) Pedal(on bool) error {
	log.WithFields(log.Fields{"on": on}).Debug("pedal")
	return nil
}
