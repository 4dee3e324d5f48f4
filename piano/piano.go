package piano

import (
	"fmt"
	"sync"

	"github.com/muton2008/music-generator/music"
	"github.com/pkg/errors"
	"github.com/rakyll/portmidi"
	log "github.com/sirupsen/logrus"
)

const (
	statusNoteOff       = 0x80
	statusNoteOn        = 0x90
	statusControl       = 0xB0
	statusProgram       = 0xC0
	controlSustainPedal = 64
)

// Piano is the MIDI output device the phrases are played on
type Piano struct {
	OutputDevice portmidi.DeviceID
	// Channel is the MIDI channel, 0-15
	Channel      int
	outputStream *portmidi.Stream
	sync.Mutex
}

// New opens the output stream. Without a port the last output
// device found is used.
func New(port ...int) (p *Piano, err error) {
	p = new(Piano)
	logger := log.WithFields(log.Fields{
		"function": "Piano.New",
	})
	logger.Debug("Initializing portmidi...")
	err = portmidi.Initialize()
	if err != nil {
		logger.WithFields(log.Fields{
			"msg": "initialization failed",
		}).Error(err.Error())
		return nil, errors.Wrap(err, "initializing portmidi")
	}
	numDevices := portmidi.CountDevices()
	logger.Debugf("Found %d devices", numDevices)
	p.OutputDevice = -1
	for i := 0; i < numDevices; i++ {
		deviceInfo := portmidi.Info(portmidi.DeviceID(i))
		inputOutput := "input"
		if deviceInfo.IsOutputAvailable {
			inputOutput = "output"
			p.OutputDevice = portmidi.DeviceID(i)
		}
		logger.Debugf("%d) %s %s %s", i, deviceInfo.Interface, deviceInfo.Name, inputOutput)
	}
	if len(port) == 1 {
		p.OutputDevice = portmidi.DeviceID(port[0])
	}
	if p.OutputDevice < 0 {
		portmidi.Terminate()
		return nil, errors.New("no MIDI output device found")
	}
	logger.Infof("Using output device %d", p.OutputDevice)

	logger.Debug("Opening output stream")
	p.outputStream, err = portmidi.NewOutputStream(p.OutputDevice, 1024, 0)
	if err != nil {
		logger.WithFields(log.Fields{
			"msg": fmt.Sprintf("problem getting output stream from device %d", p.OutputDevice),
		}).Error(err.Error())
		portmidi.Terminate()
		return nil, errors.Wrapf(err, "opening device %d", p.OutputDevice)
	}
	return
}

// Close will shutdown the stream
// and gracefully terminate.
func (p *Piano) Close() (err error) {
	logger := log.WithFields(log.Fields{
		"function": "Piano.Close",
	})
	p.Lock()
	defer p.Unlock()
	logger.Debug("Releasing pedal")
	p.write(statusControl, controlSustainPedal, 0)
	logger.Debug("Closing output stream")
	err = p.outputStream.Close()
	logger.Debug("Terminating portmidi")
	portmidi.Terminate()
	return errors.Wrap(err, "closing output stream")
}

func (p *Piano) write(status, data1, data2 int64) error {
	return p.outputStream.WriteShort(status|int64(p.Channel&0x0F), data1, data2)
}

// Program selects the instrument, 0 is Acoustic Grand Piano
func (p *Piano) Program(program int) error {
	p.Lock()
	defer p.Unlock()
	return errors.Wrap(p.write(statusProgram, int64(program), 0), "program change")
}

// NoteOn presses a key
func (p *Piano) NoteOn(pitch music.Pitch, velocity int) error {
	p.Lock()
	defer p.Unlock()
	log.WithFields(log.Fields{
		"function": "Piano.NoteOn",
		"p":        pitch,
		"v":        velocity,
	}).Debug("on")
	return errors.Wrap(p.write(statusNoteOn, int64(pitch), int64(velocity)), "problem turning on")
}

// NoteOff releases a key
func (p *Piano) NoteOff(pitch music.Pitch) error {
	p.Lock()
	defer p.Unlock()
	log.WithFields(log.Fields{
		"function": "Piano.NoteOff",
		"p":        pitch,
	}).Debug("off")
	return errors.Wrap(p.write(statusNoteOff, int64(pitch), 0), "problem turning off")
}

// Pedal presses or releases the sustain pedal
func (p *Piano) Pedal(on bool) error {
	p.Lock()
	defer p.Unlock()
	value := int64(0)
	if on {
		value = 127
	}
	return errors.Wrap(p.write(statusControl, controlSustainPedal, value), "sustain pedal")
}
