package music

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Note carries the pitch, velocity, and tick of a single
// press or release
type Note struct {
	On       bool
	Pitch    Pitch
	Velocity int
	Beat     int
}

// Notes is a structure for sorting the notes based on current beat.
// Releases sort before presses on the same beat so a repeated
// pitch is turned off before it is struck again.
type Notes []Note

func (p Notes) Len() int {
	return len(p)
}

func (p Notes) Less(i, j int) bool {
	if p[i].Beat != p[j].Beat {
		return p[i].Beat < p[j].Beat
	}
	if p[i].On != p[j].On {
		return !p[i].On
	}
	return p[i].Pitch < p[j].Pitch
}

func (p Notes) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

// Music stores the note events of a phrase
type Music struct {
	// Notes map: tick -> pitch -> note
	Notes map[int]map[Pitch]Note
	sync.RWMutex
}

// New returns a new object
func New() *Music {
	m := new(Music)
	m.Lock()
	m.Notes = make(map[int]map[Pitch]Note)
	m.Unlock()
	return m
}

// Open loads events previously written with Save
func Open(filename string) (*Music, error) {
	bMusic, err := os.ReadFile(filename)
	if err != nil {
		return New(), errors.Wrap(err, "reading music")
	}
	m := New()
	m.Lock()
	err = json.Unmarshal(bMusic, &m.Notes)
	m.Unlock()
	return m, errors.Wrap(err, "decoding music")
}

// FromGrid converts a grid into press/release events. Every run of a
// pitch becomes one press and one release, rests leave gaps.
func FromGrid(grid Grid, ticksPerStep, velocity int) *Music {
	m := New()
	for _, run := range grid.Runs() {
		if run.Pitch == Rest {
			continue
		}
		m.AddNote(Note{
			On:       true,
			Pitch:    run.Pitch,
			Velocity: velocity,
			Beat:     run.Start * ticksPerStep,
		})
		m.AddNote(Note{
			On:    false,
			Pitch: run.Pitch,
			Beat:  (run.Start + run.Length) * ticksPerStep,
		})
	}
	return m
}

// AddNote will add a note in a thread-safe way. A release and a press
// of the same pitch on the same tick are both kept.
func (m *Music) AddNote(n Note) (err error) {
	m.Lock()
	defer m.Unlock()
	key := n.Pitch
	if !n.On {
		key = -n.Pitch - 1
	}
	if _, hasTime := m.Notes[n.Beat]; hasTime {
		if _, hasNote := m.Notes[n.Beat][key]; hasNote {
			return
		}
	} else {
		m.Notes[n.Beat] = make(map[Pitch]Note)
	}
	m.Notes[n.Beat][key] = n
	return
}

// Get retrieve notes in music in a thread-safe way
func (m *Music) Get(beat int) (hasNotes bool, notes []Note) {
	m.RLock()
	defer m.RUnlock()
	var notesMap map[Pitch]Note
	notesMap, hasNotes = m.Notes[beat]
	if !hasNotes {
		return
	}
	notes = make([]Note, 0, len(notesMap))
	for _, note := range notesMap {
		notes = append(notes, note)
	}
	sort.Sort(Notes(notes))
	return
}

// GetAll retrieve all notes, ordered by tick
func (m *Music) GetAll() (notes []Note) {
	logger := log.WithFields(log.Fields{
		"function": "Music.GetAll",
	})
	m.RLock()
	defer m.RUnlock()
	notes = []Note{}
	for beat := range m.Notes {
		for key := range m.Notes[beat] {
			notes = append(notes, m.Notes[beat][key])
		}
	}
	sort.Sort(Notes(notes))
	logger.Debugf("Got %d notes", len(notes))
	return
}

// Save writes the events as JSON
func (m *Music) Save(filename string) (err error) {
	m.RLock()
	defer m.RUnlock()
	bMusic, err := json.Marshal(m.Notes)
	if err != nil {
		return errors.Wrap(err, "encoding music")
	}
	return errors.Wrap(os.WriteFile(filename, bMusic, 0644), "writing music")
}
