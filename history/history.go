// Package history archives generated phrases so a good one can be
// found again by its ID.
package history

import (
	"sort"
	"sync"

	"github.com/muton2008/music-generator/music"
	"github.com/pkg/errors"
	"github.com/schollz/jsonstore"
	log "github.com/sirupsen/logrus"
	hashids "github.com/speps/go-hashids/v2"
)

// Phrase is one archived grid and what generated it
type Phrase struct {
	Seed  int64
	Index int
	Grid  music.Grid
}

// History stores phrases keyed by a short ID
type History struct {
	store  *jsonstore.JSONStore
	hasher *hashids.HashIDData
	sync.Mutex
}

// New returns an empty history. The salt changes the IDs.
func New(salt string) (h *History) {
	h = new(History)
	h.store = new(jsonstore.JSONStore)
	h.hasher = hashids.NewData()
	h.hasher.Salt = salt
	h.hasher.MinLength = 8
	return
}

// Open loads a history written with Save
func Open(filename, salt string) (h *History, err error) {
	h = New(salt)
	h.store, err = jsonstore.Open(filename)
	if err != nil {
		h.store = new(jsonstore.JSONStore)
		return h, errors.Wrap(err, "opening history")
	}
	log.WithFields(log.Fields{
		"function": "History.Open",
	}).Infof("Loaded %d phrases from history", len(h.store.Keys()))
	return
}

// ID encodes the seed and phrase index
func (h *History) ID(seed int64, index int) (string, error) {
	if seed < 0 || index < 0 {
		return "", errors.Errorf("cannot encode seed %d index %d", seed, index)
	}
	hd, err := hashids.NewWithData(h.hasher)
	if err != nil {
		return "", errors.Wrap(err, "hashids")
	}
	id, err := hd.EncodeInt64([]int64{seed, int64(index)})
	return id, errors.Wrap(err, "encoding id")
}

// Decode recovers the seed and phrase index from an ID
func (h *History) Decode(id string) (seed int64, index int, err error) {
	hd, err := hashids.NewWithData(h.hasher)
	if err != nil {
		return 0, 0, errors.Wrap(err, "hashids")
	}
	nums, err := hd.DecodeInt64WithError(id)
	if err != nil {
		return 0, 0, errors.Wrap(err, "decoding id")
	}
	if len(nums) != 2 {
		return 0, 0, errors.Errorf("id %s holds %d numbers", id, len(nums))
	}
	return nums[0], int(nums[1]), nil
}

// Add archives a phrase and returns its ID
func (h *History) Add(seed int64, index int, grid music.Grid) (id string, err error) {
	id, err = h.ID(seed, index)
	if err != nil {
		return
	}
	h.Lock()
	defer h.Unlock()
	err = h.store.Set(id, Phrase{Seed: seed, Index: index, Grid: grid})
	return id, errors.Wrap(err, "storing phrase")
}

// Get returns the phrase stored under id
func (h *History) Get(id string) (p Phrase, err error) {
	h.Lock()
	defer h.Unlock()
	err = h.store.Get(id, &p)
	return p, errors.Wrapf(err, "phrase %s", id)
}

// Keys lists the stored IDs, sorted
func (h *History) Keys() []string {
	h.Lock()
	defer h.Unlock()
	keys := h.store.Keys()
	sort.Strings(keys)
	return keys
}

// Save writes the history, gzipped when filename ends in .gz
func (h *History) Save(filename string) error {
	h.Lock()
	defer h.Unlock()
	return errors.Wrap(jsonstore.Save(h.store, filename), "saving history")
}
