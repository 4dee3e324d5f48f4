package generator

import (
	"errors"
	"fmt"
	"math"

	"github.com/muton2008/music-generator/music"
	"github.com/muton2008/music-generator/theory"
)

// Weights are the multipliers of the note scoring. Every multiplier
// must be strictly positive so no candidate ever drops to zero.
type Weights struct {
	// DistanceDamping is k in 1/(1+dist*k)
	DistanceDamping float64
	// StrongChordTone and StrongNonChordTone apply on strong beats
	StrongChordTone    float64
	StrongNonChordTone float64
	// WeakNonChordTone applies to passing tones on weak beats. The weak
	// beat chord tone multiplier is Config.ChordToneWeight.
	WeakNonChordTone float64
	// TrendBonus applies when a candidate is closer than TrendWindow
	// semitones to the trend target
	TrendBonus  float64
	TrendWindow int
	// Cadence applies on the last step of a bar to the key's tonic
	Cadence float64
	// SustainFloor is the sustain probability once SustainProbs runs out
	SustainFloor float64
	// StrongBeatRestScale scales RestProb on strong beats
	StrongBeatRestScale float64
}

// Config enumerates every tunable of the generator
type Config struct {
	// Mode is "major" or "minor"
	Mode string
	// BaseNote is the key center and the first reference pitch
	BaseNote int
	// TotalSteps is the grid length, one step is a 1/16 note
	TotalSteps  int
	StepsPerBar int
	// MaxSpanSemitones scales the trend curve
	MaxSpanSemitones int
	// MaxStepJump bounds the interval between consecutive picks
	MaxStepJump int
	// SustainProbs[i] is the chance to hold a note once more after i holds
	SustainProbs []float64
	RestProb     float64
	// TrendStrength scales the trend curve, 0 disables it
	TrendStrength    float64
	ChordChangeEvery int
	// ChordToneWeight boosts chord tones on weak beats
	ChordToneWeight float64
	Seed            int64

	Weights Weights
}

// ScaleHalfRange is how far the global scale reaches either side of the base note
const ScaleHalfRange = 24

// DefaultWeights returns the standard multipliers
func DefaultWeights() Weights {
	return Weights{
		DistanceDamping:     0.65,
		StrongChordTone:     5.0,
		StrongNonChordTone:  0.1,
		WeakNonChordTone:    0.8,
		TrendBonus:          1.2,
		TrendWindow:         5,
		Cadence:             2.0,
		SustainFloor:        0.5,
		StrongBeatRestScale: 0.2,
	}
}

// DefaultConfig returns the standard configuration
func DefaultConfig() Config {
	return Config{
		Mode:             "major",
		BaseNote:         60,
		TotalSteps:       128,
		StepsPerBar:      16,
		MaxSpanSemitones: 12,
		MaxStepJump:      7,
		SustainProbs:     []float64{0.96, 0.95, 0.94, 0.92, 0.90, 0.88, 0.73, 0.6},
		RestProb:         0.05,
		TrendStrength:    0.4,
		ChordChangeEvery: 16,
		ChordToneWeight:  1.5,
		Seed:             1,
		Weights:          DefaultWeights(),
	}
}

// Validate rejects configurations the generator cannot run with
func (c Config) Validate() error {
	if _, err := theory.ParseMode(c.Mode); err != nil {
		return err
	}
	if !music.Pitch(c.BaseNote).Valid() {
		return fmt.Errorf("base note %d outside 0-127", c.BaseNote)
	}
	if c.TotalSteps <= 0 {
		return errors.New("total steps must be positive")
	}
	if c.StepsPerBar <= 0 {
		return errors.New("steps per bar must be positive")
	}
	if c.ChordChangeEvery <= 0 {
		return errors.New("chord change interval must be positive")
	}
	if c.MaxStepJump < 0 {
		return errors.New("max step jump must not be negative")
	}
	if c.MaxSpanSemitones < 0 {
		return errors.New("max span must not be negative")
	}
	if c.TrendStrength < 0 {
		return errors.New("trend strength must not be negative")
	}
	if err := checkProbability("rest probability", c.RestProb); err != nil {
		return err
	}
	for i, p := range c.SustainProbs {
		if err := checkProbability(fmt.Sprintf("sustain probability %d", i), p); err != nil {
			return err
		}
	}
	if err := checkProbability("sustain floor", c.Weights.SustainFloor); err != nil {
		return err
	}
	if err := checkProbability("strong beat rest scale", c.Weights.StrongBeatRestScale); err != nil {
		return err
	}
	if c.Weights.DistanceDamping < 0 {
		return errors.New("distance damping must not be negative")
	}
	if c.Weights.TrendWindow < 0 {
		return errors.New("trend window must not be negative")
	}
	multipliers := []struct {
		name  string
		value float64
	}{
		{"chord tone weight", c.ChordToneWeight},
		{"strong chord tone weight", c.Weights.StrongChordTone},
		{"strong non-chord tone weight", c.Weights.StrongNonChordTone},
		{"weak non-chord tone weight", c.Weights.WeakNonChordTone},
		{"trend bonus", c.Weights.TrendBonus},
		{"cadence weight", c.Weights.Cadence},
	}
	for _, m := range multipliers {
		if m.value <= 0 {
			return fmt.Errorf("%s must be positive, got %g", m.name, m.value)
		}
	}
	return nil
}

func checkProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%s must be within [0,1], got %g", name, p)
	}
	return nil
}
