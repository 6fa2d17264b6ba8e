// Package cue holds randomized sound-effect configuration and the YAML banks
// it is authored in.
package cue

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/gameaudio/voice"
)

const (
	MaxPitch  = 3.0
	MaxVolume = 1.0
)

var (
	ErrEmptySamples  = errors.New("cue: no samples")
	ErrNilSample     = errors.New("cue: nil sample")
	ErrInvertedRange = errors.New("cue: range min above max")
	ErrOutOfRange    = errors.New("cue: range outside allowed bounds")
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64
	Max float64
}

func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

func (r Range) validate(what string, limit float64) error {
	if !(r.Min >= 0) || !(r.Max <= limit) {
		return fmt.Errorf("%w: %s [%v, %v] not within [0, %v]", ErrOutOfRange, what, r.Min, r.Max, limit)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s [%v, %v]", ErrInvertedRange, what, r.Min, r.Max)
	}
	return nil
}

func (r Range) draw(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	var f float64
	if rng != nil {
		f = rng.Float64()
	} else {
		f = rand.Float64()
	}
	return r.Min + f*(r.Max-r.Min)
}

// Cue is a set of interchangeable samples with pitch and volume ranges. It is
// read-only once built.
type Cue struct {
	name    string
	samples []*voice.Sample
	pitch   Range
	volume  Range
}

func New(name string, samples []*voice.Sample, pitch, volume Range) (*Cue, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySamples, name)
	}
	for i, s := range samples {
		if s == nil {
			return nil, fmt.Errorf("%w: %q index %d", ErrNilSample, name, i)
		}
	}
	if err := pitch.validate("pitch", MaxPitch); err != nil {
		return nil, fmt.Errorf("cue %q: %w", name, err)
	}
	if err := volume.validate("volume", MaxVolume); err != nil {
		return nil, fmt.Errorf("cue %q: %w", name, err)
	}

	return &Cue{
		name:    name,
		samples: append([]*voice.Sample(nil), samples...),
		pitch:   pitch,
		volume:  volume,
	}, nil
}

func (c *Cue) Name() string { return c.name }

func (c *Cue) Samples() []*voice.Sample {
	return append([]*voice.Sample(nil), c.samples...)
}

func (c *Cue) PitchRange() Range { return c.pitch }

func (c *Cue) VolumeRange() Range { return c.volume }

// Draw picks a sample and a pitch and volume uniformly within the cue ranges.
// A nil rng uses the package-level source.
func (c *Cue) Draw(rng *rand.Rand) (*voice.Sample, float64, float64) {
	var idx int
	if len(c.samples) > 1 {
		if rng != nil {
			idx = rng.IntN(len(c.samples))
		} else {
			idx = rand.IntN(len(c.samples))
		}
	}
	return c.samples[idx], c.pitch.draw(rng), c.volume.draw(rng)
}
