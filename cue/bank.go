package cue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/gameaudio/voice"
)

var (
	ErrUnnamed   = errors.New("cue: entry has no name")
	ErrDuplicate = errors.New("cue: duplicate name")
)

// Loader resolves a sample file referenced by a bank.
type Loader func(path string) (*voice.Sample, error)

type Track struct {
	Name   string
	Sample *voice.Sample
	Loop   bool
}

// Bank is the built, read-only form of a Spec.
type Bank struct {
	cues       map[string]*Cue
	tracks     map[string]*Track
	cueNames   []string
	trackNames []string
}

// Build resolves every sample in spec through load. Files referenced more
// than once are loaded once.
func Build(spec *Spec, load Loader) (*Bank, error) {
	if spec == nil {
		return nil, fmt.Errorf("cue: build: spec is nil")
	}
	if load == nil {
		return nil, fmt.Errorf("cue: build: loader is nil")
	}

	cache := make(map[string]*voice.Sample)
	resolve := func(path string) (*voice.Sample, error) {
		if s, ok := cache[path]; ok {
			return s, nil
		}
		s, err := load(path)
		if err != nil {
			return nil, err
		}
		cache[path] = s
		return s, nil
	}

	b := &Bank{
		cues:   make(map[string]*Cue, len(spec.Cues)),
		tracks: make(map[string]*Track, len(spec.Music)),
	}

	for i, cs := range spec.Cues {
		name := strings.TrimSpace(cs.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: cues[%d]", ErrUnnamed, i)
		}
		if _, ok := b.cues[name]; ok {
			return nil, fmt.Errorf("%w: cue %q", ErrDuplicate, name)
		}

		samples := make([]*voice.Sample, 0, len(cs.Samples))
		for _, file := range cs.Samples {
			s, err := resolve(file)
			if err != nil {
				return nil, fmt.Errorf("cue %q: sample %q: %w", name, file, err)
			}
			samples = append(samples, s)
		}
		pitch, err := parseRange(cs.Pitch, 1)
		if err != nil {
			return nil, fmt.Errorf("cue %q: pitch: %w", name, err)
		}
		volume, err := parseRange(cs.Volume, 1)
		if err != nil {
			return nil, fmt.Errorf("cue %q: volume: %w", name, err)
		}

		c, err := New(name, samples, pitch, volume)
		if err != nil {
			return nil, err
		}
		b.cues[name] = c
		b.cueNames = append(b.cueNames, name)
	}

	for i, ts := range spec.Music {
		name := strings.TrimSpace(ts.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: music[%d]", ErrUnnamed, i)
		}
		if _, ok := b.tracks[name]; ok {
			return nil, fmt.Errorf("%w: track %q", ErrDuplicate, name)
		}
		s, err := resolve(ts.File)
		if err != nil {
			return nil, fmt.Errorf("track %q: file %q: %w", name, ts.File, err)
		}
		b.tracks[name] = &Track{Name: name, Sample: s, Loop: ts.loop()}
		b.trackNames = append(b.trackNames, name)
	}

	return b, nil
}

func (b *Bank) Cue(name string) (*Cue, bool) {
	if b == nil {
		return nil, false
	}
	c, ok := b.cues[name]
	return c, ok
}

func (b *Bank) Track(name string) (*Track, bool) {
	if b == nil {
		return nil, false
	}
	t, ok := b.tracks[name]
	return t, ok
}

// Names returns cue names in bank order.
func (b *Bank) Names() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.cueNames...)
}

// TrackNames returns music track names in bank order.
func (b *Bank) TrackNames() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.trackNames...)
}
