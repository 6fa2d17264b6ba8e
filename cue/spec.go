package cue

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrBadRange = errors.New("cue: range must have one or two values")

// Spec is the YAML layout of a cue bank.
type Spec struct {
	Cues  []CueSpec   `yaml:"cues"`
	Music []TrackSpec `yaml:"music"`
}

type CueSpec struct {
	Name    string    `yaml:"name"`
	Samples []string  `yaml:"samples"`
	Pitch   []float64 `yaml:"pitch"`
	Volume  []float64 `yaml:"volume"`
}

type TrackSpec struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
	Loop *bool  `yaml:"loop"`
}

func LoadBankSpec(dir, filename string) (*Spec, error) {
	data, err := Load(dir, filename)
	if err != nil {
		return nil, fmt.Errorf("cue: load %s: %w", filename, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cue: %s: %w", filename, err)
	}
	return spec, nil
}

func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("cue: unmarshal bank: %w", err)
	}
	return &spec, nil
}

// parseRange reads [min, max] or a single fixed value. Empty means def.
func parseRange(values []float64, def float64) (Range, error) {
	switch len(values) {
	case 0:
		return Fixed(def), nil
	case 1:
		return Fixed(values[0]), nil
	case 2:
		return Range{Min: values[0], Max: values[1]}, nil
	default:
		return Range{}, fmt.Errorf("%w: got %d", ErrBadRange, len(values))
	}
}

func (t TrackSpec) loop() bool {
	if t.Loop == nil {
		return true
	}
	return *t.Loop
}
