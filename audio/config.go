package audio

import "time"

// DefaultFadeDuration applies when a fade is requested with a non-positive
// duration.
const DefaultFadeDuration = 500 * time.Millisecond

// BusNames maps the three logical buses to mixer bus names.
type BusNames struct {
	Master string
	Music  string
	SFX    string
}

type Config struct {
	// InitialPoolSize is the number of sound-effect voices created up front,
	// not counting the primary voice.
	InitialPoolSize int
	BusNames        BusNames
}

func DefaultConfig() Config {
	return Config{
		InitialPoolSize: 8,
		BusNames: BusNames{
			Master: "Master",
			Music:  "Music",
			SFX:    "SFX",
		},
	}
}

func (c Config) Validate() error {
	if c.InitialPoolSize < 0 {
		return invalidArgument("initial pool size %d is negative", c.InitialPoolSize)
	}
	names := []string{c.BusNames.Master, c.BusNames.Music, c.BusNames.SFX}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return invalidArgument("bus names must be set: %+v", c.BusNames)
		}
		if seen[n] {
			return invalidArgument("bus name %q used twice", n)
		}
		seen[n] = true
	}
	return nil
}
