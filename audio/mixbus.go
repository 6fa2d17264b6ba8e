package audio

import (
	"math"

	"github.com/milk9111/gameaudio/common"
)

// Mixer is the output mixer the bus controller forwards gains to.
type Mixer interface {
	FindBus(name string) bool
	SetBusGainDB(name string, db float64) error
}

type busGainReader interface {
	BusGainDB(name string) (float64, bool)
}

type Bus int

const (
	BusMaster Bus = iota
	BusMusic
	BusSFX
)

func (b Bus) String() string {
	switch b {
	case BusMaster:
		return "master"
	case BusMusic:
		return "music"
	case BusSFX:
		return "sfx"
	default:
		return "unknown"
	}
}

// ParseBus maps "master", "music" and "sfx" to their Bus.
func ParseBus(s string) (Bus, bool) {
	for _, b := range []Bus{BusMaster, BusMusic, BusSFX} {
		if b.String() == s {
			return b, true
		}
	}
	return 0, false
}

// MixBusController converts normalized gains into decibels for the mixer.
type MixBusController struct {
	mixer Mixer
	names BusNames
}

func NewMixBusController(mixer Mixer, names BusNames) *MixBusController {
	return &MixBusController{mixer: mixer, names: names}
}

func (c *MixBusController) Name(bus Bus) (string, bool) {
	switch bus {
	case BusMaster:
		return c.names.Master, true
	case BusMusic:
		return c.names.Music, true
	case BusSFX:
		return c.names.SFX, true
	default:
		return "", false
	}
}

// SetBusGain clamps linear to [0.001, 1] and forwards 20*log10(linear) to the
// mixer bus.
func (c *MixBusController) SetBusGain(bus Bus, linear float64) error {
	name, ok := c.Name(bus)
	if !ok {
		return invalidArgument("unknown bus %d", int(bus))
	}
	if math.IsNaN(linear) {
		return invalidArgument("gain for bus %s is NaN", bus)
	}
	if !c.mixer.FindBus(name) {
		return invalidArgument("mixer has no bus %q", name)
	}
	return c.mixer.SetBusGainDB(name, common.LinearToDecibels(linear))
}

// BusGain reads the current gain back as a linear value when the mixer
// exposes it.
func (c *MixBusController) BusGain(bus Bus) (float64, bool) {
	name, ok := c.Name(bus)
	if !ok {
		return 0, false
	}
	r, ok := c.mixer.(busGainReader)
	if !ok {
		return 0, false
	}
	db, ok := r.BusGainDB(name)
	if !ok {
		return 0, false
	}
	return common.DecibelsToLinear(db), true
}
