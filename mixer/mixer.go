// Package mixer keeps named gain buses in decibels and resolves the linear
// gain a voice on a bus should be rendered at.
package mixer

import (
	"errors"
	"fmt"

	"github.com/milk9111/gameaudio/common"
)

var ErrUnknownBus = errors.New("mixer: unknown bus")

// Mixer is a set of buses routed into one master bus. Every bus starts at
// 0 dB.
type Mixer struct {
	master string
	order  []string
	gains  map[string]float64

	listeners []func(bus string)
}

// New creates a mixer whose first bus is the master; the rest feed into it.
func New(master string, buses ...string) *Mixer {
	m := &Mixer{
		master: master,
		gains:  make(map[string]float64, len(buses)+1),
	}
	m.addBus(master)
	for _, bus := range buses {
		m.addBus(bus)
	}
	return m
}

func (m *Mixer) addBus(name string) {
	if _, ok := m.gains[name]; ok {
		return
	}
	m.gains[name] = 0
	m.order = append(m.order, name)
}

func (m *Mixer) Master() string {
	return m.master
}

// Buses returns bus names in creation order, master first.
func (m *Mixer) Buses() []string {
	out := make([]string, 0, len(m.order))
	return append(out, m.order...)
}

func (m *Mixer) FindBus(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.gains[name]
	return ok
}

func (m *Mixer) SetBusGainDB(name string, db float64) error {
	if !m.FindBus(name) {
		return fmt.Errorf("%w: %q", ErrUnknownBus, name)
	}
	if m.gains[name] == db {
		return nil
	}
	m.gains[name] = db
	for _, fn := range m.listeners {
		fn(name)
	}
	return nil
}

func (m *Mixer) BusGainDB(name string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	db, ok := m.gains[name]
	return db, ok
}

// Gain returns the linear gain for a voice on bus, including the master bus.
// Unknown buses resolve to the master gain alone.
func (m *Mixer) Gain(bus string) float64 {
	if m == nil {
		return 1
	}
	master := common.DecibelsToLinear(m.gains[m.master])
	if bus == m.master {
		return master
	}
	db, ok := m.gains[bus]
	if !ok {
		return master
	}
	return common.DecibelsToLinear(db) * master
}

// OnChange registers fn to run after a bus gain changes. A master change
// reports the master bus name.
func (m *Mixer) OnChange(fn func(bus string)) {
	if m == nil || fn == nil {
		return
	}
	m.listeners = append(m.listeners, fn)
}
