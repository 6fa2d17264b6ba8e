package audio

import (
	"github.com/milk9111/gameaudio/tick"
	"github.com/milk9111/gameaudio/voice"
)

type poolSlot struct {
	voice voice.Voice
	gen   uint32
	timer tick.TaskID
}

// VoicePool owns the primary sound-effect voice and the pooled voices behind
// it. Voices are recycled, never destroyed, until the pool is closed.
type VoicePool struct {
	factory voice.Factory
	bus     string

	// slots[0] is the primary voice.
	slots []poolSlot
}

func newVoicePool(factory voice.Factory, bus string, initial int) (*VoicePool, error) {
	p := &VoicePool{
		factory: factory,
		bus:     bus,
		slots:   make([]poolSlot, 0, initial+1),
	}
	for i := 0; i <= initial; i++ {
		if _, err := p.grow(); err != nil {
			p.close()
			return nil, err
		}
	}
	return p, nil
}

func (p *VoicePool) grow() (int, error) {
	v, err := p.factory.NewVoice(p.bus)
	if err != nil {
		return 0, resourceExhausted(err)
	}
	if v == nil {
		return 0, resourceExhausted(errNilVoice)
	}
	p.slots = append(p.slots, poolSlot{voice: v})
	return len(p.slots) - 1, nil
}

// acquire returns the slot to play on: the primary voice when it is idle,
// else the first idle pooled voice in insertion order, else a new voice
// appended to the pool.
func (p *VoicePool) acquire() (slot int, grew bool, err error) {
	if p.slots[primarySlot].voice.State() == voice.StateIdle {
		return primarySlot, false, nil
	}
	for i := 1; i < len(p.slots); i++ {
		if p.slots[i].voice.State() == voice.StateIdle {
			return i, false, nil
		}
	}
	slot, err = p.grow()
	if err != nil {
		return 0, false, err
	}
	return slot, true, nil
}

// assign bumps the slot generation and returns a handle for it.
func (p *VoicePool) assign(slot int) StopHandle {
	s := &p.slots[slot]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	return makeHandle(slot, s.gen)
}

// lookup returns the slot h was issued for if no later playback or stop has
// happened on it.
func (p *VoicePool) lookup(h StopHandle) (int, bool) {
	if !h.Valid() {
		return 0, false
	}
	slot := h.slot()
	if slot < 0 || slot >= len(p.slots) {
		return 0, false
	}
	if p.slots[slot].gen != h.generation() {
		return 0, false
	}
	return slot, true
}

// retire invalidates every handle issued for slot.
func (p *VoicePool) retire(slot int) {
	s := &p.slots[slot]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.timer = 0
}

// Size is the number of pooled voices, excluding the primary voice.
func (p *VoicePool) Size() int {
	return len(p.slots) - 1
}

func (p *VoicePool) Primary() voice.Voice {
	return p.slots[primarySlot].voice
}

// Voice returns pooled voice i in insertion order.
func (p *VoicePool) Voice(i int) voice.Voice {
	if i < 0 || i+1 >= len(p.slots) {
		return nil
	}
	return p.slots[i+1].voice
}

// Voices returns the primary voice followed by every pooled voice.
func (p *VoicePool) Voices() []voice.Voice {
	out := make([]voice.Voice, 0, len(p.slots))
	for _, s := range p.slots {
		out = append(out, s.voice)
	}
	return out
}

func (p *VoicePool) close() error {
	var first error
	for _, s := range p.slots {
		s.voice.Stop()
		if err := s.voice.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
