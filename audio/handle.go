package audio

import "strconv"

// StopHandle names one playback on one voice. The slot lives in the low 32
// bits and the assignment generation in the high 32 bits; once the voice is
// stopped or reassigned the handle no longer matches and stopping it is a
// no-op. The zero value matches nothing.
type StopHandle uint64

const slotBits = 32

// primarySlot is the slot of the pool's primary voice; pooled voice i lives
// in slot i+1.
const primarySlot = 0

func makeHandle(slot int, gen uint32) StopHandle {
	return StopHandle(uint64(gen)<<slotBits | uint64(uint32(slot)))
}

func (h StopHandle) slot() int {
	return int(uint32(h))
}

func (h StopHandle) generation() uint32 {
	return uint32(uint64(h) >> slotBits)
}

func (h StopHandle) Valid() bool {
	return h != 0
}

// Primary reports whether the handle was issued for the primary voice.
func (h StopHandle) Primary() bool {
	return h.Valid() && h.slot() == primarySlot
}

// PoolIndex returns the pooled voice index the handle was issued for.
func (h StopHandle) PoolIndex() (int, bool) {
	if !h.Valid() || h.slot() == primarySlot {
		return 0, false
	}
	return h.slot() - 1, true
}

func (h StopHandle) String() string {
	if h.Primary() {
		return "primary#" + strconv.FormatUint(uint64(h.generation()), 10)
	}
	return strconv.Itoa(h.slot()-1) + "#" + strconv.FormatUint(uint64(h.generation()), 10)
}
