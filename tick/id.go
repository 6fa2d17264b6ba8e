package tick

import "strconv"

// TaskID identifies a started task. The slot lives in the low 32 bits and the
// slot generation in the high 32 bits, so an ID outlives its task safely.
type TaskID uint64

type slotID uint32
type generation uint32

const slotIDBits = 32

func makeTaskID(id slotID, gen generation) TaskID {
	return TaskID(uint64(gen)<<slotIDBits | uint64(id))
}

func (t TaskID) slot() slotID {
	return slotID(uint32(t))
}

func (t TaskID) generation() generation {
	return generation(uint32(uint64(t) >> slotIDBits))
}

func (t TaskID) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

func (t TaskID) Valid() bool {
	return t > 0
}
