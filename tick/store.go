package tick

// slotStore tracks slot generations and free slots.
type slotStore struct {
	nextID slotID
	gen    []generation
	free   []slotID
}

func (s *slotStore) create() TaskID {
	var id slotID
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.nextID++
		id = s.nextID
		s.gen = append(s.gen, 0)
	}
	return makeTaskID(id, s.gen[id-1])
}

// release retires id and reports whether it was alive.
func (s *slotStore) release(t TaskID) bool {
	if !s.isAlive(t) {
		return false
	}
	idx := t.slot() - 1
	s.gen[idx]++
	s.free = append(s.free, t.slot())
	return true
}

func (s *slotStore) isAlive(t TaskID) bool {
	id := t.slot()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == t.generation()
}
