package tick

import "time"

// System updates once per tick, before tasks are stepped.
type System interface {
	Update(dt time.Duration)
}

type SystemFunc func(dt time.Duration)

func (f SystemFunc) Update(dt time.Duration) {
	f(dt)
}

type scheduledTask struct {
	id   TaskID
	task Task
}

// Scheduler runs systems in insertion order and steps cooperative tasks once
// per Update. It is not safe for concurrent use; the host loop owns it.
type Scheduler struct {
	systems []System

	slots    slotStore
	tasks    []scheduledTask
	pending  []scheduledTask
	updating bool

	elapsed time.Duration
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

// Start schedules task. Tasks started from inside Update are first stepped on
// the following Update.
func (s *Scheduler) Start(task Task) TaskID {
	if s == nil || task == nil {
		return 0
	}
	st := scheduledTask{id: s.slots.create(), task: task}
	if s.updating {
		s.pending = append(s.pending, st)
	} else {
		s.tasks = append(s.tasks, st)
	}
	return st.id
}

// Cancel stops id from being stepped again. It reports whether id was running.
func (s *Scheduler) Cancel(id TaskID) bool {
	if s == nil {
		return false
	}
	return s.slots.release(id)
}

func (s *Scheduler) Running(id TaskID) bool {
	if s == nil {
		return false
	}
	return s.slots.isAlive(id)
}

// CancelAll cancels every running task.
func (s *Scheduler) CancelAll() {
	if s == nil {
		return
	}
	for _, st := range s.tasks {
		s.slots.release(st.id)
	}
	for _, st := range s.pending {
		s.slots.release(st.id)
	}
	clear(s.tasks)
	clear(s.pending)
	s.tasks = s.tasks[:0]
	s.pending = s.pending[:0]
}

// Len returns the number of running tasks.
func (s *Scheduler) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, st := range s.tasks {
		if s.slots.isAlive(st.id) {
			n++
		}
	}
	for _, st := range s.pending {
		if s.slots.isAlive(st.id) {
			n++
		}
	}
	return n
}

// Elapsed returns the total tick time delivered so far.
func (s *Scheduler) Elapsed() time.Duration {
	if s == nil {
		return 0
	}
	return s.elapsed
}

// Update advances the clock by dt, runs systems, then steps every running task
// in start order. A negative dt counts as zero.
func (s *Scheduler) Update(dt time.Duration) {
	if s == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	s.elapsed += dt

	for _, system := range s.systems {
		system.Update(dt)
	}

	s.updating = true
	tasks := s.tasks
	live := tasks[:0]
	for _, st := range tasks {
		if !s.slots.isAlive(st.id) {
			continue
		}
		if st.task.Step(dt) {
			s.slots.release(st.id)
			continue
		}
		if s.slots.isAlive(st.id) {
			live = append(live, st)
		}
	}
	clear(tasks[len(live):])
	s.updating = false

	s.tasks = append(live, s.pending...)
	clear(s.pending)
	s.pending = s.pending[:0]
}
