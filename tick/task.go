package tick

import "time"

// Task is a cooperative step resumed once per tick. Step reports true once the
// task has finished.
type Task interface {
	Step(dt time.Duration) bool
}

type TaskFunc func(dt time.Duration) bool

func (f TaskFunc) Step(dt time.Duration) bool {
	return f(dt)
}

type timer struct {
	after   time.Duration
	elapsed time.Duration
	fire    func()
}

// After returns a task that calls fire once the accumulated tick time reaches
// d. A non-positive d fires on the first step.
func After(d time.Duration, fire func()) Task {
	return &timer{after: d, fire: fire}
}

func (t *timer) Step(dt time.Duration) bool {
	t.elapsed += dt
	if t.elapsed < t.after {
		return false
	}
	if t.fire != nil {
		t.fire()
	}
	return true
}
