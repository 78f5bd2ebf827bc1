// Package sched is a minimal cooperative fixed-period dispatcher. Tasks run
// to completion in registration order inside one goroutine; nothing preempts
// and no task may block. Timing uses uint32 millisecond stamps with modular
// arithmetic, so a rollover of the uptime counter is harmless.
package sched

// IsDue reports whether a task with the given period is due at now, and
// returns the advanced lastRun stamp to store when it is. Period 0 means
// "every iteration" and pins lastRun to now.
//
// When a task has been starved for several periods, lastRun advances by the
// largest elapsed exact multiple of the period rather than jumping to now.
// The task fires once, then catches back up to its intended phase instead of
// drifting later with every delay.
func IsDue(now, lastRun, period uint32) (bool, uint32) {
	if period == 0 {
		return true, now
	}

	elapsed := now - lastRun // modular, rollover-safe
	if elapsed < period {
		return false, lastRun
	}

	return true, lastRun + (elapsed/period)*period
}

// Prime returns the lastRun stamp that makes the very first IsDue check at
// now fire immediately.
func Prime(now, period uint32) uint32 {
	if period == 0 {
		return now
	}
	return now - period
}

// Task is one periodic job. Period is in milliseconds; 0 runs it on every
// loop iteration.
type Task struct {
	Name    string
	Period  uint32
	Run     func()
	lastRun uint32
}

// Prime backdates the task so its first Due check fires right away.
func (t *Task) Prime(now uint32) {
	t.lastRun = Prime(now, t.Period)
}

// Due checks and, when due, advances the task's phase. The caller is
// expected to invoke Run exactly when Due returns true.
func (t *Task) Due(now uint32) bool {
	due, next := IsDue(now, t.lastRun, t.Period)
	if due {
		t.lastRun = next
	}
	return due
}
