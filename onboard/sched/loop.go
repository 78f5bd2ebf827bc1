package sched

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// pollInterval is how long the loop sleeps between dispatch passes. Short
// relative to the fastest task period so jitter stays in the noise.
const pollInterval = time.Millisecond

// Loop drives a fixed set of tasks from a single goroutine. Task order is
// priority order: the first registered task is checked first every pass.
type Loop struct {
	clk   clock.Clock
	epoch time.Time
	tasks []*Task
}

// NewLoop builds a loop over tasks. clk may be nil to use the wall clock.
func NewLoop(clk clock.Clock, tasks ...*Task) *Loop {
	if clk == nil {
		clk = clock.New()
	}
	l := &Loop{
		clk:   clk,
		epoch: clk.Now(),
		tasks: tasks,
	}
	now := l.nowMS()
	for _, t := range l.tasks {
		t.Prime(now)
	}
	return l
}

func (l *Loop) nowMS() uint32 {
	return uint32(l.clk.Since(l.epoch) / time.Millisecond)
}

// Tick runs one dispatch pass: every due task fires once, in order.
func (l *Loop) Tick() {
	now := l.nowMS()
	for _, t := range l.tasks {
		if t.Due(now) {
			t.Run()
		}
	}
}

// Run dispatches until ctx is canceled. It never returns early on its own;
// tasks that panic take the loop down, which is deliberate (a wedged control
// loop must not limp along silently).
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l.Tick()
		l.clk.Sleep(pollInterval)
	}
}
