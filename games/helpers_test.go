package games

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// manualClock fires scheduled callbacks only when Advance is called.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d and runs every timer that came due.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Scheduled counts timers that have neither fired nor been stopped.
func (c *manualClock) Scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recorder struct {
	snapshots []Snapshot
	feedback  []Feedback
}

func (r *recorder) Render(s Snapshot)   { r.snapshots = append(r.snapshots, s) }
func (r *recorder) Feedback(f Feedback) { r.feedback = append(r.feedback, f) }

func (r *recorder) lastFeedback() Feedback {
	if len(r.feedback) == 0 {
		return Feedback{}
	}
	return r.feedback[len(r.feedback)-1]
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// failingStore accepts nothing.
type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) ([]byte, error) { return nil, s.err }
func (s failingStore) Put(context.Context, string, []byte) error   { return s.err }
