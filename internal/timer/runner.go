package timer

import (
	"sync"
	"time"

	"vaani/internal/model"
)

// TickInterval is the wall-clock duration of one tick.
const TickInterval = 100 * time.Millisecond

// Runner drives a Machine with real ticker goroutines. Each key owns
// at most one live ticker at a time; Pause, Stop, Reset, and Close
// release it synchronously so no orphaned ticker can mutate state
// after teardown.
type Runner struct {
	machine  *Machine
	interval time.Duration

	mu      sync.Mutex
	handles map[model.Key]chan struct{}
	closed  bool
}

// NewRunner wraps the machine with 100 ms tick delivery.
func NewRunner(m *Machine) *Runner {
	return newRunner(m, TickInterval)
}

func newRunner(m *Machine, interval time.Duration) *Runner {
	return &Runner{
		machine:  m,
		interval: interval,
		handles:  map[model.Key]chan struct{}{},
	}
}

// Machine exposes the underlying machine for reads.
func (r *Runner) Machine() *Machine {
	return r.machine
}

// Start starts or resumes the timer for key and ensures exactly one
// ticker goroutine is driving it. Starting an already-running key is
// a no-op.
func (r *Runner) Start(key model.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if key.Kind == model.KindStory {
		// The machine discards other in-flight stories on start;
		// their tickers must go with them.
		for other := range r.handles {
			if other.Kind == model.KindStory && other != key {
				r.releaseLocked(other)
			}
		}
	}
	r.machine.Start(key)
	if _, held := r.handles[key]; held {
		return
	}
	r.acquireLocked(key)
}

func (r *Runner) acquireLocked(key model.Key) {
	if _, held := r.handles[key]; held {
		panic("timer: duplicate tick handle for " + key.String())
	}
	stop := make(chan struct{})
	r.handles[key] = stop
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.machine.Tick(key)
			}
		}
	}()
}

func (r *Runner) releaseLocked(key model.Key) {
	if stop, held := r.handles[key]; held {
		close(stop)
		delete(r.handles, key)
	}
}

// Pause freezes the timer and releases its ticker.
func (r *Runner) Pause(key model.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked(key)
	r.machine.Pause(key)
}

// Stop releases the ticker and stops the timer, returning the commit
// snapshot when one is due.
func (r *Runner) Stop(key model.Key, commit bool) *Commit {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked(key)
	return r.machine.Stop(key, commit)
}

// Reset releases the ticker and discards the timer's state.
func (r *Runner) Reset(key model.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked(key)
	r.machine.Reset(key)
}

// Lap records a split for key.
func (r *Runner) Lap(key model.Key) {
	r.machine.Lap(key)
}

// Close releases every live ticker. The runner accepts no further
// Start calls afterwards. Run on UI teardown.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.handles {
		r.releaseLocked(key)
	}
	r.closed = true
}
