// Package timer implements the practice timer state machine.
//
// Each practice key (sound symbol, the alphabet singleton, a story)
// owns an independent state: a phase, an elapsed tick count at 100 ms
// resolution, and for alphabet recitation an append-only lap list.
// Sound keys may run concurrently with each other and with the other
// kinds; the alphabet and story timers are singletons.
package timer

import (
	"sync"

	"vaani/internal/model"
)

// Phase is the lifecycle state of one timer.
type Phase int

// Timer phases. Idle is both initial and terminal.
const (
	Idle Phase = iota
	Running
	Paused
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Commit is the snapshot emitted by a stop-with-commit: everything a
// record needs, captured before the timer state is cleared.
type Commit struct {
	Key           model.Key
	DurationTicks int
	Laps          []model.Lap
}

type state struct {
	phase Phase
	ticks int
	laps  []model.Lap
}

// Machine tracks timer state for any number of practice keys. All
// methods are safe for concurrent use; tick delivery is the caller's
// concern (see Runner).
type Machine struct {
	mu     sync.Mutex
	states map[model.Key]*state
}

// NewMachine returns a machine with no active timers.
func NewMachine() *Machine {
	return &Machine{states: map[model.Key]*state{}}
}

func (m *Machine) state(key model.Key) *state {
	st, ok := m.states[key]
	if !ok {
		st = &state{}
		m.states[key] = st
	}
	return st
}

// Start begins or resumes the timer for key. Starting a Running timer
// is a silent no-op; starting from Paused keeps the accumulated ticks.
// Starting a story timer discards any other story mid-session, since
// only one story reading exists at a time.
func (m *Machine) Start(key model.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key.Kind == model.KindStory {
		for other, st := range m.states {
			if other.Kind == model.KindStory && other != key && st.phase != Idle {
				st.phase = Idle
				st.ticks = 0
				st.laps = nil
			}
		}
	}
	st := m.state(key)
	if st.phase == Running {
		return
	}
	if st.phase == Idle {
		st.ticks = 0
		st.laps = nil
	}
	st.phase = Running
}

// Tick advances the timer by one 100 ms unit. No-op unless Running.
func (m *Machine) Tick(key model.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(key)
	if st.phase != Running {
		return
	}
	st.ticks++
}

// Pause freezes the timer, retaining its elapsed ticks. No-op unless
// Running.
func (m *Machine) Pause(key model.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(key)
	if st.phase != Running {
		return
	}
	st.phase = Paused
}

// Lap records a split at the current elapsed ticks. Laps exist only
// for alphabet recitation and only while Running.
func (m *Machine) Lap(key model.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key.Kind != model.KindAlphabet {
		return
	}
	st := m.state(key)
	if st.phase != Running {
		return
	}
	st.laps = append(st.laps, model.Lap{Index: len(st.laps) + 1, Ticks: st.ticks})
}

// Stop ends the session and returns the timer to Idle. When commit is
// true and any time has accrued, the pre-reset snapshot is returned;
// otherwise nil. A zero-duration stop never produces a commit, so no
// empty records can exist.
func (m *Machine) Stop(key model.Key, commit bool) *Commit {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(key)
	var out *Commit
	if commit && st.ticks > 0 {
		laps := make([]model.Lap, len(st.laps))
		copy(laps, st.laps)
		out = &Commit{Key: key, DurationTicks: st.ticks, Laps: laps}
	}
	st.phase = Idle
	st.ticks = 0
	st.laps = nil
	return out
}

// Reset discards the timer's state without emitting a commit,
// regardless of phase.
func (m *Machine) Reset(key model.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(key)
	st.phase = Idle
	st.ticks = 0
	st.laps = nil
}

// Phase returns the current phase for key.
func (m *Machine) Phase(key model.Key) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state(key).phase
}

// Elapsed returns the accumulated ticks for key.
func (m *Machine) Elapsed(key model.Key) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state(key).ticks
}

// Laps returns a copy of the recorded laps for key.
func (m *Machine) Laps(key model.Key) []model.Lap {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(key)
	out := make([]model.Lap, len(st.laps))
	copy(out, st.laps)
	return out
}
