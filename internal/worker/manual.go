package worker

import (
	"sort"
	"sync"
	"time"
)

// ManualLoop is a Loop driven by virtual time. Nothing runs until the test
// calls Advance or RunUntilIdle, which makes tick sequences deterministic.
type ManualLoop struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

// NewManualLoop creates a manual loop whose clock starts at start
func NewManualLoop(start time.Time) *ManualLoop {
	return &ManualLoop{now: start}
}

type manualTimer struct {
	loop *ManualLoop
	due  time.Time
	seq  uint64
	fn   func()
}

// Now returns the current virtual time
func (m *ManualLoop) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules fn at now+d
func (m *ManualLoop) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{loop: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Do runs fn immediately; the manual loop is single-threaded by construction
func (m *ManualLoop) Do(fn func()) error {
	fn()
	return nil
}

// Pending returns the number of scheduled callbacks
func (m *ManualLoop) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves virtual time forward by d, running every callback that
// becomes due in (due, sequence) order.
func (m *ManualLoop) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	m.mu.Lock()
	if target.After(m.now) {
		m.now = target
	}
	m.mu.Unlock()
}

// RunUntilIdle runs callbacks until none are pending and returns the
// virtual time that elapsed.
func (m *ManualLoop) RunUntilIdle() time.Duration {
	start := m.Now()
	for i := 0; i < maxManualSteps; i++ {
		m.mu.Lock()
		if len(m.timers) == 0 {
			m.mu.Unlock()
			break
		}
		m.sortLocked()
		next := m.timers[0].due
		m.mu.Unlock()

		m.Advance(next.Sub(m.Now()))
	}
	return m.Now().Sub(start)
}

func (m *ManualLoop) popDue(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		return nil
	}
	m.sortLocked()
	t := m.timers[0]
	if t.due.After(target) {
		return nil
	}
	m.timers = m.timers[1:]
	if t.due.After(m.now) {
		m.now = t.due
	}
	return t
}

func (m *ManualLoop) sortLocked() {
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due.Equal(m.timers[j].due) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due.Before(m.timers[j].due)
	})
}

func (t *manualTimer) Stop() bool {
	m := t.loop
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}
