// Package leaktest checks that a test does not leave goroutines running.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// DefaultSettle bounds how long a check waits for goroutines to exit
const DefaultSettle = 2 * time.Second

const pollInterval = 10 * time.Millisecond

// GoroutineChecker records the goroutine count at creation and compares
// against it later
type GoroutineChecker struct {
	before int
	t      testing.TB
	settle time.Duration
}

// NewGoroutineChecker creates a new checker and records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
		settle: DefaultSettle,
	}
}

// Check polls until at most tolerance extra goroutines remain, failing the
// test once the settle period passes
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	limit := g.before + tolerance
	if after, ok := waitFor(limit, g.settle); !ok {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, after-g.before, tolerance)
	}
}

// VerifyNone registers a cleanup that fails the test if goroutines started
// during it are still running when it ends. Call it first so it runs after
// every other cleanup.
func VerifyNone(t testing.TB) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	t.Cleanup(func() { checker.Check(0) })
}

// CheckNoGoroutineLeak is a convenience function for simple leak checks
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// WaitForGoroutines waits for goroutines to finish or times out
func WaitForGoroutines(t *testing.T, target int, timeout time.Duration) {
	t.Helper()

	if current, ok := waitFor(target, timeout); !ok {
		t.Errorf("Timeout waiting for goroutines to complete: current=%d, target=%d", current, target)
	}
}

func waitFor(limit int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= limit {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}
