package leaktest

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoroutineChecker_NoLeak(t *testing.T) {
	checker := NewGoroutineChecker(t)
	checker.Check(0)
}

func TestGoroutineChecker_WaitsForExit(t *testing.T) {
	checker := NewGoroutineChecker(t)

	go func() {
		time.Sleep(50 * time.Millisecond)
	}()

	checker.Check(0)
}

func TestGoroutineChecker_WithTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go func() {
		<-done
	}()

	checker.settle = 50 * time.Millisecond
	checker.Check(1)

	close(done)
}

type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...interface{}) { r.failed = true }

func TestGoroutineChecker_DetectsLeak(t *testing.T) {
	recorder := &recordingTB{TB: t}
	checker := &GoroutineChecker{before: runtime.NumGoroutine(), t: recorder, settle: 30 * time.Millisecond}

	done := make(chan struct{})
	go func() {
		<-done
	}()

	checker.Check(0)
	assert.True(t, recorder.failed)

	close(done)
}

func TestVerifyNone(t *testing.T) {
	VerifyNone(t)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
	}()
	wg.Wait()
}

func TestCheckNoGoroutineLeak_Success(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
		}()
		wg.Wait()
	})
}

func TestWaitForGoroutines(t *testing.T) {
	baseline := runtime.NumGoroutine()

	done := make(chan struct{})
	go func() {
		<-done
	}()
	close(done)

	WaitForGoroutines(t, baseline, time.Second)
}
