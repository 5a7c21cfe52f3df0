package main

import (
	"sync/atomic"
	"testing"
	"time"
)

type fakeCleaner struct {
	calls atomic.Int32
}

func (f *fakeCleaner) CleanupExpiredSessions() error {
	f.calls.Add(1)
	return nil
}

func TestCleanupLoopRunsAndStops(t *testing.T) {
	cleaner := &fakeCleaner{}
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		cleanupExpiredSessions(cleaner, 5*time.Millisecond, stop)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	close(stop)

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("cleanup loop did not stop after close")
	}

	if cleaner.calls.Load() == 0 {
		t.Error("cleanup loop never ran before stopping")
	}
}
