package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerRunsZeroDelaySynchronously(t *testing.T) {
	sched := newScheduler()
	ran := false
	sched.Schedule(0, func() { ran = true })
	if !ran {
		t.Error("zero-delay task did not run synchronously")
	}
}

func TestSchedulerCancelStopsPendingTasks(t *testing.T) {
	sched := newScheduler()
	var fired atomic.Int32

	sched.Schedule(10*time.Millisecond, func() { fired.Add(1) })
	sched.Cancel()
	time.Sleep(40 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("cancelled task fired")
	}

	// Tasks scheduled after a cancel still run.
	sched.Schedule(5*time.Millisecond, func() { fired.Add(1) })
	time.Sleep(40 * time.Millisecond)
	if fired.Load() != 1 {
		t.Errorf("post-cancel task fired %d times, want 1", fired.Load())
	}
}

func TestHistoryBounded(t *testing.T) {
	h := &history{}
	for i := 0; i < historyLimit+10; i++ {
		h.push(command{Type: "place", LabelID: "l1"})
	}
	if len(h.entries) != historyLimit {
		t.Errorf("history length = %d, want %d", len(h.entries), historyLimit)
	}

	undone := 0
	for h.undo() != nil {
		undone++
	}
	if undone != historyLimit {
		t.Errorf("undoable commands = %d, want %d", undone, historyLimit)
	}
}
