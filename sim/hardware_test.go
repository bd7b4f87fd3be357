package sim

import (
	"testing"
	"time"
)

func waitReturns(h *Hardware, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		h.WaitForEvent()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

func TestLatchCollapses(t *testing.T) {
	h := New()
	h.SignalEvent()
	h.SignalEvent()
	h.SignalEvent()

	h.WaitForEvent()
	if h.Latched() {
		t.Fatalf("Latch should be cleared after one WFE")
	}
	if h.Sleeps() != 0 {
		t.Errorf("WFE with latch set must not sleep")
	}
	if waitReturns(h, 20*time.Millisecond) {
		t.Errorf("Second WFE returned without a new event")
	}
	h.Close()
}

func TestPendingEdgeSetsLatch(t *testing.T) {
	h := New()
	h.EnableWakeOnPending()

	h.Elapse()
	if !h.Latched() || !h.ReadPending() || !h.ReadStatus() {
		t.Fatalf("Elapse should set pending, status and latch")
	}
	h.WaitForEvent()

	// Pending still high: a second boundary is a level, not an edge
	h.Elapse()
	if h.Latched() {
		t.Errorf("No edge, latch must stay clear")
	}

	h.ClearPending()
	h.Elapse()
	if !h.Latched() {
		t.Errorf("0->1 edge should set the latch")
	}
}

func TestNoWakeWithoutSEVONPEND(t *testing.T) {
	h := New()
	h.Elapse()
	if h.Latched() {
		t.Errorf("Pending transitions must not set the latch before EnableWakeOnPending")
	}
	if !h.ReadPending() {
		t.Errorf("Pending bit is set even with the interrupt disabled")
	}
}

func TestSleepingWFEWakesOnEdge(t *testing.T) {
	h := New()
	h.EnableWakeOnPending()

	done := make(chan struct{})
	go func() {
		h.WaitForEvent()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	h.Elapse()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WFE did not wake on the pending edge")
	}
	if h.WFECalls() != 1 {
		t.Errorf("Expected 1 WFE call, got %d", h.WFECalls())
	}
}

func TestStartTicks(t *testing.T) {
	h := New()
	h.EnableWakeOnPending()
	stop := h.Start(time.Millisecond)
	defer stop()

	for i := 0; i < 3; i++ {
		h.ClearPending()
		if !waitReturns(h, time.Second) {
			t.Fatalf("Ticker did not produce event %d", i)
		}
	}
	stop()
	stop()
}

func TestCloseReleasesSleeper(t *testing.T) {
	h := New()
	done := make(chan struct{})
	go func() {
		h.WaitForEvent()
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	h.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not release WFE")
	}
}
