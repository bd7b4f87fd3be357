package core

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"wfepwm/sim"
)

func newTestLoop(interval uint32) (*EventLoop, *sim.Hardware, *bytes.Buffer) {
	hw := sim.New()
	out := &bytes.Buffer{}
	reporter := NewReporter(NewConsole(out), interval, true)
	loop := NewEventLoop(hw, reporter, NewWakeTrace())
	return loop, hw, out
}

func TestGenuineEventsCountOneToOne(t *testing.T) {
	loop, hw, _ := newTestLoop(DefaultReportInterval)
	loop.Start()

	const n = 25
	for i := 0; i < n; i++ {
		hw.Elapse()
		if !loop.Step() {
			t.Fatalf("Step %d: expected genuine wake", i)
		}
	}

	stats := loop.Stats()
	if stats.TimerOverflowCount != n || stats.WFEWakeCount != n {
		t.Errorf("Expected %d/%d, got events=%d wakes=%d", n, n, stats.TimerOverflowCount, stats.WFEWakeCount)
	}
	if hw.ReadStatus() {
		t.Errorf("Peripheral flag should be cleared after consuming the event")
	}
}

func TestSpuriousWakeIsCountedButIgnored(t *testing.T) {
	loop, hw, out := newTestLoop(DefaultReportInterval)
	loop.Start()

	hw.External()
	if loop.Step() {
		t.Fatalf("Wake without peripheral flag should be spurious")
	}

	stats := loop.Stats()
	if stats.WFEWakeCount != 1 || stats.TimerOverflowCount != 0 {
		t.Errorf("Expected wakes=1 events=0, got wakes=%d events=%d", stats.WFEWakeCount, stats.TimerOverflowCount)
	}
	if out.Len() != 0 {
		t.Errorf("Spurious wake should not report, got %q", out.String())
	}
}

func TestWakeCountNeverBelowEventCount(t *testing.T) {
	loop, hw, _ := newTestLoop(DefaultReportInterval)
	loop.Start()

	// Mix of genuine, spurious and coalesced wakes
	script := []string{"e", "s", "e", "ee", "s", "s", "e", "ee", "e"}
	for _, step := range script {
		switch step {
		case "e":
			hw.Elapse()
		case "ee":
			hw.Elapse()
			hw.Elapse()
		case "s":
			hw.External()
		}
		loop.Step()

		stats := loop.Stats()
		if stats.WFEWakeCount < stats.TimerOverflowCount {
			t.Fatalf("After %q: wakes=%d < events=%d", step, stats.WFEWakeCount, stats.TimerOverflowCount)
		}
	}
}

func TestCoalescedEventsProduceOneWake(t *testing.T) {
	loop, hw, _ := newTestLoop(DefaultReportInterval)
	loop.Start()

	// Two period boundaries inside one suspend window
	hw.Elapse()
	hw.Elapse()
	loop.Step()

	stats := loop.Stats()
	if stats.WFEWakeCount != 1 || stats.TimerOverflowCount != 1 {
		t.Errorf("Expected a single coalesced wake, got wakes=%d events=%d", stats.WFEWakeCount, stats.TimerOverflowCount)
	}
	if hw.Latched() {
		t.Errorf("Latch should not accumulate a second set")
	}
	if hw.Elapsed() != 2 {
		t.Errorf("Expected 2 period boundaries, got %d", hw.Elapsed())
	}
}

func TestEventBetweenClearAndWaitIsNotLost(t *testing.T) {
	hw := sim.New()
	racer := &raceHAL{Hardware: hw}
	loop := NewEventLoop(racer, nil, nil)
	loop.Start()

	// The period elapses right after the pending bit is cleared
	racer.fireAfterClear = true

	done := make(chan bool, 1)
	go func() { done <- loop.Step() }()

	select {
	case genuine := <-done:
		if !genuine {
			t.Errorf("Event raised between clear and WFE should be observed")
		}
	case <-time.After(time.Second):
		t.Fatal("WFE missed the event raised before it")
	}
}

func TestFirstWaitAfterDrainBlocksUntilEvent(t *testing.T) {
	loop, hw, _ := newTestLoop(DefaultReportInterval)

	// Configuration leaves stale latch state behind
	hw.SetLatch()
	loop.Start()

	if hw.Latched() {
		t.Fatalf("Drain should consume the stale latch")
	}

	done := make(chan bool, 1)
	go func() { done <- loop.Step() }()

	select {
	case <-done:
		t.Fatal("First Step returned without an event")
	case <-time.After(50 * time.Millisecond):
	}

	hw.Elapse()

	select {
	case genuine := <-done:
		if !genuine {
			t.Errorf("Expected genuine wake after Elapse")
		}
	case <-time.After(time.Second):
		t.Fatal("Step did not return after the event")
	}

	stats := loop.Stats()
	if stats.WFEWakeCount != 1 {
		t.Errorf("Drain must not count as a wake, got %d", stats.WFEWakeCount)
	}
}

func TestStaleLatchWithoutDrainWakesSpuriously(t *testing.T) {
	hw := sim.New()
	loop := NewEventLoop(hw, nil, nil)

	hw.SetLatch()
	loop.Wake().Arm()

	if loop.Step() {
		t.Fatalf("Stale latch wake should not look genuine")
	}
	if loop.Stats().WFEWakeCount != 1 {
		t.Errorf("Expected the stale latch to cost one wake")
	}
}

func TestReportsEveryFifthEvent(t *testing.T) {
	loop, hw, out := newTestLoop(5)
	loop.Start()

	for i := 0; i < 16; i++ {
		hw.Elapse()
		loop.Step()
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\r\n"), "\r\n")
	expected := []string{
		"TMR Events: 5, WFE Wakes: 5, Efficiency: 100%",
		"TMR Events: 10, WFE Wakes: 10, Efficiency: 100%",
		"TMR Events: 15, WFE Wakes: 15, Efficiency: 100%",
	}
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d: %q", len(expected), len(lines), out.String())
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("Line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}

func TestEfficiencyReflectsSpuriousWakes(t *testing.T) {
	loop, hw, out := newTestLoop(5)
	loop.Start()

	for i := 0; i < 5; i++ {
		hw.External()
		loop.Step()
		hw.Elapse()
		loop.Step()
	}

	expected := "TMR Events: 5, WFE Wakes: 10, Efficiency: 50%\r\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestCountersWrapWithoutError(t *testing.T) {
	loop, hw, out := newTestLoop(5)
	loop.Start()

	loop.stats = Stats{TimerOverflowCount: math.MaxUint32 - 1, WFEWakeCount: math.MaxUint32 - 1}
	loop.reporter.lastReport = math.MaxUint32 - 1

	for i := 0; i < 5; i++ {
		hw.Elapse()
		loop.Step()
	}

	stats := loop.Stats()
	if stats.TimerOverflowCount != 3 || stats.WFEWakeCount != 3 {
		t.Errorf("Expected wrapped counters 3/3, got %d/%d", stats.TimerOverflowCount, stats.WFEWakeCount)
	}
	if !strings.HasPrefix(out.String(), "TMR Events: 3, WFE Wakes: 3") {
		t.Errorf("Expected a report across the wrap, got %q", out.String())
	}
}

func TestSleepBeforeArmPanics(t *testing.T) {
	loop := NewEventLoop(sim.New(), nil, nil)

	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic when sleeping before Arm")
		}
	}()
	loop.Step()
}

func TestTraceRecordsProtocol(t *testing.T) {
	loop, hw, _ := newTestLoop(1)
	loop.Start()

	hw.External()
	loop.Step()
	hw.Elapse()
	loop.Step()

	var types []uint8
	for _, evt := range loop.trace.Events() {
		types = append(types, evt.EventType)
	}
	expected := []uint8{EvtDrain, EvtWake, EvtSpurious, EvtWake, EvtOverflow, EvtReport}
	if len(types) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, types)
	}
	for i := range expected {
		if types[i] != expected[i] {
			t.Errorf("Event %d: expected %d, got %d", i, expected[i], types[i])
		}
	}
}

// raceHAL raises a period boundary immediately after ClearPending,
// before WaitForEvent runs.
type raceHAL struct {
	*sim.Hardware
	fireAfterClear bool
}

func (r *raceHAL) ClearPending() {
	r.Hardware.ClearPending()
	if r.fireAfterClear {
		r.fireAfterClear = false
		r.Hardware.Elapse()
	}
}
