package core

// EventLoop is the single consumer of the periodic source.
// It owns the runtime counters; nothing else mutates them.
type EventLoop struct {
	hal      WakeHAL
	wake     *WakeController
	reporter *Reporter
	trace    *WakeTrace
	stats    Stats
}

// NewEventLoop wires a wake controller and reporter over hal.
// reporter and trace may be nil.
func NewEventLoop(hal WakeHAL, reporter *Reporter, trace *WakeTrace) *EventLoop {
	if reporter != nil {
		reporter.trace = trace
	}
	return &EventLoop{
		hal:      hal,
		wake:     NewWakeController(hal, trace),
		reporter: reporter,
		trace:    trace,
	}
}

// Wake returns the loop's wake controller
func (l *EventLoop) Wake() *WakeController {
	return l.wake
}

// Stats returns a copy of the runtime counters
func (l *EventLoop) Stats() Stats {
	return l.stats
}

// Start arms wake-on-pending and drains stale latch state.
// Call once after the periodic source is configured.
func (l *EventLoop) Start() {
	l.wake.Start()
}

// Step runs one sleep/consume cycle and reports whether the wake was
// caused by the periodic source.
func (l *EventLoop) Step() bool {
	l.wake.Sleep()

	l.stats.WFEWakeCount++
	l.trace.Record(EvtWake, l.stats.WFEWakeCount, 0)

	// The pending bit was already cleared before sleeping; confirm the
	// cause with the peripheral's own flag.
	if !l.hal.ReadStatus() {
		l.trace.Record(EvtSpurious, l.stats.WFEWakeCount, 0)
		return false
	}
	l.hal.ClearStatus()

	l.stats.TimerOverflowCount++
	l.trace.Record(EvtOverflow, l.stats.WFEWakeCount, l.stats.TimerOverflowCount)

	if l.reporter != nil {
		l.reporter.OnEvent(l.stats)
	}
	return true
}

// Run steps forever
func (l *EventLoop) Run() {
	for {
		l.Step()
	}
}
