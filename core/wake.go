package core

// WakeController suspends the core between periodic events.
//
// The event latch is set on a 0->1 transition of the pending bit, not on its
// level, so every sleep clears the pending bit first. An event arriving
// between the clear and the wait still sets the latch and the wait returns
// immediately.
type WakeController struct {
	hal     WakeHAL
	trace   *WakeTrace
	armed   bool
	drained bool
}

// NewWakeController creates a controller over the given HAL.
// trace may be nil.
func NewWakeController(hal WakeHAL, trace *WakeTrace) *WakeController {
	return &WakeController{
		hal:   hal,
		trace: trace,
	}
}

// Arm enables wake-on-pending. It must run after the periodic source is configured.
func (w *WakeController) Arm() {
	w.hal.EnableWakeOnPending()
	w.armed = true
}

// Drain discards latch state accumulated during peripheral configuration.
// SEV sets the latch so the following WFE consumes it without sleeping.
func (w *WakeController) Drain() {
	w.hal.SignalEvent()
	w.hal.WaitForEvent()
	w.drained = true
	w.trace.Record(EvtDrain, 0, 0)
}

// Start arms the controller and drains the latch
func (w *WakeController) Start() {
	w.Arm()
	w.Drain()
}

// Started reports whether Start (or Arm and Drain) has completed
func (w *WakeController) Started() bool {
	return w.armed && w.drained
}

// Sleep clears the pending bit and waits for the next event.
// It returns once per latch set; spurious wakes are possible.
func (w *WakeController) Sleep() {
	if !w.armed {
		panic("wake controller not armed")
	}
	w.hal.ClearPending()
	w.hal.WaitForEvent()
}
