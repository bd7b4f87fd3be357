// Package sim models a Cortex-M core with one periodic timer so the wake
// protocol can run under the regular Go toolchain.
//
// The model follows the ARMv7-M rules the firmware depends on:
//   - the event latch is a single sticky bit; several sets collapse into one
//   - with SEVONPEND, a pending bit going 0->1 sets the latch, a level does not
//   - the pending bit is set even though the interrupt is never enabled
//   - WFE clears the latch, sleeping first if it was clear
package sim

import (
	"sync"
	"time"
)

// Hardware is a simulated core plus periodic source. It implements core.WakeHAL.
// Methods are safe for concurrent use: the ticker goroutine plays the role
// of the asynchronous peripheral.
type Hardware struct {
	mu   sync.Mutex
	cond *sync.Cond

	latch     bool
	pending   bool
	status    bool
	sevOnPend bool
	closed    bool

	// Counters for assertions
	elapsed  uint64 // period boundaries
	sleeps   uint64 // WFE calls that actually suspended
	wfeCalls uint64
}

// New returns hardware in its reset state. The latch is clear.
func New() *Hardware {
	h := &Hardware{}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Elapse simulates a period boundary of the timer
func (h *Hardware) Elapse() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.elapsed++
	h.status = true
	if !h.pending {
		h.pending = true
		if h.sevOnPend {
			h.setLatchLocked()
		}
	}
}

// External simulates an event from an unrelated source (another core's SEV,
// a debugger, an exception return). It sets the latch only.
func (h *Hardware) External() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setLatchLocked()
}

// SetLatch forces the latch, modelling state left over from configuration
func (h *Hardware) SetLatch() {
	h.External()
}

// SetPending forces the pending bit without producing an edge
func (h *Hardware) SetPending(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = v
}

// Close wakes any sleeper and makes every later WFE return at once.
// It models power-off for host tools that need to stop the loop.
func (h *Hardware) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.cond.Broadcast()
}

// Latched reports the event latch state
func (h *Hardware) Latched() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latch
}

// Elapsed returns the number of simulated period boundaries
func (h *Hardware) Elapsed() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.elapsed
}

// Sleeps returns how many WFE calls actually suspended
func (h *Hardware) Sleeps() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sleeps
}

// WFECalls returns the total number of WFE calls
func (h *Hardware) WFECalls() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.wfeCalls
}

// Start runs Elapse every period on a goroutine until stop is called
func (h *Hardware) Start(period time.Duration) (stop func()) {
	ticker := time.NewTicker(period)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-ticker.C:
				h.Elapse()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (h *Hardware) setLatchLocked() {
	h.latch = true
	h.cond.Broadcast()
}

// ReadPending implements core.WakeHAL
func (h *Hardware) ReadPending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending
}

// ClearPending implements core.WakeHAL
func (h *Hardware) ClearPending() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = false
}

// ReadStatus implements core.WakeHAL
func (h *Hardware) ReadStatus() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// ClearStatus implements core.WakeHAL
func (h *Hardware) ClearStatus() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = false
}

// WaitForEvent implements core.WakeHAL
func (h *Hardware) WaitForEvent() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.wfeCalls++
	if !h.latch && !h.closed {
		h.sleeps++
	}
	for !h.latch && !h.closed {
		h.cond.Wait()
	}
	h.latch = false
}

// SignalEvent implements core.WakeHAL
func (h *Hardware) SignalEvent() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.setLatchLocked()
}

// EnableWakeOnPending implements core.WakeHAL
func (h *Hardware) EnableWakeOnPending() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sevOnPend = true
}
