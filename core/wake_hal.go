package core

// WakeHAL is the abstract wake/event interface that core code uses.
// It exposes the two pending flags of the periodic source and the core's
// event latch. Platform-specific implementations handle the actual registers.
type WakeHAL interface {
	// ReadPending reports the processor-level pending-interrupt bit of the periodic source
	ReadPending() bool

	// ClearPending clears the processor-level pending-interrupt bit.
	// The next period boundary produces a fresh 0->1 transition.
	ClearPending()

	// ReadStatus reports the peripheral's own overflow/status flag
	ReadStatus() bool

	// ClearStatus clears the peripheral status flag
	ClearStatus()

	// WaitForEvent consumes the event latch, sleeping until it is set if needed
	WaitForEvent()

	// SignalEvent sets the event latch unconditionally
	SignalEvent()

	// EnableWakeOnPending makes pending-bit transitions set the event latch
	EnableWakeOnPending()
}
