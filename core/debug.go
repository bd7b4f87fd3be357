package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// WakeEvent captures one step of the wake protocol for post-mortem analysis
type WakeEvent struct {
	EventType uint8  // Event type code
	Seq       uint32 // Wake count at the time of the event
	Value     uint32 // Context-dependent value
}

// Event type codes
const (
	EvtDrain    = 1 // Initialization drain (SEV + WFE) completed
	EvtWake     = 2 // WFE returned
	EvtOverflow = 3 // Peripheral flag confirmed, Value = overflow count
	EvtSpurious = 4 // WFE returned without the peripheral flag
	EvtReport   = 5 // Stats line emitted, Value = overflow count
)

const (
	WakeTraceSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// WakeTrace is a fixed-size ring of recent wake protocol events.
// Recording never blocks or allocates. A nil *WakeTrace ignores records.
type WakeTrace struct {
	ring [WakeTraceSize]WakeEvent
	head uint8 // Next write position
}

// NewWakeTrace returns an empty trace
func NewWakeTrace() *WakeTrace {
	return &WakeTrace{}
}

// Record captures an event in the ring buffer
func (t *WakeTrace) Record(eventType uint8, seq, value uint32) {
	if t == nil {
		return
	}
	idx := t.head
	t.ring[idx] = WakeEvent{
		EventType: eventType,
		Seq:       seq,
		Value:     value,
	}
	t.head = (idx + 1) % WakeTraceSize
}

// Events returns the recorded events from oldest to newest
func (t *WakeTrace) Events() []WakeEvent {
	if t == nil {
		return nil
	}
	out := make([]WakeEvent, 0, WakeTraceSize)
	start := t.head
	for i := uint8(0); i < WakeTraceSize; i++ {
		evt := t.ring[(start+i)%WakeTraceSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// Clear empties the ring
func (t *WakeTrace) Clear() {
	if t == nil {
		return
	}
	for i := range t.ring {
		t.ring[i] = WakeEvent{}
	}
	t.head = 0
}

// Dump writes the ring to w, oldest first
func (t *WakeTrace) Dump(w DebugWriter) {
	if t == nil || w == nil {
		return
	}

	w("[WAKE] === Wake Trace Dump ===")
	for _, evt := range t.Events() {
		w("[WAKE] " + eventName(evt.EventType) +
			" seq=" + utoa(evt.Seq) +
			" v=" + utoa(evt.Value))
	}
	w("[WAKE] === End Dump ===")
}

func eventName(eventType uint8) string {
	switch eventType {
	case EvtDrain:
		return "DRAIN"
	case EvtWake:
		return "WAKE"
	case EvtOverflow:
		return "OVERFLOW"
	case EvtSpurious:
		return "SPURIOUS"
	case EvtReport:
		return "REPORT"
	default:
		return "UNKNOWN"
	}
}
