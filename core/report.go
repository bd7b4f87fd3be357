package core

// DefaultReportInterval is the number of confirmed events between stats lines
const DefaultReportInterval = 5

// Stats holds the runtime counters owned by the event loop.
// Both counters wrap at 2^32 and are never reset.
type Stats struct {
	TimerOverflowCount uint32 // Confirmed periodic events
	WFEWakeCount       uint32 // WFE returns, spurious ones included
}

// Efficiency returns floor(100 * events / wakes).
// ok is false when no wake has happened yet.
func (s Stats) Efficiency() (pct uint32, ok bool) {
	if s.WFEWakeCount == 0 {
		return 0, false
	}
	return uint32(uint64(s.TimerOverflowCount) * 100 / uint64(s.WFEWakeCount)), true
}

// Reporter emits a stats line once every interval confirmed events
type Reporter struct {
	console    *Console
	trace      *WakeTrace
	interval   uint32
	lastReport uint32 // overflow count at the last emitted line
	enabled    bool
}

// NewReporter creates a reporter writing to console.
// An interval of 0 selects DefaultReportInterval.
func NewReporter(console *Console, interval uint32, enabled bool) *Reporter {
	if interval == 0 {
		interval = DefaultReportInterval
	}
	return &Reporter{
		console:  console,
		interval: interval,
		enabled:  enabled,
	}
}

// Interval returns the configured report interval
func (r *Reporter) Interval() uint32 {
	return r.interval
}

// LastReport returns the overflow count recorded at the last emission
func (r *Reporter) LastReport() uint32 {
	return r.lastReport
}

// OnEvent is called once per confirmed event with the post-increment counters.
// It returns true when the interval elapsed and the marker moved.
func (r *Reporter) OnEvent(s Stats) bool {
	now := s.TimerOverflowCount

	// Subtraction keeps the comparison valid across the uint32 wrap
	if now-r.lastReport < r.interval {
		return false
	}

	if r.enabled {
		r.emit(s)
	}
	r.lastReport = now
	r.trace.Record(EvtReport, s.WFEWakeCount, now)
	return true
}

func (r *Reporter) emit(s Stats) {
	c := r.console
	c.Puts("TMR Events: ")
	c.PutUint(s.TimerOverflowCount)
	c.Puts(", WFE Wakes: ")
	c.PutUint(s.WFEWakeCount)

	if pct, ok := s.Efficiency(); ok {
		c.Puts(", Efficiency: ")
		c.PutUint(pct)
		c.Puts("%")
	}
	c.Puts("\r\n")
}
