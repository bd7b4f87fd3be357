package core

// FaultMessage is printed once when the firmware enters the fault state
const FaultMessage = "\r\n*** HARD FAULT! ***\r\nSystem Halted.\r\n"

// Fault is the terminal state. It masks interrupts, prints FaultMessage to c
// when debug output is enabled, dumps the wake trace through the debug writer,
// then calls idle forever. It never returns.
func Fault(c *Console, trace *WakeTrace, debug bool, idle func()) {
	maskInterrupts()

	if debug {
		c.Puts(FaultMessage)
		if debugEnabled {
			trace.Dump(debugPrintln)
		}
	}
	for {
		if idle != nil {
			idle()
		}
	}
}
