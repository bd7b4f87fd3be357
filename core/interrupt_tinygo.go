//go:build tinygo

package core

import "runtime/interrupt"

// maskInterrupts disables interrupts for good; the fault state never restores them
func maskInterrupts() {
	interrupt.Disable()
}
