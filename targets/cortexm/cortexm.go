//go:build tinygo && cortexm

// Package cortexm wraps the ARMv6-M/ARMv7-M core primitives used by the
// wake protocol: WFE, SEV, SCB SCR.SEVONPEND and the NVIC pending registers.
package cortexm

import (
	"device/arm"
	"runtime/volatile"
	"unsafe"
)

// System Control Space addresses (identical on every Cortex-M)
const (
	scbSCR   = 0xE000ED10 // System Control Register
	nvicISPR = 0xE000E200 // Interrupt Set-Pending Registers
	nvicICPR = 0xE000E280 // Interrupt Clear-Pending Registers

	scrSEVONPEND = 1 << 4
)

var scr = (*volatile.Register32)(unsafe.Pointer(uintptr(scbSCR)))

func ispr(irq uint32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(nvicISPR + 4*(irq>>5))))
}

func icpr(irq uint32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(nvicICPR + 4*(irq>>5))))
}

// WaitForEvent executes WFE
func WaitForEvent() {
	arm.Asm("wfe")
}

// SignalEvent executes SEV
func SignalEvent() {
	arm.Asm("sev")
}

// Nop executes NOP; used by the fault halt loop
func Nop() {
	arm.Asm("nop")
}

// EnableSEVOnPend lets pending-bit transitions of any interrupt, enabled or
// not, set the event latch.
func EnableSEVOnPend() {
	scr.SetBits(scrSEVONPEND)
}

// IsPendingIRQ reports the NVIC pending bit for irq
func IsPendingIRQ(irq uint32) bool {
	return ispr(irq).HasBits(1 << (irq & 31))
}

// ClearPendingIRQ clears the NVIC pending bit for irq.
// Writing 1 to ICPR clears; zeros are ignored.
func ClearPendingIRQ(irq uint32) {
	icpr(irq).Set(1 << (irq & 31))
}
