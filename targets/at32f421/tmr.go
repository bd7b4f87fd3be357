//go:build at32f421

package main

import (
	"wfepwm/core"
	"wfepwm/targets/cortexm"
)

// TMR14 drives PA4 with PWM and serves as the periodic event source.
// It implements core.WakeHAL: the NVIC pending bit of IRQ 19 wakes WFE,
// OVFIF in ISTS confirms the cause.
type TMR14 struct{}

// InitTMR14 programs the timer and starts it
func InitTMR14(t core.PWMTiming) *TMR14 {
	tmr14DIV.Set(t.Prescaler)
	tmr14PR.Set(t.Period)
	tmr14C1DT.Set(t.Compare)

	tmr14CM1.Set(tmrCM1_OC1M_PWMA)
	// Channel 1 output, active low
	tmr14CCTRL.Set(tmrCCTRL_C1EN | tmrCCTRL_C1P)

	// The overflow interrupt is enabled at the peripheral so the NVIC sees a
	// pending request; it is never enabled in the NVIC, so no handler runs.
	tmr14IDEN.Set(tmrIDEN_OVFIEN)

	// Force an update to load DIV and PR, then drop the flag it raised
	tmr14SWEVT.Set(tmrSWEVT_OVFSWTR)
	tmr14ISTS.Set(0)

	tmr14CTRL1.Set(tmrCTRL1_CEN)
	return &TMR14{}
}

func (t *TMR14) ReadPending() bool {
	return cortexm.IsPendingIRQ(tmr14IRQ)
}

func (t *TMR14) ClearPending() {
	cortexm.ClearPendingIRQ(tmr14IRQ)
}

func (t *TMR14) ReadStatus() bool {
	return tmr14ISTS.HasBits(tmrISTS_OVFIF)
}

// ClearStatus clears OVFIF. ISTS flags are cleared by writing 0.
func (t *TMR14) ClearStatus() {
	tmr14ISTS.ClearBits(tmrISTS_OVFIF)
}

func (t *TMR14) WaitForEvent() {
	cortexm.WaitForEvent()
}

func (t *TMR14) SignalEvent() {
	cortexm.SignalEvent()
}

func (t *TMR14) EnableWakeOnPending() {
	cortexm.EnableSEVOnPend()
}
