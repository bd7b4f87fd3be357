//go:build rp2040

package pio

// PIO PWM generator using tinygo-org/pio package.
// Raises PIO IRQ flag 0 once per period, which is the periodic event the
// firmware sleeps on.

import (
	"device/rp"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"wfepwm/targets/cortexm"
)

// NVIC line of PIO0_IRQ_0 on RP2040
const pio0IRQ0 = 7

const pwmPIOOrigin = 0 // Load at offset 0 for correct jump addresses

// buildPWMProgram assembles the two-phase PWM program for plan.
// Addresses are absolute from pwmPIOOrigin.
func buildPWMProgram(plan Plan) []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	hi, lo := plan.High, plan.Low
	return []uint16{
		// .wrap_target
		asm.IRQSet(false, 0).Encode(),                            // 0: irq nowait 0
		asm.Set(rp2pio.SetDestPins, 1).Encode(),                  // 1: set pins, 1
		asm.Set(rp2pio.SetDestX, hi.Outer).Encode(),              // 2: set x, outer
		asm.Set(rp2pio.SetDestY, hi.Inner).Encode(),              // 3: set y, inner
		asm.Jmp(4, rp2pio.JmpYNZeroDec).Delay(hi.Delay).Encode(), // 4: jmp y--, 4 [delay]
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(),                 // 5: jmp x--, 3
		asm.Set(rp2pio.SetDestPins, 0).Encode(),                  // 6: set pins, 0
		asm.Set(rp2pio.SetDestX, lo.Outer).Encode(),              // 7: set x, outer
		asm.Set(rp2pio.SetDestY, lo.Inner).Encode(),              // 8: set y, inner
		asm.Jmp(9, rp2pio.JmpYNZeroDec).Delay(lo.Delay).Encode(), // 9: jmp y--, 9 [delay]
		asm.Jmp(8, rp2pio.JmpXNZeroDec).Encode(),                 // 10: jmp x--, 8
		// .wrap
	}
}

// PWM drives one pin from a PIO0 state machine and serves as the periodic
// event source. It implements core.WakeHAL: the NVIC pending bit of
// PIO0_IRQ_0 wakes WFE, PIO IRQ flag 0 confirms the cause.
type PWM struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewPWM creates a PWM on PIO0 state machine smNum
func NewPWM(smNum uint8, pin machine.Pin) *PWM {
	return &PWM{
		pio: rp2pio.PIO0,
		sm:  rp2pio.PIO0.StateMachine(smNum),
		pin: pin,
	}
}

// Init loads the program for plan and starts the state machine
func (p *PWM) Init(plan Plan) error {
	p.sm.TryClaim()

	program := buildPWMProgram(plan)
	offset, err := p.pio.AddProgram(program, pwmPIOOrigin)
	if err != nil {
		return err
	}
	p.offset = offset

	p.pin.Configure(machine.PinConfig{Mode: p.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(p.pin, 1)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(ClkDiv, 0)

	p.sm.Init(offset, cfg)
	p.sm.SetPindirsConsecutive(p.pin, 1, true)
	p.sm.SetPinsConsecutive(p.pin, 1, false)

	// Route IRQ flag 0 to PIO0_IRQ_0 so the NVIC sees it pending.
	// The NVIC line itself stays disabled: no handler runs.
	rp.PIO0.IRQ0_INTE.SetBits(rp.PIO0_IRQ0_INTE_SM0)

	// Drop anything raised before the program started
	rp.PIO0.IRQ.Set(1)

	p.sm.SetEnabled(true)
	return nil
}

// Stop halts the state machine
func (p *PWM) Stop() {
	p.sm.SetEnabled(false)
	p.sm.Restart()
}

func (p *PWM) ReadPending() bool {
	return cortexm.IsPendingIRQ(pio0IRQ0)
}

func (p *PWM) ClearPending() {
	cortexm.ClearPendingIRQ(pio0IRQ0)
}

func (p *PWM) ReadStatus() bool {
	return rp.PIO0.IRQ.HasBits(1)
}

// ClearStatus clears IRQ flag 0. PIO IRQ flags are write-1-to-clear.
func (p *PWM) ClearStatus() {
	rp.PIO0.IRQ.Set(1)
}

func (p *PWM) WaitForEvent() {
	cortexm.WaitForEvent()
}

func (p *PWM) SignalEvent() {
	cortexm.SignalEvent()
}

func (p *PWM) EnableWakeOnPending() {
	cortexm.EnableSEVOnPend()
}
