package pio

import "errors"

// PIO clock setup: 125MHz system clock / 62500 = 2kHz state machine clock
const (
	SysClockHz = 125000000
	ClkDiv     = 62500
	PIOClockHz = SysClockHz / ClkDiv

	maxLoopField = 31 // 5-bit SET operand and delay field (no side-set)
)

var (
	ErrPhaseTooShort = errors.New("PWM phase shorter than the loop overhead")
	ErrPhaseTooLong  = errors.New("PWM phase longer than the nested loop can count")
	ErrPWMParams     = errors.New("PWM frequency must be nonzero and duty strictly between 0 and 100")
)

// Loop is one phase of the PWM program:
//
//	set pins, v
//	set x, Outer
//	outer: set y, Inner
//	inner: jmp y--, inner [Delay]
//	       jmp x--, outer
type Loop struct {
	Outer uint8
	Inner uint8
	Delay uint8
}

// Cycles returns the number of PIO cycles the phase takes
func (l Loop) Cycles() uint32 {
	inner := (uint32(l.Inner) + 1) * (uint32(l.Delay) + 1)
	return 2 + (uint32(l.Outer)+1)*(inner+2)
}

// MinPhaseCycles and MaxPhaseCycles bound what FitLoop can produce
var (
	MinPhaseCycles = Loop{}.Cycles()
	MaxPhaseCycles = Loop{maxLoopField, maxLoopField, maxLoopField}.Cycles()
)

// FitLoop finds the loop parameters closest to cycles, preferring the
// smallest delay on ties.
func FitLoop(cycles uint32) (Loop, error) {
	if cycles < MinPhaseCycles {
		return Loop{}, ErrPhaseTooShort
	}
	if cycles > MaxPhaseCycles {
		return Loop{}, ErrPhaseTooLong
	}

	best := Loop{}
	bestErr := cycles - MinPhaseCycles
	for d := 0; d <= maxLoopField; d++ {
		for b := 0; b <= maxLoopField; b++ {
			per := uint32(b+1)*uint32(d+1) + 2
			// Outer count that brings the total closest to cycles
			a := (cycles - 2 + per/2) / per
			if a == 0 {
				a = 1
			}
			if a > maxLoopField+1 {
				a = maxLoopField + 1
			}
			l := Loop{Outer: uint8(a - 1), Inner: uint8(b), Delay: uint8(d)}
			got := l.Cycles()
			var e uint32
			if got > cycles {
				e = got - cycles
			} else {
				e = cycles - got
			}
			if e < bestErr {
				best, bestErr = l, e
				if e == 0 {
					return best, nil
				}
			}
		}
	}
	return best, nil
}

// Plan holds both phases of one PWM period
type Plan struct {
	High Loop
	Low  Loop
}

// Cycles returns the full period in PIO cycles, including the irq instruction
func (p Plan) Cycles() uint32 {
	return 1 + p.High.Cycles() + p.Low.Cycles()
}

// PlanPWM splits one period at freqHz into high and low phases.
// The irq instruction that marks the period boundary is charged to the high phase.
func PlanPWM(freqHz, dutyPct uint32) (Plan, error) {
	if freqHz == 0 || dutyPct == 0 || dutyPct >= 100 {
		return Plan{}, ErrPWMParams
	}
	period := uint32(PIOClockHz) / freqHz
	high := period * dutyPct / 100
	if high < 1 {
		return Plan{}, ErrPhaseTooShort
	}

	hi, err := FitLoop(high - 1)
	if err != nil {
		return Plan{}, err
	}
	lo, err := FitLoop(period - high)
	if err != nil {
		return Plan{}, err
	}
	return Plan{High: hi, Low: lo}, nil
}
