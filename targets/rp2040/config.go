//go:build rp2040

package main

import (
	"machine"

	"wfepwm/core"
)

// boardName is printed in the startup banner
const boardName = "RP2040"

// pwmPin carries the PIO PWM output; the Pico LED shows the duty cycle
const pwmPin = machine.LED

// pwmStateMachine is the PIO0 state machine reserved for the PWM program
const pwmStateMachine = 0

// GetConfig returns the firmware configuration.
// The clock fields are unused here: the RP2040 runtime already runs at 125MHz.
func GetConfig() core.Config {
	return core.Config{
		PWMFrequencyHz: core.DefaultPWMFrequencyHz,
		PWMDutyRatio:   core.DefaultPWMDutyRatio,
		BaudRate:       core.DefaultBaudRate,
		ReportInterval: core.DefaultReportInterval,
		DebugEnabled:   true,
	}
}
