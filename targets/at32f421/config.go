//go:build at32f421

package main

import "wfepwm/core"

// boardName is printed in the startup banner
const boardName = "AT32F421"

// GetConfig returns the firmware configuration.
// Change the literal to select a crystal, PWM frequency or baud rate.
func GetConfig() core.Config {
	// Default: internal HICK through the PLL to 120MHz, 1Hz PWM at 10% duty
	// To use an 8MHz crystal: ClockSource: core.ClockHEXT, HEXTFrequencyMHz: 8
	return core.Config{
		ClockSource:    core.ClockHICK,
		PWMFrequencyHz: core.DefaultPWMFrequencyHz,
		PWMDutyRatio:   core.DefaultPWMDutyRatio,
		BaudRate:       core.DefaultBaudRate,
		ReportInterval: core.DefaultReportInterval,
		DebugEnabled:   true,
	}
}
