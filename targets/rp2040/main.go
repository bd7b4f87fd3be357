//go:build rp2040

package main

import (
	"machine"

	"wfepwm/core"
	"wfepwm/targets/cortexm"
	"wfepwm/targets/pio"
)

var (
	console *core.Console
	trace   = core.NewWakeTrace()
)

func main() {
	cfg := GetConfig()

	uart := machine.UART0
	err := uart.Configure(machine.UARTConfig{
		BaudRate: cfg.BaudRate,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	if err != nil {
		halt(cfg)
	}
	console = core.NewConsole(uart)
	core.SetDebugWriter(console.Writer())
	core.SetDebugEnabled(cfg.DebugEnabled)

	plan, err := pio.PlanPWM(cfg.PWMFrequencyHz, cfg.PWMDutyRatio)
	if err != nil {
		core.DebugPrintln("PWM plan: " + err.Error())
		halt(cfg)
	}
	pwm := pio.NewPWM(pwmStateMachine, pwmPin)
	if err := pwm.Init(plan); err != nil {
		core.DebugPrintln("PIO init: " + err.Error())
		halt(cfg)
	}

	reporter := core.NewReporter(console, cfg.ReportInterval, cfg.DebugEnabled)
	loop := core.NewEventLoop(pwm, reporter, trace)

	// Arm SEVONPEND, then SEV + WFE to drop latch state left by setup
	loop.Start()

	core.PrintSystemInfo(console, boardName, pio.SysClockHz, cfg)

	defer func() {
		if r := recover(); r != nil {
			halt(cfg)
		}
	}()
	loop.Run()
}

// halt enters the fault state and never returns
func halt(cfg core.Config) {
	core.Fault(console, trace, cfg.DebugEnabled, cortexm.Nop)
}
