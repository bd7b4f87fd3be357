//go:build at32f421

package main

import (
	"wfepwm/core"
	"wfepwm/targets/cortexm"
)

var (
	console *core.Console
	trace   = core.NewWakeTrace()
)

func main() {
	cfg := GetConfig()

	pll, err := cfg.PLL()
	if err != nil {
		halt(cfg)
	}
	// Until the clock is up there is no console to report on
	if err := InitClock(pll); err != nil {
		halt(cfg)
	}
	timing, err := cfg.PWMTiming()
	if err != nil {
		halt(cfg)
	}
	divisor, _, err := cfg.BaudDivisor()
	if err != nil {
		halt(cfg)
	}

	InitGPIO()
	tmr := InitTMR14(timing)
	console = core.NewConsole(InitUSART(divisor))

	core.SetDebugWriter(console.Writer())
	core.SetDebugEnabled(cfg.DebugEnabled)

	reporter := core.NewReporter(console, cfg.ReportInterval, cfg.DebugEnabled)
	loop := core.NewEventLoop(tmr, reporter, trace)

	// Arm SEVONPEND, then SEV + WFE to drop latch state left by the
	// register writes above
	loop.Start()

	core.PrintSystemInfo(console, boardName, pll.SystemClock, cfg)

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
