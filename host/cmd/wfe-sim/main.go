package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"wfepwm/config"
	"wfepwm/core"
	"wfepwm/sim"
)

var (
	configFile = flag.String("config", "", "JSON settings file")
	period     = flag.Duration("period", config.DefaultPeriod, "Simulated timer period")
	events     = flag.Uint("events", 0, "Stop after this many timer events (0 = run until interrupted)")
	spurious   = flag.Float64("spurious", 0, "Unrelated SEVs per timer period")
	interval   = flag.Uint("interval", core.DefaultReportInterval, "Timer events between stats lines")
	quiet      = flag.Bool("quiet", false, "Suppress firmware output")
	dumpTrace  = flag.Bool("trace", false, "Dump the wake trace on exit")
)

func main() {
	flag.Parse()

	cfg, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	stats := run(ctx, cfg)

	fmt.Fprintf(os.Stderr, "\nTimer events: %d, WFE wakes: %d, spurious: %d\n",
		stats.TimerOverflowCount, stats.WFEWakeCount,
		stats.WFEWakeCount-stats.TimerOverflowCount)
}

// loadSettings reads the settings file if given, then applies explicit flags
func loadSettings() (*config.SimConfig, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadFile(*configFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "period":
			cfg.PeriodMs = uint32(*period / time.Millisecond)
		case "events":
			cfg.Events = uint32(*events)
		case "spurious":
			cfg.SpuriousRate = *spurious
		case "interval":
			cfg.ReportInterval = uint32(*interval)
		case "quiet":
			cfg.Quiet = *quiet
		case "trace":
			cfg.Trace = *dumpTrace
		}
	})

	if cfg.PeriodMs == 0 {
		return nil, fmt.Errorf("period must be at least 1ms")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run boots the firmware core on simulated hardware and steps it until
// the event budget is spent or ctx is cancelled
func run(ctx context.Context, cfg *config.SimConfig) core.Stats {
	fw := cfg.Firmware()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	console := core.NewConsole(out)
	core.SetDebugWriter(console.Writer())
	core.SetDebugEnabled(fw.DebugEnabled)

	hw := sim.New()
	trace := core.NewWakeTrace()
	reporter := core.NewReporter(console, fw.ReportInterval, fw.DebugEnabled)
	loop := core.NewEventLoop(hw, reporter, trace)

	loop.Start()
	core.PrintSystemInfo(console, cfg.Board, fw.SystemClockHz(), fw)
	out.Flush()

	stopTimer := hw.Start(cfg.Period())
	defer stopTimer()

	if cfg.SpuriousRate > 0 {
		stopNoise := injectSpurious(hw, time.Duration(float64(cfg.Period())/cfg.SpuriousRate))
		defer stopNoise()
	}

	// Unblock a pending WFE on cancellation
	go func() {
		<-ctx.Done()
		hw.Close()
	}()

	for ctx.Err() == nil {
		if !loop.Step() {
			continue
		}
		out.Flush()
		if cfg.Events > 0 && loop.Stats().TimerOverflowCount >= cfg.Events {
			break
		}
	}

	if cfg.Trace {
		trace.Dump(console.Writer())
	}
	return loop.Stats()
}

// injectSpurious sets the event latch every gap without touching the timer
func injectSpurious(hw *sim.Hardware, gap time.Duration) (stop func()) {
	if gap <= 0 {
		gap = time.Microsecond
	}
	ticker := time.NewTicker(gap)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				hw.External()
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}
