package main

import (
	"flag"
	"fmt"
	"os"

	"wfepwm/core"
	"wfepwm/host/monitor"
	"wfepwm/host/serial"
)

var (
	device   = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud     = flag.Int("baud", core.DefaultBaudRate, "Baud rate")
	timeout  = flag.Int("timeout", 0, "Read timeout in milliseconds (0 = blocking)")
	interval = flag.Uint("interval", core.DefaultReportInterval, "Firmware report interval")
	verbose  = flag.Bool("verbose", false, "Echo non-stats lines (banner, faults)")
	strict   = flag.Bool("strict", false, "Exit with status 2 on the first violation")
)

func main() {
	flag.Parse()

	fmt.Println("WFE PWM Monitor")
	fmt.Println("===============")
	fmt.Println()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.ReadTimeout = *timeout

	fmt.Printf("Opening %s at %d baud...\n", cfg.Device, cfg.Baud)
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	// Start on a line boundary
	if err := port.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: flush failed: %v\n", err)
	}

	sc := monitor.NewScanner(port, uint32(*interval))
	sc.OnSample = func(s monitor.Sample, violations []monitor.Violation) {
		printSample(s)
		for _, v := range violations {
			fmt.Printf("  VIOLATION: %s\n", v.Reason)
		}
		if *strict && len(violations) > 0 {
			port.Close()
			os.Exit(2)
		}
	}
	sc.OnOther = func(line string) {
		if *verbose && line != "" {
			fmt.Printf("  | %s\n", line)
		}
	}

	err = sc.Run()
	st := sc.Stats()
	fmt.Printf("\n%d lines, %d samples, %d malformed, %d violations\n",
		st.Lines, st.Samples, st.Malformed, st.Violations)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", cfg.Device, err)
		os.Exit(1)
	}
}

func printSample(s monitor.Sample) {
	if s.HasEfficiency {
		fmt.Printf("events=%-10d wakes=%-10d efficiency=%d%%\n", s.Events, s.Wakes, s.Efficiency)
		return
	}
	fmt.Printf("events=%-10d wakes=%-10d\n", s.Events, s.Wakes)
}
