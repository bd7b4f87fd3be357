// Package monitor parses and checks the firmware's diagnostics lines.
//
// A stats line has the form
//
//	TMR Events: <n>, WFE Wakes: <m>[, Efficiency: <p>%]
//
// terminated by CRLF. The efficiency field is present only when m > 0.
package monitor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrNotStats marks banner, blank or other non-stats lines
	ErrNotStats = errors.New("not a stats line")

	// ErrMalformed marks a line that starts like a stats line but does not parse
	ErrMalformed = errors.New("malformed stats line")
)

const (
	prefixEvents     = "TMR Events: "
	prefixWakes      = "WFE Wakes: "
	prefixEfficiency = "Efficiency: "
)

// Sample is one parsed stats line
type Sample struct {
	Events        uint32
	Wakes         uint32
	Efficiency    uint32
	HasEfficiency bool
}

// ParseLine parses a single line; trailing CR/LF is ignored
func ParseLine(line string) (Sample, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, prefixEvents) {
		return Sample{}, ErrNotStats
	}

	fields := strings.Split(line, ", ")
	if len(fields) != 2 && len(fields) != 3 {
		return Sample{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}

	var s Sample
	var err error
	if s.Events, err = parseField(fields[0], prefixEvents, ""); err != nil {
		return Sample{}, fmt.Errorf("%w: events: %v", ErrMalformed, err)
	}
	if s.Wakes, err = parseField(fields[1], prefixWakes, ""); err != nil {
		return Sample{}, fmt.Errorf("%w: wakes: %v", ErrMalformed, err)
	}
	if len(fields) == 3 {
		if s.Efficiency, err = parseField(fields[2], prefixEfficiency, "%"); err != nil {
			return Sample{}, fmt.Errorf("%w: efficiency: %v", ErrMalformed, err)
		}
		s.HasEfficiency = true
	}
	return s, nil
}

func parseField(field, prefix, suffix string) (uint32, error) {
	if !strings.HasPrefix(field, prefix) || !strings.HasSuffix(field, suffix) {
		return 0, fmt.Errorf("expected %q...%q, got %q", prefix, suffix, field)
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(field, prefix), suffix)
	// Firmware renders plain base-10 without sign or leading zeros
	if digits == "" || (len(digits) > 1 && digits[0] == '0') || digits[0] == '+' {
		return 0, fmt.Errorf("bad number %q", digits)
	}
	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Violation describes an invariant a sample broke
type Violation struct {
	Sample Sample
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("events=%d wakes=%d: %s", v.Sample.Events, v.Sample.Wakes, v.Reason)
}

// Check validates cur on its own and against prev, the previous sample
// (nil for the first one). interval is the firmware report interval.
func Check(prev *Sample, cur Sample, interval uint32) []Violation {
	var out []Violation
	add := func(format string, args ...interface{}) {
		out = append(out, Violation{Sample: cur, Reason: fmt.Sprintf(format, args...)})
	}

	if cur.Wakes == 0 {
		if cur.HasEfficiency {
			add("efficiency reported with zero wakes")
		}
	} else {
		if !cur.HasEfficiency {
			add("efficiency missing with nonzero wakes")
		} else if want := uint32(uint64(cur.Events) * 100 / uint64(cur.Wakes)); cur.Efficiency != want {
			add("efficiency %d%%, expected %d%%", cur.Efficiency, want)
		}
	}

	if prev == nil {
		return out
	}

	// Deltas use uint32 arithmetic so a counter wrap is not a regression
	dEvents := cur.Events - prev.Events
	dWakes := cur.Wakes - prev.Wakes
	if dEvents == 0 {
		add("event counter did not advance")
	} else if interval > 0 && dEvents%interval != 0 {
		// Dropped lines skip whole intervals
		add("advanced by %d events, not a multiple of %d", dEvents, interval)
	}
	if dWakes < dEvents {
		add("wakes advanced by %d, less than events (%d)", dWakes, dEvents)
	}
	if dEvents > 1<<31 || dWakes > 1<<31 {
		add("counter went backwards")
	}
	return out
}

// Stats accumulates what a Scanner has seen
type Stats struct {
	Lines      int
	Samples    int
	Malformed  int
	Violations int
	Last       *Sample
}

// Scanner reads lines from r and reports samples and violations
type Scanner struct {
	sc       *bufio.Scanner
	interval uint32
	stats    Stats

	// OnSample is called for every parsed sample with its violations
	OnSample func(Sample, []Violation)
	// OnOther is called for non-stats lines (banner, fault message)
	OnOther func(line string)
}

// NewScanner creates a scanner over r
func NewScanner(r io.Reader, interval uint32) *Scanner {
	return &Scanner{
		sc:       bufio.NewScanner(r),
		interval: interval,
	}
}

// Run reads until EOF or a read error. EOF is not an error.
func (s *Scanner) Run() error {
	for s.sc.Scan() {
		s.handle(s.sc.Text())
	}
	return s.sc.Err()
}

// Stats returns the counters accumulated so far
func (s *Scanner) Stats() Stats {
	return s.stats
}

func (s *Scanner) handle(line string) {
	s.stats.Lines++

	sample, err := ParseLine(line)
	switch {
	case errors.Is(err, ErrNotStats):
		if s.OnOther != nil {
			s.OnOther(strings.TrimRight(line, "\r"))
		}
		return
	case err != nil:
		s.stats.Malformed++
		if s.OnOther != nil {
			s.OnOther(strings.TrimRight(line, "\r"))
		}
		return
	}

	violations := Check(s.stats.Last, sample, s.interval)
	s.stats.Samples++
	s.stats.Violations += len(violations)
	s.stats.Last = &sample

	if s.OnSample != nil {
		s.OnSample(sample, violations)
	}
}
