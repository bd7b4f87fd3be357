package monitor

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Sample
	}{
		{"TMR Events: 5, WFE Wakes: 5, Efficiency: 100%\r\n", Sample{5, 5, 100, true}},
		{"TMR Events: 10, WFE Wakes: 20, Efficiency: 50%", Sample{10, 20, 50, true}},
		{"TMR Events: 0, WFE Wakes: 0\r\n", Sample{0, 0, 0, false}},
		{"TMR Events: 4294967295, WFE Wakes: 3, Efficiency: 0%", Sample{4294967295, 3, 0, true}},
	}

	for _, tt := range tests {
		got, err := ParseLine(tt.line)
		if err != nil {
			t.Errorf("ParseLine(%q) error: %v", tt.line, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseLineNotStats(t *testing.T) {
	lines := []string{
		"",
		"\r\n",
		"AT32F421 PWM Demo with WFE",
		"Power Mode: SEVONPEND + WFE Enabled",
		"*** HARD FAULT! ***",
	}
	for _, line := range lines {
		if _, err := ParseLine(line); !errors.Is(err, ErrNotStats) {
			t.Errorf("ParseLine(%q) err = %v, want ErrNotStats", line, err)
		}
	}
}

func TestParseLineMalformed(t *testing.T) {
	lines := []string{
		"TMR Events: 5",
		"TMR Events: x, WFE Wakes: 5",
		"TMR Events: 5, WFE Wakes: -1",
		"TMR Events: 05, WFE Wakes: 5, Efficiency: 100%",
		"TMR Events: 5, WFE Wakes: 5, Efficiency: 100",
		"TMR Events: 4294967296, WFE Wakes: 5, Efficiency: 100%",
		"TMR Events: 5, WFE Wakes: 5, Efficiency: 100%, Extra: 1",
	}
	for _, line := range lines {
		if _, err := ParseLine(line); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseLine(%q) err = %v, want ErrMalformed", line, err)
		}
	}
}

func TestCheckSingle(t *testing.T) {
	tests := []struct {
		name string
		s    Sample
		bad  bool
	}{
		{"ok", Sample{5, 5, 100, true}, false},
		{"ok no wakes", Sample{0, 0, 0, false}, false},
		{"efficiency without wakes", Sample{0, 0, 0, true}, true},
		{"missing efficiency", Sample{5, 5, 0, false}, true},
		{"wrong efficiency", Sample{5, 10, 60, true}, true},
		{"truncated efficiency", Sample{2, 3, 66, true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Check(nil, tt.s, 5)
			if (len(v) > 0) != tt.bad {
				t.Errorf("Check = %v, want violation=%v", v, tt.bad)
			}
		})
	}
}

func TestCheckSequence(t *testing.T) {
	prev := Sample{5, 5, 100, true}

	if v := Check(&prev, Sample{10, 12, 83, true}, 5); len(v) != 0 {
		t.Errorf("valid step flagged: %v", v)
	}
	if v := Check(&prev, Sample{15, 15, 100, true}, 5); len(v) != 0 {
		t.Errorf("dropped line flagged: %v", v)
	}
	if v := Check(&prev, Sample{5, 6, 83, true}, 5); len(v) == 0 {
		t.Error("stalled event counter not flagged")
	}
	if v := Check(&prev, Sample{8, 8, 100, true}, 5); len(v) == 0 {
		t.Error("partial interval not flagged")
	}
	if v := Check(&prev, Sample{10, 9, 111, true}, 5); len(v) == 0 {
		t.Error("wakes lagging events not flagged")
	}
}

func TestCheckWrap(t *testing.T) {
	prev := Sample{Events: 0xFFFFFFFD, Wakes: 0xFFFFFFFD}
	cur := Sample{Events: 2, Wakes: 2}
	cur.Efficiency, cur.HasEfficiency = 100, true
	prev.Efficiency, prev.HasEfficiency = 100, true

	if v := Check(&prev, cur, 5); len(v) != 0 {
		t.Errorf("wrap flagged: %v", v)
	}
}

func TestScanner(t *testing.T) {
	input := strings.Join([]string{
		"",
		"AT32F421 PWM Demo with WFE",
		"--------------------------",
		"SYSCLK: 120MHz, PWM Freq: 1Hz, Duty: 10%",
		"Power Mode: SEVONPEND + WFE Enabled",
		"",
		"TMR Events: 5, WFE Wakes: 5, Efficiency: 100%",
		"TMR Events: 10, WFE Wakes: 10, Efficiency: 100%",
		"TMR Events: 1x, WFE Wakes: 10",
		"TMR Events: 12, WFE Wakes: 12, Efficiency: 100%",
	}, "\r\n") + "\r\n"

	var samples []Sample
	var others []string
	sc := NewScanner(strings.NewReader(input), 5)
	sc.OnSample = func(s Sample, _ []Violation) { samples = append(samples, s) }
	sc.OnOther = func(line string) { others = append(others, line) }

	if err := sc.Run(); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	st := sc.Stats()
	if st.Lines != 10 {
		t.Errorf("Lines = %d, want 10", st.Lines)
	}
	if st.Samples != 3 || len(samples) != 3 {
		t.Errorf("Samples = %d (%d delivered), want 3", st.Samples, len(samples))
	}
	if st.Malformed != 1 {
		t.Errorf("Malformed = %d, want 1", st.Malformed)
	}
	// 10 -> 12 is not a whole interval
	if st.Violations != 1 {
		t.Errorf("Violations = %d, want 1", st.Violations)
	}
	if st.Last == nil || st.Last.Events != 12 {
		t.Errorf("Last = %+v, want events 12", st.Last)
	}
	if len(others) != 7 {
		t.Errorf("others = %d lines, want 7", len(others))
	}
	for _, line := range others {
		if strings.HasSuffix(line, "\r") {
			t.Errorf("line %q kept CR", line)
		}
	}
}
