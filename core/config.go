package core

import "errors"

// Clock sources
const (
	ClockHICK = 0 // Internal 4MHz oscillator
	ClockHEXT = 1 // External crystal
)

// Defaults match the demo board: HICK PLL to 120MHz, 1Hz PWM at 10% duty, 115200 baud
const (
	DefaultPWMFrequencyHz = 1
	DefaultPWMDutyRatio   = 10
	DefaultBaudRate       = 115200
	PWMTimerFreqHz        = 10000 // Timer counter tick after prescaling
	HICKFrequencyHz       = 4000000

	maxTimerValue   = 65535
	maxBaudErrorPPM = 25000
)

var (
	ErrUnsupportedCrystal = errors.New("unsupported HEXT frequency (supported: 4, 8, 12, 16, 20, 25 MHz)")
	ErrPrescalerRange     = errors.New("PWM prescaler exceeds 16 bits")
	ErrPeriodRange        = errors.New("PWM period exceeds 16 bits")
	ErrDutyRange          = errors.New("PWM duty ratio exceeds 100%")
	ErrCompareRange       = errors.New("PWM compare exceeds period")
	ErrPWMFrequency       = errors.New("PWM frequency must be nonzero")
	ErrBaudRate           = errors.New("baud rate must be nonzero")
	ErrBaudError          = errors.New("baud rate error exceeds 25000 ppm")
)

// Config is the build-time configuration of a firmware image.
// Targets declare it as a literal and validate it once at boot.
type Config struct {
	ClockSource      uint8  // ClockHICK or ClockHEXT
	HEXTFrequencyMHz uint32 // Crystal frequency when ClockSource is ClockHEXT
	PWMFrequencyHz   uint32
	PWMDutyRatio     uint32 // Percent, 0-100
	BaudRate         uint32
	ReportInterval   uint32 // Confirmed events between stats lines
	DebugEnabled     bool
}

// DefaultConfig returns the demo board configuration
func DefaultConfig() Config {
	return Config{
		ClockSource:    ClockHICK,
		PWMFrequencyHz: DefaultPWMFrequencyHz,
		PWMDutyRatio:   DefaultPWMDutyRatio,
		BaudRate:       DefaultBaudRate,
		ReportInterval: DefaultReportInterval,
		DebugEnabled:   true,
	}
}

// PLLSetting describes how the PLL reaches the system clock
type PLLSetting struct {
	Source      uint8  // ClockHICK or ClockHEXT
	HEXTDiv2    bool   // Crystal is divided by 2 before the PLL
	MultFactor  uint32 // PLL multiplication factor
	SystemClock uint32 // Resulting SCLK in Hz
}

// MultBits returns the PLLMULT field encoding as (low 4 bits, high 2 bits).
// The HICK path uses the fixed encoding from the reference manual.
func (p PLLSetting) MultBits() (low, high uint32) {
	if p.Source == ClockHICK {
		return 0xE, 0x1
	}
	v := p.MultFactor - 2
	return v & 0x0F, (v >> 4) & 0x03
}

// PLL selects the PLL configuration for the configured clock source
func (c Config) PLL() (PLLSetting, error) {
	if c.ClockSource != ClockHEXT {
		// 4MHz x 30 = 120MHz
		return PLLSetting{Source: ClockHICK, MultFactor: 30, SystemClock: 120000000}, nil
	}

	s := PLLSetting{Source: ClockHEXT, SystemClock: 120000000}
	switch c.HEXTFrequencyMHz {
	case 4:
		s.MultFactor = 30
	case 8:
		s.MultFactor = 15
	case 12:
		s.MultFactor = 10
	case 16:
		s.HEXTDiv2, s.MultFactor = true, 15
	case 20:
		s.HEXTDiv2, s.MultFactor = true, 12
	case 25:
		// 12.5MHz x 10, not exactly 120MHz
		s.HEXTDiv2, s.MultFactor, s.SystemClock = true, 10, 125000000
	default:
		return PLLSetting{}, ErrUnsupportedCrystal
	}
	return s, nil
}

// SystemClockHz returns SCLK; AHB, APB1 and APB2 all run undivided
func (c Config) SystemClockHz() uint32 {
	s, err := c.PLL()
	if err != nil {
		return 0
	}
	return s.SystemClock
}

// PWMTiming holds the timer register values for the PWM output
type PWMTiming struct {
	Prescaler uint32 // DIV register
	Period    uint32 // PR register (counts - 1)
	Compare   uint32 // C1DT register
}

// PWMTiming derives prescaler, period and compare for the timer clock
func (c Config) PWMTiming() (PWMTiming, error) {
	if c.PWMFrequencyHz == 0 {
		return PWMTiming{}, ErrPWMFrequency
	}
	if c.PWMDutyRatio > 100 {
		return PWMTiming{}, ErrDutyRange
	}
	timerClock := c.SystemClockHz()
	if timerClock == 0 {
		return PWMTiming{}, ErrUnsupportedCrystal
	}

	counts := uint32(PWMTimerFreqHz) / c.PWMFrequencyHz
	if counts == 0 {
		return PWMTiming{}, ErrPeriodRange
	}
	t := PWMTiming{
		Prescaler: timerClock/PWMTimerFreqHz - 1,
		Period:    counts - 1,
		Compare:   counts * c.PWMDutyRatio / 100,
	}

	if t.Prescaler > maxTimerValue {
		return PWMTiming{}, ErrPrescalerRange
	}
	if t.Period > maxTimerValue {
		return PWMTiming{}, ErrPeriodRange
	}
	if t.Compare > t.Period {
		return PWMTiming{}, ErrCompareRange
	}
	return t, nil
}

// BaudDivisor returns the rounded USART divisor and the resulting error in ppm
func (c Config) BaudDivisor() (div uint32, errPPM uint32, err error) {
	if c.BaudRate == 0 {
		return 0, 0, ErrBaudRate
	}
	clock := c.SystemClockHz()
	if clock == 0 {
		return 0, 0, ErrUnsupportedCrystal
	}

	div = (clock + c.BaudRate/2) / c.BaudRate
	if div == 0 {
		return 0, 0, ErrBaudError
	}
	actual := clock / div

	var diff uint32
	if actual > c.BaudRate {
		diff = actual - c.BaudRate
	} else {
		diff = c.BaudRate - actual
	}
	errPPM = uint32(uint64(diff) * 1000000 / uint64(c.BaudRate))
	if errPPM > maxBaudErrorPPM {
		return div, errPPM, ErrBaudError
	}
	return div, errPPM, nil
}

// Validate checks the whole configuration
func (c Config) Validate() error {
	if _, err := c.PLL(); err != nil {
		return err
	}
	if _, err := c.PWMTiming(); err != nil {
		return err
	}
	if _, _, err := c.BaudDivisor(); err != nil {
		return err
	}
	return nil
}
