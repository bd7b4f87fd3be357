// Package config loads wfe-sim settings from JSON
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"wfepwm/core"
)

// Default simulator settings
const (
	DefaultPeriod = 100 * time.Millisecond
)

// SimConfig is the JSON settings file of wfe-sim.
// Zero values are replaced by defaults; the firmware part mirrors core.Config.
type SimConfig struct {
	Board string `json:"board"`

	// Firmware
	PWMFrequencyHz uint32 `json:"pwm_frequency_hz"`
	PWMDutyRatio   uint32 `json:"pwm_duty_ratio"`
	ReportInterval uint32 `json:"report_interval"`
	Quiet          bool   `json:"quiet"` // Suppress reporter output

	// Simulator
	PeriodMs     uint32  `json:"period_ms"`     // Simulated timer period, independent of pwm_frequency_hz
	SpuriousRate float64 `json:"spurious_rate"` // Unrelated SEVs per period
	Events       uint32  `json:"events"`        // Stop after this many confirmed events; 0 runs forever
	Trace        bool    `json:"trace"`         // Dump the wake trace on exit
}

// LoadConfig parses a JSON settings document
func LoadConfig(jsonData []byte) (*SimConfig, error) {
	var cfg SimConfig

	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads and parses a settings file
func LoadFile(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills in missing values from the firmware defaults
func applyDefaults(cfg *SimConfig) {
	def := core.DefaultConfig()

	if cfg.Board == "" {
		cfg.Board = "Simulated"
	}
	if cfg.PWMFrequencyHz == 0 {
		cfg.PWMFrequencyHz = def.PWMFrequencyHz
	}
	if cfg.PWMDutyRatio == 0 {
		cfg.PWMDutyRatio = def.PWMDutyRatio
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = def.ReportInterval
	}
	if cfg.PeriodMs == 0 {
		cfg.PeriodMs = uint32(DefaultPeriod / time.Millisecond)
	}
}

// Default returns the settings used when no file is given
func Default() *SimConfig {
	cfg := &SimConfig{}
	applyDefaults(cfg)
	return cfg
}

// Validate checks the settings against the firmware limits
func (c *SimConfig) Validate() error {
	if c.SpuriousRate < 0 {
		return fmt.Errorf("spurious_rate must be >= 0, got %v", c.SpuriousRate)
	}
	if _, err := c.Firmware().PWMTiming(); err != nil {
		return fmt.Errorf("pwm: %w", err)
	}
	return nil
}

// Period returns the simulated timer period
func (c *SimConfig) Period() time.Duration {
	return time.Duration(c.PeriodMs) * time.Millisecond
}

// Firmware returns the core configuration the simulated image runs with
func (c *SimConfig) Firmware() core.Config {
	fw := core.DefaultConfig()
	fw.PWMFrequencyHz = c.PWMFrequencyHz
	fw.PWMDutyRatio = c.PWMDutyRatio
	fw.ReportInterval = c.ReportInterval
	fw.DebugEnabled = !c.Quiet
	return fw
}
