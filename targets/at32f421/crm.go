//go:build at32f421

package main

import (
	"errors"

	"wfepwm/core"
)

var (
	ErrHEXTTimeout   = errors.New("HEXT crystal failed to stabilize")
	ErrPLLTimeout    = errors.New("PLL failed to lock")
	ErrSwitchTimeout = errors.New("system clock switch to PLL failed")
)

// waitBits polls reg until mask reads back as want, or the timeout expires
func waitBits(r interface{ Get() uint32 }, mask, want uint32) bool {
	for timeout := crmTimeout; timeout > 0; timeout-- {
		if r.Get()&mask == want {
			return true
		}
	}
	return false
}

// InitClock switches SCLK to the PLL and enables the peripheral clocks
// used by this firmware: GPIOA, TMR14 and USART1.
func InitClock(pll core.PLLSetting) error {
	if pll.Source == core.ClockHEXT {
		crmCTRL.SetBits(crmCTRL_HEXTEN)
		if !waitBits(crmCTRL, crmCTRL_HEXTSTBL, crmCTRL_HEXTSTBL) {
			return ErrHEXTTimeout
		}
	}

	low, high := pll.MultBits()
	cfg := low<<crmCFG_PLLMULT_L_Pos | high<<crmCFG_PLLMULT_H_Pos
	if pll.Source == core.ClockHEXT {
		cfg |= crmCFG_PLLRCS_HEXT
		if pll.HEXTDiv2 {
			cfg |= crmCFG_PLLHEXTDIV_2
		}
	}
	crmCFG.Set(cfg)

	crmCTRL.SetBits(crmCTRL_PLLEN)
	if !waitBits(crmCTRL, crmCTRL_PLLSTBL, crmCTRL_PLLSTBL) {
		return ErrPLLTimeout
	}

	// Auto-step is required when switching above 108MHz
	crmMISC2.SetBits(crmMISC2_AUTO_STEP_EN)

	flashPSR.Set(flashPSR_WTCYC_3 | flashPSR_PFT_EN | flashPSR_PFT_EN2)

	crmCFG.SetBits(crmCFG_SCLKSEL_PLL)
	if !waitBits(crmCFG, crmCFG_SCLKSTS_Msk, crmCFG_SCLKSTS_PLL) {
		return ErrSwitchTimeout
	}

	crmMISC2.ClearBits(crmMISC2_AUTO_STEP_EN)

	crmAHBEN.Set(crmAHBEN_GPIOAEN)
	crmAPB1EN.Set(crmAPB1EN_TMR14EN)
	crmAPB2EN.Set(crmAPB2EN_USART1EN)

	return nil
}
