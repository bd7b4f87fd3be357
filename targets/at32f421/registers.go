//go:build at32f421

package main

import (
	"runtime/volatile"
	"unsafe"
)

// AT32F421 peripheral memory map
const (
	crmBase    = 0x40021000
	flashBase  = 0x40022000
	gpioaBase  = 0x48000000
	tmr14Base  = 0x40002000
	usart1Base = 0x40013800
)

// TMR14 global interrupt number in the NVIC
const tmr14IRQ = 19

func reg(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

// CRM registers
var (
	crmCTRL   = reg(crmBase + 0x00)
	crmCFG    = reg(crmBase + 0x04)
	crmAHBEN  = reg(crmBase + 0x14)
	crmAPB2EN = reg(crmBase + 0x18)
	crmAPB1EN = reg(crmBase + 0x1C)
	crmMISC2  = reg(crmBase + 0x54)
)

const (
	crmCTRL_HEXTEN   = 1 << 16
	crmCTRL_HEXTSTBL = 1 << 17
	crmCTRL_PLLEN    = 1 << 24
	crmCTRL_PLLSTBL  = 1 << 25

	crmCFG_SCLKSEL_PLL   = 0x2 << 0
	crmCFG_SCLKSTS_Msk   = 0x3 << 2
	crmCFG_SCLKSTS_PLL   = 0x2 << 2
	crmCFG_PLLRCS_HEXT   = 1 << 16
	crmCFG_PLLHEXTDIV_2  = 1 << 17
	crmCFG_PLLMULT_L_Pos = 18
	crmCFG_PLLMULT_H_Pos = 29

	crmMISC2_AUTO_STEP_EN = 0x3 << 4

	crmAHBEN_GPIOAEN   = 1 << 17
	crmAPB1EN_TMR14EN  = 1 << 8
	crmAPB2EN_USART1EN = 1 << 14

	// Polls before a stabilization wait is declared failed
	crmTimeout = 50000
)

// Flash controller
var flashPSR = reg(flashBase + 0x00)

const (
	flashPSR_WTCYC_3 = 0x3 << 0
	flashPSR_PFT_EN  = 1 << 4
	flashPSR_PFT_EN2 = 1 << 6
)

// GPIOA registers
var (
	gpioaCFGR  = reg(gpioaBase + 0x00)
	gpioaODRVR = reg(gpioaBase + 0x08)
	gpioaPULL  = reg(gpioaBase + 0x0C)
	gpioaMUXL  = reg(gpioaBase + 0x20)
	gpioaMUXH  = reg(gpioaBase + 0x24)
)

const (
	gpioModeMux   = 0x2
	gpioOSpeedLow = 0x0
	gpioPullUp    = 0x1
	gpioPullDown  = 0x2
	gpioAF0System = 0x0
	gpioAF1USART  = 0x1
	gpioAF4Timer  = 0x4
)

// TMR14 registers
var (
	tmr14CTRL1 = reg(tmr14Base + 0x00)
	tmr14IDEN  = reg(tmr14Base + 0x0C)
	tmr14ISTS  = reg(tmr14Base + 0x10)
	tmr14SWEVT = reg(tmr14Base + 0x14)
	tmr14CM1   = reg(tmr14Base + 0x18)
	tmr14CCTRL = reg(tmr14Base + 0x20)
	tmr14DIV   = reg(tmr14Base + 0x28)
	tmr14PR    = reg(tmr14Base + 0x2C)
	tmr14C1DT  = reg(tmr14Base + 0x34)
)

const (
	tmrCTRL1_CEN     = 1 << 0
	tmrIDEN_OVFIEN   = 1 << 0
	tmrISTS_OVFIF    = 1 << 0
	tmrSWEVT_OVFSWTR = 1 << 0
	tmrCM1_OC1M_PWMA = 0x6 << 4
	tmrCCTRL_C1EN    = 1 << 0
	tmrCCTRL_C1P     = 1 << 1
)

// USART1 registers
var (
	usart1STS   = reg(usart1Base + 0x00)
	usart1DT    = reg(usart1Base + 0x04)
	usart1BAUDR = reg(usart1Base + 0x08)
	usart1CTRL1 = reg(usart1Base + 0x0C)
)

const (
	usartCTRL1_REN = 1 << 2
	usartCTRL1_TEN = 1 << 3
	usartCTRL1_UEN = 1 << 13
	usartSTS_TDBE  = 1 << 7
)
