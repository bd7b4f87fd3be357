//go:build at32f421

package main

// Pins used on port A
//
//	PA4  - TMR14_CH1 (AF4) PWM output
//	PA9  - USART1_TX (AF1)
//	PA10 - USART1_RX (AF1)
//	PA13 - SWDIO (AF0)
//	PA14 - SWCLK (AF0)
//
// Every other pin on the port is left in analog mode for lowest power.
const (
	pinPWM   = 4
	pinTX    = 9
	pinRX    = 10
	pinSWDIO = 13
	pinSWCLK = 14
)

func mode2(pin, v uint32) uint32 { return v << (pin * 2) }

func mux4(pin, af uint32) uint32 { return af << ((pin % 8) * 4) }

// InitGPIO configures port A in one pass. Call once after reset with the
// GPIOA clock enabled.
func InitGPIO() {
	var mask, mux uint32
	for _, pin := range []uint32{pinPWM, pinTX, pinRX, pinSWDIO, pinSWCLK} {
		mask |= mode2(pin, 0x3)
		mux |= mode2(pin, gpioModeMux)
	}
	gpioaCFGR.Set(0xFFFFFFFF&^mask | mux)

	gpioaODRVR.Set(mode2(pinPWM, gpioOSpeedLow) | mode2(pinTX, gpioOSpeedLow))

	gpioaPULL.Set(mode2(pinRX, gpioPullUp) | mode2(pinSWDIO, gpioPullUp) | mode2(pinSWCLK, gpioPullDown))

	gpioaMUXL.Set(mux4(pinPWM, gpioAF4Timer))
	gpioaMUXH.Set(mux4(pinTX, gpioAF1USART) | mux4(pinRX, gpioAF1USART) |
		mux4(pinSWDIO, gpioAF0System) | mux4(pinSWCLK, gpioAF0System))
}
