//go:build at32f421

package main

// USART is the USART1 transmitter. It implements io.ByteWriter.
type USART struct{}

// InitUSART sets the baud divisor and enables TX and RX
func InitUSART(divisor uint32) *USART {
	usart1BAUDR.Set(divisor)
	usart1CTRL1.Set(usartCTRL1_TEN | usartCTRL1_REN | usartCTRL1_UEN)
	return &USART{}
}

// WriteByte blocks until the transmit data register is empty, then sends c
func (u *USART) WriteByte(c byte) error {
	for !usart1STS.HasBits(usartSTS_TDBE) {
	}
	usart1DT.Set(uint32(c))
	return nil
}
