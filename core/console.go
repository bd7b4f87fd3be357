package core

import "io"

// Console composes text output on top of a blocking byte sink.
// Write errors from the sink are dropped: diagnostics have no error path.
type Console struct {
	out io.ByteWriter
}

// NewConsole wraps a byte sink such as machine.UART
func NewConsole(out io.ByteWriter) *Console {
	return &Console{out: out}
}

// PutChar sends a single byte
func (c *Console) PutChar(ch byte) {
	if c == nil || c.out == nil {
		return
	}
	_ = c.out.WriteByte(ch)
}

// Puts sends a string byte by byte
func (c *Console) Puts(s string) {
	for i := 0; i < len(s); i++ {
		c.PutChar(s[i])
	}
}

// PutUint sends an unsigned integer in decimal
func (c *Console) PutUint(v uint32) {
	c.Puts(utoa(v))
}

// Writer adapts the console to a DebugWriter that appends CRLF
func (c *Console) Writer() DebugWriter {
	return func(s string) {
		c.Puts(s)
		c.Puts("\r\n")
	}
}
