//go:build !tinygo

package core

// maskInterrupts is a no-op on regular Go (for testing)
func maskInterrupts() {}
