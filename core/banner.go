package core

// PrintSystemInfo writes the startup banner with the key system parameters.
// It prints nothing when debug output is disabled in cfg.
func PrintSystemInfo(c *Console, board string, sysclkHz uint32, cfg Config) {
	if !cfg.DebugEnabled {
		return
	}

	title := board + " PWM Demo with WFE"
	c.Puts("\r\n")
	c.Puts(title)
	c.Puts("\r\n")
	for i := 0; i < len(title); i++ {
		c.PutChar('-')
	}
	c.Puts("\r\n")

	c.Puts("SYSCLK: ")
	c.PutUint(sysclkHz / 1000000)
	c.Puts("MHz, PWM Freq: ")
	c.PutUint(cfg.PWMFrequencyHz)
	c.Puts("Hz, Duty: ")
	c.PutUint(cfg.PWMDutyRatio)
	c.Puts("%\r\n")
	c.Puts("Power Mode: SEVONPEND + WFE Enabled\r\n\r\n")
}
