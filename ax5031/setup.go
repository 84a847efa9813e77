package ax5031

import "fmt"

// Config is the radio profile applied by Setup.
type Config struct {
	Frequency  uint32      `yaml:"frequency" json:"frequency"` // carrier in Hz
	Bitrate    uint32      `yaml:"bitrate" json:"bitrate"`     // bits per second
	PowerMode  PowerMode   `yaml:"power_mode" json:"power_mode"`
	Modulation Modulation  `yaml:"modulation" json:"modulation"`
	Framing    FramingMode `yaml:"framing" json:"framing"`
	Encoding   Encoding    `yaml:"encoding" json:"encoding"`
	PLLLoop    PLLLoop     `yaml:"pll_loop" json:"pll_loop"`
	SysClkLED  bool        `yaml:"sysclk_led" json:"sysclk_led"`
}

// DefaultConfig is a 433.92 MHz OOK profile at 9600 bps.
var DefaultConfig = Config{
	Frequency:  433_920_000,
	Bitrate:    9600,
	PowerMode:  Standby,
	Modulation: ASK,
	Framing:    FramingRaw,
	Encoding:   NRZ,
	PLLLoop:    PLLLoop{Filter: 1, ChargePump: 1},
}

const scratchProbe = 0x55

// Setup brings the chip up with cfg: it checks that the chip answers, wakes
// it to standby, programs the synthesizer, runs VCO auto-ranging, then
// programs the transmitter and finally switches to cfg.PowerMode. It stops at
// the first failing step. The auto-ranging poll count is returned.
func (d *Dev) Setup(cfg Config) (int, error) {
	// Reject unsupported settings before touching the chip.
	if _, err := cfg.Modulation.bits(); err != nil {
		return 0, err
	}
	if _, err := cfg.Framing.bits(); err != nil {
		return 0, err
	}
	if _, err := cfg.Encoding.bits(); err != nil {
		return 0, err
	}
	if _, err := cfg.PowerMode.bits(); err != nil {
		return 0, err
	}
	if _, err := frequencyWord(cfg.Frequency); err != nil {
		return 0, err
	}
	if _, err := bitrateWord(cfg.Bitrate); err != nil {
		return 0, err
	}

	if _, _, err := d.SetScratch(scratchProbe); err != nil {
		return 0, err
	}
	_, v, err := d.Scratch()
	if err != nil {
		return 0, err
	}
	if v != scratchProbe {
		return 0, fmt.Errorf("%w: SCRATCH read back 0x%02X, want 0x%02X", ErrUnknownState, v, scratchProbe)
	}

	err = d.runSteps([]setupStep{
		{"power mode", func() (Status, error) { return d.SetPowerMode(Standby) }},
		{"pll loop", func() (Status, error) { return d.SetPLLLoop(cfg.PLLLoop) }},
		{"frequency", func() (Status, error) { return d.SetFrequency(cfg.Frequency) }},
	})
	if err != nil {
		return 0, err
	}

	polls, err := d.AutoRange()
	if err != nil {
		return polls, fmt.Errorf("ax5031: setup auto-ranging: %w", err)
	}

	err = d.runSteps([]setupStep{
		{"bitrate", func() (Status, error) { return d.SetBitrate(cfg.Bitrate) }},
		{"modulation", func() (Status, error) { return d.SetModulation(cfg.Modulation) }},
		{"framing", func() (Status, error) { return d.SetFraming(cfg.Framing) }},
		{"encoding", func() (Status, error) { return d.SetEncoding(cfg.Encoding) }},
		{"tx power", d.SetTransmitPower},
		{"sysclk led", func() (Status, error) { return d.SetSysClkLED(cfg.SysClkLED) }},
		{"power mode", func() (Status, error) { return d.SetPowerMode(cfg.PowerMode) }},
	})
	if err != nil {
		return polls, err
	}
	d.log.Info("setup complete", "frequency", cfg.Frequency, "bitrate", cfg.Bitrate, "ranging_polls", polls)
	return polls, nil
}

type setupStep struct {
	name string
	fn   func() (Status, error)
}

func (d *Dev) runSteps(steps []setupStep) error {
	for _, s := range steps {
		if _, err := s.fn(); err != nil {
			return fmt.Errorf("ax5031: setup %s: %w", s.name, err)
		}
	}
	return nil
}
