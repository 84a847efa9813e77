package plugins

import "github.com/linht/ax5031/ax5031"

// Register descriptions for UI
var RegisterDescriptions = map[ax5031.Register]string{
	ax5031.REVISION:     "REVISION - Silicon revision",
	ax5031.SCRATCH:      "SCRATCH - Scratch register",
	ax5031.PWRMODE:      "PWRMODE - Power mode",
	ax5031.XTALOSC:      "XTALOSC - Crystal oscillator control",
	ax5031.FIFOCTRL:     "FIFOCTRL - FIFO control",
	ax5031.FIFODATA:     "FIFODATA - FIFO data",
	ax5031.IRQMASK:      "IRQMASK - IRQ mask",
	ax5031.IRQREQUEST:   "IRQREQUEST - IRQ request",
	ax5031.PINCFG1:      "PINCFG1 - Pin configuration 1",
	ax5031.PINCFG2:      "PINCFG2 - Pin configuration 2",
	ax5031.PINCFG3:      "PINCFG3 - Pin configuration 3",
	ax5031.IRQINVERSION: "IRQINVERSION - IRQ inversion",
	ax5031.MODULATION:   "MODULATION - Modulation",
	ax5031.ENCODING:     "ENCODING - Encoder settings",
	ax5031.FRAMING:      "FRAMING - Framing settings",
	ax5031.CRCINIT3:     "CRCINIT3 - CRC init / preamble",
	ax5031.CRCINIT2:     "CRCINIT2 - CRC init / preamble",
	ax5031.CRCINIT1:     "CRCINIT1 - CRC init / preamble",
	ax5031.CRCINIT0:     "CRCINIT0 - CRC init / preamble",
	ax5031.VREG:         "VREG - Voltage regulator status",
	ax5031.FREQB3:       "FREQB3 - 2nd synthesizer frequency MSB",
	ax5031.FREQB2:       "FREQB2 - 2nd synthesizer frequency",
	ax5031.FREQB1:       "FREQB1 - 2nd synthesizer frequency",
	ax5031.FREQB0:       "FREQB0 - 2nd synthesizer frequency LSB",
	ax5031.FREQ3:        "FREQ3 - Synthesizer frequency MSB",
	ax5031.FREQ2:        "FREQ2 - Synthesizer frequency",
	ax5031.FREQ1:        "FREQ1 - Synthesizer frequency",
	ax5031.FREQ0:        "FREQ0 - Synthesizer frequency LSB",
	ax5031.FSKDEV2:      "FSKDEV2 - FSK deviation MSB",
	ax5031.FSKDEV1:      "FSKDEV1 - FSK deviation",
	ax5031.FSKDEV0:      "FSKDEV0 - FSK deviation LSB",
	ax5031.PLLLOOP:      "PLLLOOP - Synthesizer loop filter",
	ax5031.PLLRANGING:   "PLLRANGING - VCO auto-ranging",
	ax5031.TXPWR:        "TXPWR - Transmit power",
	ax5031.TXRATEHI:     "TXRATEHI - Bitrate MSB",
	ax5031.TXRATEMID:    "TXRATEMID - Bitrate",
	ax5031.TXRATELO:     "TXRATELO - Bitrate LSB",
	ax5031.MODMISC:      "MODMISC - Misc RF flags",
	ax5031.FIFOCOUNT:    "FIFOCOUNT - FIFO fill state",
	ax5031.FIFOTHRESH:   "FIFOTHRESH - FIFO threshold",
	ax5031.FIFOCONTROL:  "FIFOCONTROL - Additional FIFO control",
	ax5031.XTALCAP:      "XTALCAP - Crystal tuning capacitance",
	ax5031.FOURFSK:      "FOURFSK - 4-FSK control",
}
