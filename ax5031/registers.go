package ax5031

import "fmt"

// Register identifies an AX5031 control register.
type Register uint8

// AX5031 control registers
const (
	REVISION     Register = iota // Silicon revision
	SCRATCH                      // Scratch register
	PWRMODE                      // Power mode
	XTALOSC                      // Crystal oscillator control
	FIFOCTRL                     // FIFO control
	FIFODATA                     // FIFO data
	IRQMASK                      // IRQ mask
	IRQREQUEST                   // IRQ request
	PINCFG1                      // Pin configuration 1
	PINCFG2                      // Pin configuration 2
	PINCFG3                      // Pin configuration 3
	IRQINVERSION                 // IRQ inversion
	MODULATION                   // Modulation
	ENCODING                     // Encoder settings
	FRAMING                      // Framing settings
	CRCINIT3                     // CRC init data or preamble
	CRCINIT2
	CRCINIT1
	CRCINIT0
	VREG   // Voltage regulator status
	FREQB3 // 2nd synthesizer frequency
	FREQB2
	FREQB1
	FREQB0
	FREQ3 // Synthesizer frequency, MSB
	FREQ2
	FREQ1
	FREQ0
	FSKDEV2 // FSK frequency deviation
	FSKDEV1
	FSKDEV0
	PLLLOOP     // Synthesizer loop filter
	PLLRANGING  // Synthesizer VCO auto-ranging
	TXPWR       // Transmit power
	TXRATEHI    // Transmit bitrate, MSB
	TXRATEMID   // Transmit bitrate
	TXRATELO    // Transmit bitrate, LSB
	MODMISC     // Misc RF flags
	FIFOCOUNT   // FIFO fill state
	FIFOTHRESH  // FIFO threshold
	FIFOCONTROL // Additional FIFO control
	XTALCAP     // Crystal tuning capacitance
	FOURFSK     // 4-FSK control

	numRegisters
)

// Registers lists every known register in address order.
var Registers = func() []Register {
	regs := make([]Register, 0, numRegisters)
	for r := REVISION; r < numRegisters; r++ {
		regs = append(regs, r)
	}
	return regs
}()

// invalidAddress is what Address reports for a value outside the map. No
// register lives there.
const invalidAddress = 0x7F

// Valid reports whether r is a register of the map.
func (r Register) Valid() bool { return r < numRegisters }

// Address returns the 7-bit hardware address of the register, or 0x7F for a
// value that is not a register.
func (r Register) Address() uint8 {
	switch r {
	case REVISION:
		return 0x00
	case SCRATCH:
		return 0x01
	case PWRMODE:
		return 0x02
	case XTALOSC:
		return 0x03
	case FIFOCTRL:
		return 0x04
	case FIFODATA:
		return 0x05
	case IRQMASK:
		return 0x06
	case IRQREQUEST:
		return 0x07
	case PINCFG1:
		return 0x0C
	case PINCFG2:
		return 0x0D
	case PINCFG3:
		return 0x0E
	case IRQINVERSION:
		return 0x0F
	case MODULATION:
		return 0x10
	case ENCODING:
		return 0x11
	case FRAMING:
		return 0x12
	case CRCINIT3:
		return 0x14
	case CRCINIT2:
		return 0x15
	case CRCINIT1:
		return 0x16
	case CRCINIT0:
		return 0x17
	case VREG:
		return 0x1B
	case FREQB3:
		return 0x1C
	case FREQB2:
		return 0x1D
	case FREQB1:
		return 0x1E
	case FREQB0:
		return 0x1F
	case FREQ3:
		return 0x20
	case FREQ2:
		return 0x21
	case FREQ1:
		return 0x22
	case FREQ0:
		return 0x23
	case FSKDEV2:
		return 0x25
	case FSKDEV1:
		return 0x26
	case FSKDEV0:
		return 0x27
	case PLLLOOP:
		return 0x2C
	case PLLRANGING:
		return 0x2D
	case TXPWR:
		return 0x30
	case TXRATEHI:
		return 0x31
	case TXRATEMID:
		return 0x32
	case TXRATELO:
		return 0x33
	case MODMISC:
		return 0x34
	case FIFOCOUNT:
		return 0x35
	case FIFOTHRESH:
		return 0x36
	case FIFOCONTROL:
		return 0x37
	case XTALCAP:
		return 0x4F
	case FOURFSK:
		return 0x50
	}
	return invalidAddress
}

var registerNames = [...]string{
	REVISION:     "REVISION",
	SCRATCH:      "SCRATCH",
	PWRMODE:      "PWRMODE",
	XTALOSC:      "XTALOSC",
	FIFOCTRL:     "FIFOCTRL",
	FIFODATA:     "FIFODATA",
	IRQMASK:      "IRQMASK",
	IRQREQUEST:   "IRQREQUEST",
	PINCFG1:      "PINCFG1",
	PINCFG2:      "PINCFG2",
	PINCFG3:      "PINCFG3",
	IRQINVERSION: "IRQINVERSION",
	MODULATION:   "MODULATION",
	ENCODING:     "ENCODING",
	FRAMING:      "FRAMING",
	CRCINIT3:     "CRCINIT3",
	CRCINIT2:     "CRCINIT2",
	CRCINIT1:     "CRCINIT1",
	CRCINIT0:     "CRCINIT0",
	VREG:         "VREG",
	FREQB3:       "FREQB3",
	FREQB2:       "FREQB2",
	FREQB1:       "FREQB1",
	FREQB0:       "FREQB0",
	FREQ3:        "FREQ3",
	FREQ2:        "FREQ2",
	FREQ1:        "FREQ1",
	FREQ0:        "FREQ0",
	FSKDEV2:      "FSKDEV2",
	FSKDEV1:      "FSKDEV1",
	FSKDEV0:      "FSKDEV0",
	PLLLOOP:      "PLLLOOP",
	PLLRANGING:   "PLLRANGING",
	TXPWR:        "TXPWR",
	TXRATEHI:     "TXRATEHI",
	TXRATEMID:    "TXRATEMID",
	TXRATELO:     "TXRATELO",
	MODMISC:      "MODMISC",
	FIFOCOUNT:    "FIFOCOUNT",
	FIFOTHRESH:   "FIFOTHRESH",
	FIFOCONTROL:  "FIFOCONTROL",
	XTALCAP:      "XTALCAP",
	FOURFSK:      "FOURFSK",
}

func (r Register) String() string {
	if r < numRegisters {
		return registerNames[r]
	}
	return fmt.Sprintf("Register(%d)", uint8(r))
}

// ParseRegister looks up a register by its name, e.g. "FREQ3".
func ParseRegister(name string) (Register, error) {
	for _, r := range Registers {
		if registerNames[r] == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownRegister, name)
}
