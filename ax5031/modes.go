package ax5031

import (
	"fmt"
	"strings"
)

// PowerMode selects which blocks of the chip are powered (PWRMODE register).
type PowerMode uint8

// Power modes
const (
	PowerDown PowerMode = iota
	VoltageRegulatorOn
	Standby
	SynthTx
	FullTx
)

func (m PowerMode) bits() (byte, error) {
	switch m {
	case PowerDown:
		return 0x0, nil
	case VoltageRegulatorOn:
		return 0x4, nil
	case Standby:
		return 0x5, nil
	case SynthTx:
		return 0xC, nil
	case FullTx:
		return 0xD, nil
	}
	return 0, fmt.Errorf("%w: power mode %d", ErrUnsupportedMode, uint8(m))
}

// Modulation is the RF modulation scheme (MODULATION register).
type Modulation uint8

// Modulations. Only ASK (on-off keying) is implemented by the driver.
const (
	ASK Modulation = iota
	FSK
	MSK
	PSK
)

func (m Modulation) bits() (byte, error) {
	switch m {
	case ASK:
		return 0x00, nil
	case FSK, MSK, PSK:
		return 0, fmt.Errorf("%w: modulation %s", ErrUnsupportedMode, m)
	}
	return 0, fmt.Errorf("%w: modulation %d", ErrUnsupportedMode, uint8(m))
}

// FramingMode is the packet framing (FRAMING register).
type FramingMode uint8

// Framing modes. Only raw framing is implemented by the driver.
const (
	FramingRaw FramingMode = iota
	FramingHDLC
	Framing802154
)

func (f FramingMode) bits() (byte, error) {
	switch f {
	case FramingRaw:
		return 0x00, nil
	case FramingHDLC, Framing802154:
		return 0, fmt.Errorf("%w: framing %s", ErrUnsupportedMode, f)
	}
	return 0, fmt.Errorf("%w: framing %d", ErrUnsupportedMode, uint8(f))
}

// Encoding is the line encoding (ENCODING register). Only NRZ is implemented.
type Encoding uint8

// Encodings
const (
	NRZ Encoding = iota
	NRZI
	Manchester
)

func (e Encoding) bits() (byte, error) {
	switch e {
	case NRZ:
		return 0x00, nil
	case NRZI, Manchester:
		return 0, fmt.Errorf("%w: encoding %s", ErrUnsupportedMode, e)
	}
	return 0, fmt.Errorf("%w: encoding %d", ErrUnsupportedMode, uint8(e))
}

var (
	powerModeNames  = []string{"power-down", "vreg-on", "standby", "synth-tx", "full-tx"}
	modulationNames = []string{"ask", "fsk", "msk", "psk"}
	framingNames    = []string{"raw", "hdlc", "802.15.4"}
	encodingNames   = []string{"nrz", "nrzi", "manchester"}
)

func enumString(names []string, v uint8, kind string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func enumParse(names []string, s, kind string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("ax5031: unknown %s %q", kind, s)
}

func (m PowerMode) String() string  { return enumString(powerModeNames, uint8(m), "PowerMode") }
func (m Modulation) String() string { return enumString(modulationNames, uint8(m), "Modulation") }
func (f FramingMode) String() string {
	return enumString(framingNames, uint8(f), "FramingMode")
}
func (e Encoding) String() string { return enumString(encodingNames, uint8(e), "Encoding") }

// ParsePowerMode parses names such as "standby" or "full-tx".
func ParsePowerMode(s string) (PowerMode, error) {
	v, err := enumParse(powerModeNames, s, "power mode")
	return PowerMode(v), err
}

// ParseModulation parses a modulation name ("ask", "fsk", ...).
func ParseModulation(s string) (Modulation, error) {
	v, err := enumParse(modulationNames, s, "modulation")
	return Modulation(v), err
}

// ParseFramingMode parses a framing name ("raw", "hdlc", ...).
func ParseFramingMode(s string) (FramingMode, error) {
	v, err := enumParse(framingNames, s, "framing mode")
	return FramingMode(v), err
}

// ParseEncoding parses an encoding name ("nrz", ...).
func ParseEncoding(s string) (Encoding, error) {
	v, err := enumParse(encodingNames, s, "encoding")
	return Encoding(v), err
}

// MarshalText and UnmarshalText let the settings appear by name in YAML and
// JSON documents.

func (m PowerMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *PowerMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParsePowerMode(string(b))
	return err
}

func (m Modulation) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Modulation) UnmarshalText(b []byte) (err error) {
	*m, err = ParseModulation(string(b))
	return err
}

func (f FramingMode) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FramingMode) UnmarshalText(b []byte) (err error) {
	*f, err = ParseFramingMode(string(b))
	return err
}

func (e Encoding) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Encoding) UnmarshalText(b []byte) (err error) {
	*e, err = ParseEncoding(string(b))
	return err
}
