// Package ax5031 drives an AX5031 single-chip RF transmitter attached to a
// full-duplex SPI bus with a dedicated chip-select line.
//
// Every register access is one 16-bit frame shifted out MSB first while the
// chip-select line is held low. The byte clocked in during the first half of
// the frame is the chip's status byte, the byte clocked in during the second
// half is the register's current content. This holds for reads and writes
// alike, so each operation returns the decoded Status alongside its result.
//
// The driver keeps no shadow copy of the registers: reads go to the chip and
// writes go straight out. A Dev owns its bus and chip-select line and must not
// be used from more than one goroutine at a time; callers that share a radio
// need to serialize access themselves.
package ax5031

import (
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/multierr"
)

// Exchanger shifts one byte out on the bus and returns the byte shifted in
// during the same clock cycles. It blocks until the transfer completes.
type Exchanger interface {
	Exchange(out byte) (in byte, err error)
}

// Line is a digital output, used for the active-low chip-select.
type Line interface {
	Low() error
	High() error
}

// Dev is a handle on one AX5031 chip.
type Dev struct {
	bus Exchanger
	cs  Line
	log *slog.Logger
}

// Option configures a Dev.
type Option func(*Dev)

// WithLogger sets the logger used for transaction traces (debug level).
func WithLogger(l *slog.Logger) Option {
	return func(d *Dev) {
		if l != nil {
			d.log = l
		}
	}
}

// New returns a Dev that takes ownership of the bus and the chip-select line.
func New(bus Exchanger, cs Line, opts ...Option) *Dev {
	d := &Dev{bus: bus, cs: cs, log: slog.Default()}
	for _, o := range opts {
		o(d)
	}
	d.log = d.log.With("device", "ax5031")
	return d
}

// Close releases the bus and chip-select line if they hold any resources.
func (d *Dev) Close() error {
	var err error
	if c, ok := d.bus.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	if c, ok := d.cs.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// String describes the bus and chip-select line.
func (d *Dev) String() string {
	return fmt.Sprintf("ax5031 bus=%s cs=%s", describe(d.bus), describe(d.cs))
}

func describe(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}

// exec runs one complete register transaction. Chip-select is always driven
// high again before returning, also when the exchange fails half-way.
func (d *Dev) exec(r Register, f Frame) (st Status, data byte, err error) {
	if !r.Valid() {
		return Status{}, 0, fmt.Errorf("%w: %s", ErrUnknownRegister, r)
	}
	defer func() {
		if herr := d.cs.High(); herr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: chip select high: %w", ErrBusFault, herr))
		}
	}()
	if err := d.cs.Low(); err != nil {
		return Status{}, 0, fmt.Errorf("%w: chip select low: %w", ErrBusFault, err)
	}

	hi, lo := f.Bytes()
	sb, err := d.bus.Exchange(hi)
	if err != nil {
		return Status{}, 0, fmt.Errorf("%w: %s: %w", ErrBusFault, r, err)
	}
	data, err = d.bus.Exchange(lo)
	if err != nil {
		return Status{}, 0, fmt.Errorf("%w: %s: %w", ErrBusFault, r, err)
	}

	st = DecodeStatus(sb)
	d.log.Debug("transaction",
		"reg", r.String(),
		"write", f.IsWrite(),
		"frame", fmt.Sprintf("0x%04X", uint16(f)),
		"status", fmt.Sprintf("0x%02X", sb),
		"data", fmt.Sprintf("0x%02X", data))
	return st, data, nil
}

// ReadRegister reads register r.
func (d *Dev) ReadRegister(r Register) (Status, byte, error) {
	return d.exec(r, ReadFrame(r))
}

// WriteRegister writes v to register r. The returned byte is the register
// content the chip clocked out while v was shifted in.
func (d *Dev) WriteRegister(r Register, v byte) (Status, byte, error) {
	return d.exec(r, WriteFrame(r, v))
}

func (d *Dev) write(r Register, v byte) (Status, error) {
	st, _, err := d.WriteRegister(r, v)
	return st, err
}

// Revision reads the silicon revision.
func (d *Dev) Revision() (byte, error) {
	_, v, err := d.ReadRegister(REVISION)
	return v, err
}

// Scratch reads the scratch register.
func (d *Dev) Scratch() (Status, byte, error) {
	return d.ReadRegister(SCRATCH)
}

// SetScratch writes the scratch register.
func (d *Dev) SetScratch(v byte) (Status, byte, error) {
	return d.WriteRegister(SCRATCH, v)
}

// SetPowerMode writes the PWRMODE register.
func (d *Dev) SetPowerMode(m PowerMode) (Status, error) {
	bits, err := m.bits()
	if err != nil {
		return Status{}, err
	}
	return d.write(PWRMODE, bits)
}

// PLLLoop holds the synthesizer loop filter settings.
type PLLLoop struct {
	Filter     uint8 `yaml:"filter" json:"filter"`           // loop filter bandwidth, 2 bits
	ChargePump uint8 `yaml:"charge_pump" json:"charge_pump"` // charge pump current, 2 bits
	BandSelect uint8 `yaml:"band_select" json:"band_select"` // 1 bit
	FreqSelect uint8 `yaml:"freq_select" json:"freq_select"` // 1 bit, selects FREQB
}

// Byte packs the settings into the PLLLOOP register layout.
func (p PLLLoop) Byte() byte {
	return (p.FreqSelect&1)<<7 |
		(p.BandSelect&1)<<5 |
		(p.ChargePump&0x3)<<2 |
		p.Filter&0x3
}

// SetPLLLoop writes the PLLLOOP register.
func (d *Dev) SetPLLLoop(p PLLLoop) (Status, error) {
	return d.write(PLLLOOP, p.Byte())
}

// SetTransmitPower sets the transmitter to its maximum output range.
func (d *Dev) SetTransmitPower() (Status, error) {
	return d.write(TXPWR, txPowerMax)
}

const txPowerMax = 0x0F

// SetModulation writes the MODULATION register. Only ASK is supported; any
// other modulation returns ErrUnsupportedMode without touching the chip.
func (d *Dev) SetModulation(m Modulation) (Status, error) {
	bits, err := m.bits()
	if err != nil {
		return Status{}, err
	}
	return d.write(MODULATION, bits&0x3F)
}

// Modulation reads back the MODULATION register.
func (d *Dev) Modulation() (Status, Modulation, error) {
	st, v, err := d.ReadRegister(MODULATION)
	if err != nil {
		return st, 0, err
	}
	switch v {
	case 0x00:
		return st, ASK, nil
	}
	return st, 0, fmt.Errorf("%w: MODULATION=0x%02X", ErrUnknownState, v)
}

// SetFraming writes the FRAMING register. Only raw framing is supported.
func (d *Dev) SetFraming(f FramingMode) (Status, error) {
	bits, err := f.bits()
	if err != nil {
		return Status{}, err
	}
	return d.write(FRAMING, bits)
}

// SetEncoding writes the ENCODING register. Only NRZ is supported.
func (d *Dev) SetEncoding(e Encoding) (Status, error) {
	bits, err := e.bits()
	if err != nil {
		return Status{}, err
	}
	return d.write(ENCODING, bits)
}

// SetSysClkLED drives the SYSCLK pin, which boards commonly wire to an LED.
func (d *Dev) SetSysClkLED(on bool) (Status, error) {
	var v byte
	if on {
		v = 1
	}
	return d.write(PINCFG1, v)
}

// PinConfig1 reads the PINCFG1 register.
func (d *Dev) PinConfig1() (Status, byte, error) {
	return d.ReadRegister(PINCFG1)
}

// PinConfig2 reads the PINCFG2 register.
func (d *Dev) PinConfig2() (Status, byte, error) {
	return d.ReadRegister(PINCFG2)
}

// Transmit pushes one byte into the transmit FIFO.
func (d *Dev) Transmit(b byte) (Status, error) {
	return d.write(FIFODATA, b)
}
