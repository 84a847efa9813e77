package ax5031

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.viam.com/test"

	"github.com/linht/ax5031/ax5031/ax5031test"
)

func newTestDev(t *testing.T, status byte) (*Dev, *ax5031test.Sim) {
	t.Helper()
	sim := ax5031test.NewSim(status)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(sim, sim, WithLogger(logger)), sim
}

func TestFrameRoundTrip(t *testing.T) {
	for _, r := range Registers {
		for v := 0; v < 256; v++ {
			f := WriteFrame(r, byte(v))
			if !f.IsWrite() || f.Address() != r.Address() || f.Data() != byte(v) {
				t.Fatalf("%s/0x%02X: bad write frame 0x%04X", r, v, uint16(f))
			}
		}
		f := ReadFrame(r)
		test.That(t, f.IsWrite(), test.ShouldBeFalse)
		test.That(t, f.Data(), test.ShouldEqual, byte(0))
		test.That(t, f.Address(), test.ShouldEqual, r.Address())
	}

	hi, lo := WriteFrame(FREQ3, 0xA5).Bytes()
	test.That(t, hi, test.ShouldEqual, byte(0xA0))
	test.That(t, lo, test.ShouldEqual, byte(0xA5))
	hi, lo = ReadFrame(PLLRANGING).Bytes()
	test.That(t, hi, test.ShouldEqual, byte(0x2D))
	test.That(t, lo, test.ShouldEqual, byte(0))
}

func TestRegisterMap(t *testing.T) {
	seen := map[uint8]Register{}
	for _, r := range Registers {
		a := r.Address()
		test.That(t, a <= 0x7F, test.ShouldBeTrue)
		if o, dup := seen[a]; dup {
			t.Fatalf("%s and %s share address 0x%02X", r, o, a)
		}
		seen[a] = r
	}
	for r, want := range map[Register]uint8{
		SCRATCH: 0x01, PWRMODE: 0x02, FIFODATA: 0x05, PINCFG1: 0x0C,
		MODULATION: 0x10, FREQ3: 0x20, FREQ0: 0x23, PLLLOOP: 0x2C,
		PLLRANGING: 0x2D, TXPWR: 0x30, TXRATEHI: 0x31, TXRATELO: 0x33,
		XTALCAP: 0x4F, FOURFSK: 0x50,
	} {
		test.That(t, r.Address(), test.ShouldEqual, want)
	}

	r, err := ParseRegister("PLLRANGING")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r, test.ShouldEqual, PLLRANGING)
	_, err = ParseRegister("NOPE")
	test.That(t, errors.Is(err, ErrUnknownRegister), test.ShouldBeTrue)
}

func TestUnknownRegister(t *testing.T) {
	bogus := Register(99)
	test.That(t, bogus.Valid(), test.ShouldBeFalse)
	test.That(t, FOURFSK.Valid(), test.ShouldBeTrue)
	test.That(t, bogus.Address(), test.ShouldEqual, uint8(0x7F))
	test.That(t, bogus.String(), test.ShouldEqual, "Register(99)")

	// the codec stays total
	test.That(t, ReadFrame(bogus), test.ShouldEqual, Frame(0x7F00))
	test.That(t, WriteFrame(bogus, 0x12), test.ShouldEqual, Frame(0xFF12))

	d, sim := newTestDev(t, 0)
	_, _, err := d.ReadRegister(bogus)
	test.That(t, errors.Is(err, ErrUnknownRegister), test.ShouldBeTrue)
	_, _, err = d.WriteRegister(numRegisters, 1)
	test.That(t, errors.Is(err, ErrUnknownRegister), test.ShouldBeTrue)
	test.That(t, sim.Lows, test.ShouldEqual, 0)
	test.That(t, sim.Txns, test.ShouldBeEmpty)
}

func TestDecodeStatus(t *testing.T) {
	for b := 0; b < 256; b++ {
		st := DecodeStatus(byte(b))
		test.That(t, st.FIFOStatus, test.ShouldEqual, uint8(b>>6)&0x3)
	}
	st := DecodeStatus(StatusPLLLock | StatusFIFOEmpty)
	test.That(t, st, test.ShouldResemble, Status{PLLLock: true, FIFOEmpty: true})
	st = DecodeStatus(0xC0 | StatusFIFOFull)
	test.That(t, st, test.ShouldResemble, Status{FIFOFull: true, FIFOStatus: 3})
}

func TestTransactionEngine(t *testing.T) {
	d, sim := newTestDev(t, 0x62)
	sim.Regs[SCRATCH.Address()] = 0x11

	st, prev, err := d.SetScratch(0x42)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, prev, test.ShouldEqual, byte(0x11))
	test.That(t, st, test.ShouldResemble, DecodeStatus(0x62))

	st, v, err := d.Scratch()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(0x42))
	test.That(t, st.PLLLock, test.ShouldBeTrue)
	test.That(t, st.FIFOStatus, test.ShouldEqual, uint8(1))

	test.That(t, sim.Lows, test.ShouldEqual, 2)
	test.That(t, sim.Highs, test.ShouldEqual, 2)
	test.That(t, sim.Selected(), test.ShouldBeFalse)
}

func TestChipSelectRestoredOnFault(t *testing.T) {
	for _, failAt := range []int{1, 2} {
		d, sim := newTestDev(t, 0)
		sim.FailExchange = failAt
		_, _, err := d.ReadRegister(SCRATCH)
		test.That(t, errors.Is(err, ErrBusFault), test.ShouldBeTrue)
		test.That(t, errors.Is(err, ax5031test.ErrInjected), test.ShouldBeTrue)
		test.That(t, sim.Lows, test.ShouldEqual, 1)
		test.That(t, sim.Highs, test.ShouldEqual, 1)
		test.That(t, sim.Selected(), test.ShouldBeFalse)
	}

	d, sim := newTestDev(t, 0)
	sim.FailLow = true
	_, err := d.SetPowerMode(Standby)
	test.That(t, errors.Is(err, ErrBusFault), test.ShouldBeTrue)
	test.That(t, sim.Highs, test.ShouldEqual, sim.Lows)
	test.That(t, sim.Txns, test.ShouldBeEmpty)

	d, sim = newTestDev(t, 0)
	sim.FailHigh = true
	_, err = d.SetPowerMode(Standby)
	test.That(t, errors.Is(err, ErrBusFault), test.ShouldBeTrue)
	test.That(t, sim.Highs, test.ShouldEqual, 1)
}

func TestPowerMode(t *testing.T) {
	d, sim := newTestDev(t, 0)
	for m, want := range map[PowerMode]byte{
		PowerDown: 0x0, VoltageRegulatorOn: 0x4, Standby: 0x5, SynthTx: 0xC, FullTx: 0xD,
	} {
		_, err := d.SetPowerMode(m)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, sim.Regs[PWRMODE.Address()], test.ShouldEqual, want)
	}
	_, err := d.SetPowerMode(PowerMode(42))
	test.That(t, errors.Is(err, ErrUnsupportedMode), test.ShouldBeTrue)
}

func TestPLLLoop(t *testing.T) {
	d, sim := newTestDev(t, 0)
	_, err := d.SetPLLLoop(PLLLoop{Filter: 0x3, ChargePump: 0x2, BandSelect: 1, FreqSelect: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sim.Regs[PLLLOOP.Address()], test.ShouldEqual, byte(0xAB))

	// out of range bits are masked
	test.That(t, PLLLoop{Filter: 0xFF, ChargePump: 0xFF, BandSelect: 0xFE, FreqSelect: 0xFE}.Byte(),
		test.ShouldEqual, byte(0x0F))
}

func TestModulation(t *testing.T) {
	d, sim := newTestDev(t, 0)
	sim.Regs[MODULATION.Address()] = 0x3F

	_, err := d.SetModulation(ASK)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sim.Regs[MODULATION.Address()], test.ShouldEqual, byte(0))
	_, m, err := d.Modulation()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldEqual, ASK)

	for _, m := range []Modulation{FSK, MSK, PSK, Modulation(9)} {
		n := len(sim.Txns)
		_, err := d.SetModulation(m)
		test.That(t, errors.Is(err, ErrUnsupportedMode), test.ShouldBeTrue)
		test.That(t, len(sim.Txns), test.ShouldEqual, n)
	}
	test.That(t, sim.Writes(MODULATION.Address()), test.ShouldResemble, []byte{0})

	sim.Regs[MODULATION.Address()] = 0x02
	_, _, err = d.Modulation()
	test.That(t, errors.Is(err, ErrUnknownState), test.ShouldBeTrue)
}

func TestFramingAndEncoding(t *testing.T) {
	d, sim := newTestDev(t, 0)
	sim.Regs[FRAMING.Address()] = 0x7
	sim.Regs[ENCODING.Address()] = 0x7

	_, err := d.SetFraming(FramingRaw)
	test.That(t, err, test.ShouldBeNil)
	_, err = d.SetEncoding(NRZ)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sim.Regs[FRAMING.Address()], test.ShouldEqual, byte(0))
	test.That(t, sim.Regs[ENCODING.Address()], test.ShouldEqual, byte(0))

	_, err = d.SetFraming(FramingHDLC)
	test.That(t, errors.Is(err, ErrUnsupportedMode), test.ShouldBeTrue)
	_, err = d.SetEncoding(Manchester)
	test.That(t, errors.Is(err, ErrUnsupportedMode), test.ShouldBeTrue)
	test.That(t, len(sim.Txns), test.ShouldEqual, 2)
}

func TestPinsPowerAndTransmit(t *testing.T) {
	d, sim := newTestDev(t, StatusFIFOEmpty)

	_, err := d.SetSysClkLED(true)
	test.That(t, err, test.ShouldBeNil)
	_, v, err := d.PinConfig1()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(1))
	_, err = d.SetSysClkLED(false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sim.Regs[PINCFG1.Address()], test.ShouldEqual, byte(0))

	sim.Regs[PINCFG2.Address()] = 0x9C
	_, v, err = d.PinConfig2()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, byte(0x9C))

	_, err = d.SetTransmitPower()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sim.Regs[TXPWR.Address()], test.ShouldEqual, byte(0x0F))

	st, err := d.Transmit(0xC3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, st.FIFOEmpty, test.ShouldBeTrue)
	test.That(t, sim.Writes(FIFODATA.Address()), test.ShouldResemble, []byte{0xC3})

	sim.Regs[REVISION.Address()] = 0x21
	rev, err := d.Revision()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rev, test.ShouldEqual, byte(0x21))
}

func TestClose(t *testing.T) {
	d, sim := newTestDev(t, 0)
	test.That(t, d.Close(), test.ShouldBeNil)
	test.That(t, sim.Closed, test.ShouldBeTrue)
	test.That(t, d.String(), test.ShouldEqual, "ax5031 bus=*ax5031test.Sim cs=*ax5031test.Sim")
}
