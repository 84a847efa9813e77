package ax5031

import (
	"fmt"
	"math"
)

// CrystalHz is the reference crystal frequency all synthesizer and bitrate
// values are scaled against.
const CrystalHz = 16_000_000

// Limits of the register words.
const (
	maxFrequencyWord = math.MaxUint32
	maxBitrateWord   = 1<<24 - 1
)

// Quantize converts a frequency or rate into register units of
// xtal/2^24. The quotient is rounded half-up and then up, which for an
// integer quotient q yields q+1. Results that do not fit 32 bits, and a zero
// xtal, saturate at math.MaxUint32.
func Quantize(v, xtal uint32) uint32 {
	q := quantize(v, xtal)
	if q > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(q)
}

func quantize(v, xtal uint32) uint64 {
	if xtal == 0 {
		return math.MaxUint64
	}
	return uint64(v)<<24/uint64(xtal) + 1
}

func frequencyWord(hz uint32) (uint32, error) {
	q := quantize(hz, CrystalHz)
	if q > maxFrequencyWord {
		return 0, fmt.Errorf("%w: frequency %d Hz", ErrOutOfRange, hz)
	}
	return uint32(q), nil
}

func bitrateWord(bps uint32) (uint32, error) {
	q := quantize(bps, CrystalHz)
	if q > maxBitrateWord {
		return 0, fmt.Errorf("%w: bitrate %d bps", ErrOutOfRange, bps)
	}
	return uint32(q), nil
}

// SetFrequency programs the synthesizer carrier frequency in Hz. The register
// word is written MSB first to FREQ3..FREQ0. The four writes are not atomic:
// when one fails the registers already written keep their new value.
// Frequencies whose word does not fit 32 bits (4.096 GHz and up) return
// ErrOutOfRange without bus traffic.
func (d *Dev) SetFrequency(hz uint32) (Status, error) {
	w, err := frequencyWord(hz)
	if err != nil {
		return Status{}, err
	}
	return d.writeWord([]Register{FREQ3, FREQ2, FREQ1, FREQ0}, w)
}

// Frequency returns the synthesizer register word assembled from FREQ3..FREQ0.
func (d *Dev) Frequency() (uint32, error) {
	var w uint32
	for _, r := range []Register{FREQ3, FREQ2, FREQ1, FREQ0} {
		_, v, err := d.ReadRegister(r)
		if err != nil {
			return 0, err
		}
		w = w<<8 | uint32(v)
	}
	return w, nil
}

// FrequencyHz converts a synthesizer register word back to Hz.
func FrequencyHz(word uint32) uint32 {
	return uint32(uint64(word) * CrystalHz >> 24)
}

// SetBitrate programs the transmit bitrate in bits per second. The 24-bit
// register value is written MSB first to TXRATEHI, TXRATEMID and TXRATELO.
// Rates whose word does not fit 24 bits (16 Mbps and up) return
// ErrOutOfRange without bus traffic.
func (d *Dev) SetBitrate(bps uint32) (Status, error) {
	w, err := bitrateWord(bps)
	if err != nil {
		return Status{}, err
	}
	return d.writeWord([]Register{TXRATEHI, TXRATEMID, TXRATELO}, w)
}

// writeWord writes the low len(regs) bytes of w, most significant first.
func (d *Dev) writeWord(regs []Register, w uint32) (st Status, err error) {
	for i, r := range regs {
		shift := 8 * uint(len(regs)-1-i)
		if st, err = d.write(r, byte(w>>shift)); err != nil {
			return st, err
		}
	}
	return st, nil
}
