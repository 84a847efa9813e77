package ax5031

// Frame is the 16-bit word shifted out for one register transaction:
// bit 15 is the direction (1 = write), bits 14..8 the register address and
// bits 7..0 the data byte.
type Frame uint16

const frameWrite Frame = 1 << 15

// ReadFrame builds the frame that reads register r. The data field is zero.
func ReadFrame(r Register) Frame {
	return Frame(r.Address()&0x7F) << 8
}

// WriteFrame builds the frame that writes v to register r.
func WriteFrame(r Register, v byte) Frame {
	return frameWrite | Frame(r.Address()&0x7F)<<8 | Frame(v)
}

// IsWrite reports whether the direction bit is set.
func (f Frame) IsWrite() bool { return f&frameWrite != 0 }

// Address returns the 7-bit register address.
func (f Frame) Address() uint8 { return uint8(f>>8) & 0x7F }

// Data returns the data byte.
func (f Frame) Data() byte { return byte(f) }

// Bytes splits the frame into the two bytes sent on the wire, MSB first.
func (f Frame) Bytes() (hi, lo byte) { return byte(f >> 8), byte(f) }
