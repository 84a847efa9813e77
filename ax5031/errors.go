package ax5031

import "errors"

var (
	// ErrBusFault is returned when the SPI exchange or the chip-select line fails.
	ErrBusFault = errors.New("ax5031: bus fault")
	// ErrAutoRangingTimeout is returned when VCO auto-ranging did not finish
	// within MaxRangingPolls reads.
	ErrAutoRangingTimeout = errors.New("ax5031: auto-ranging timeout")
	// ErrAutoRangingError is returned when the chip flags an auto-ranging error.
	ErrAutoRangingError = errors.New("ax5031: auto-ranging error")
	// ErrUnsupportedMode is returned for modulation, framing or encoding
	// settings this driver does not implement.
	ErrUnsupportedMode = errors.New("ax5031: unsupported mode")
	// ErrOutOfRange is returned when a frequency or bitrate does not fit its
	// register word.
	ErrOutOfRange = errors.New("ax5031: value out of range")
	// ErrUnknownRegister is returned for a Register outside the register map.
	ErrUnknownRegister = errors.New("ax5031: unknown register")
	// ErrUnknownState is returned when a register holds a value the driver
	// cannot interpret.
	ErrUnknownState = errors.New("ax5031: unrecognized register state")
)
