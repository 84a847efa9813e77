package plugins

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PinLine is an AX5031 chip-select line on a periph.io GPIO pin, for boards
// without a GPIO character device.
type PinLine struct {
	pin gpio.PinOut
}

// NewPinLine looks up the named pin (e.g. "GPIO8") and drives it high.
func NewPinLine(name string) (*PinLine, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown GPIO pin %q", name)
	}
	if err := p.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("failed to drive pin %s: %w", name, err)
	}
	return &PinLine{pin: p}, nil
}

// Low asserts chip-select.
func (l *PinLine) Low() error {
	return l.pin.Out(gpio.Low)
}

// High releases chip-select.
func (l *PinLine) High() error {
	return l.pin.Out(gpio.High)
}

func (l *PinLine) String() string {
	return l.pin.String()
}

// ValidatePin checks that the named pin exists
func ValidatePin(name string) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph.io: %w", err)
	}
	if gpioreg.ByName(name) == nil {
		return fmt.Errorf("unknown GPIO pin %q", name)
	}
	return nil
}
