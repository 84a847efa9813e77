package plugins

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// GPIOLine is an AX5031 chip-select line on a GPIO character device.
type GPIOLine struct {
	chip     *gpiocdev.Chip
	line     *gpiocdev.Line
	chipPath string
	pin      int
}

// NewGPIOLine requests pin on chipPath as an output, initially high
// (chip deselected).
func NewGPIOLine(chipPath string, pin int) (*GPIOLine, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO chip %s: %w", chipPath, err)
	}

	line, err := chip.RequestLine(
		pin,
		gpiocdev.AsOutput(1),
		gpiocdev.WithConsumer("ax5031-cs"),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("failed to request chip-select pin %d: %w", pin, err)
	}

	return &GPIOLine{
		chip:     chip,
		line:     line,
		chipPath: chipPath,
		pin:      pin,
	}, nil
}

// Low asserts chip-select.
func (g *GPIOLine) Low() error {
	return g.set(0)
}

// High releases chip-select.
func (g *GPIOLine) High() error {
	return g.set(1)
}

func (g *GPIOLine) set(v int) error {
	if g.line == nil {
		return fmt.Errorf("chip-select line not initialized")
	}
	if err := g.line.SetValue(v); err != nil {
		return fmt.Errorf("failed to set chip-select pin %d to %d: %w", g.pin, v, err)
	}
	return nil
}

// Close releases the line and the chip.
func (g *GPIOLine) Close() error {
	var err error
	if g.line != nil {
		err = multierr.Append(err, g.line.Close())
		g.line = nil
	}
	if g.chip != nil {
		err = multierr.Append(err, g.chip.Close())
		g.chip = nil
	}
	if err != nil {
		return fmt.Errorf("errors closing GPIO: %w", err)
	}
	return nil
}

// String describes the GPIO line
func (g *GPIOLine) String() string {
	if g.chip == nil {
		return fmt.Sprintf("GPIO: %s (closed)", g.chipPath)
	}
	return fmt.Sprintf("GPIO: %s (%s, %s), CS Pin: %d", g.chipPath, g.chip.Name, g.chip.Label, g.pin)
}

// ValidateGPIOPin checks if a specific pin number is valid for the chip
func ValidateGPIOPin(chipPath string, pin int) error {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return fmt.Errorf("cannot access GPIO chip %s: %w", chipPath, err)
	}
	defer chip.Close()

	if pin < 0 {
		return fmt.Errorf("invalid pin %d: must be non-negative", pin)
	}
	if _, err := chip.LineInfo(pin); err != nil {
		return fmt.Errorf("invalid pin %d for chip %s: %w", pin, chipPath, err)
	}
	return nil
}
