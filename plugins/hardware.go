package plugins

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/linht/ax5031/ax5031"
)

// HardwarePlugin provides AX5031 transmitter control.
// Uses transient connections - a fresh driver handle is opened and released
// for each operation, one at a time.
type HardwarePlugin struct {
	config HardwareConfig

	// mu serializes handle lifetimes: only one handle may own the
	// chip-select line at a time.
	mu    sync.Mutex
	open  func() (*ax5031.Dev, error)
	probe func() fiber.Map

	sessionsMu sync.Mutex
	sessions   map[string]*txSession
}

// HardwareConfig holds hardware configuration
type HardwareConfig struct {
	AX5031 struct {
		SPIDevice string        `yaml:"spi_device"`
		SPISpeed  uint32        `yaml:"spi_speed"`
		CSBackend string        `yaml:"cs_backend"` // "gpiocdev" or "periph"
		GPIOChip  string        `yaml:"gpio_chip"`
		CSPin     int           `yaml:"cs_pin"`
		CSPinName string        `yaml:"cs_pin_name"`
		Profile   ax5031.Config `yaml:"profile"`
	} `yaml:"ax5031"`
}

// NewHardwarePlugin creates a new hardware plugin instance
func NewHardwarePlugin(cfg HardwareConfig) (*HardwarePlugin, error) {
	// Set defaults if not configured
	if cfg.AX5031.SPISpeed == 0 {
		cfg.AX5031.SPISpeed = 1000000 // Default 1 MHz
	}
	if cfg.AX5031.CSBackend == "" {
		cfg.AX5031.CSBackend = "gpiocdev"
	}
	cfg.AX5031.Profile = profileDefaults(cfg.AX5031.Profile)
	switch cfg.AX5031.CSBackend {
	case "gpiocdev", "periph":
	default:
		return nil, fmt.Errorf("unknown chip-select backend %q", cfg.AX5031.CSBackend)
	}

	slog.Info("Hardware plugin initializing",
		"spi_device", cfg.AX5031.SPIDevice,
		"spi_speed", cfg.AX5031.SPISpeed,
		"cs_backend", cfg.AX5031.CSBackend,
		"gpio_chip", cfg.AX5031.GPIOChip,
		"cs_pin", cfg.AX5031.CSPin,
		"frequency", cfg.AX5031.Profile.Frequency)

	p := &HardwarePlugin{
		config:   cfg,
		sessions: make(map[string]*txSession),
	}
	p.open = p.openDevice
	p.probe = p.probeHardware
	return p, nil
}

// profileDefaults returns ax5031.DefaultConfig for an empty profile and
// otherwise fills in only the numeric fields left at zero. The zero value of
// each mode is a valid setting and is kept.
func profileDefaults(c ax5031.Config) ax5031.Config {
	def := ax5031.DefaultConfig
	if c == (ax5031.Config{}) {
		return def
	}
	if c.Frequency == 0 {
		c.Frequency = def.Frequency
	}
	if c.Bitrate == 0 {
		c.Bitrate = def.Bitrate
	}
	if c.PLLLoop == (ax5031.PLLLoop{}) {
		c.PLLLoop = def.PLLLoop
	}
	return c
}

// Name returns the plugin identifier
func (p *HardwarePlugin) Name() string {
	return "hardware"
}

// RegisterRoutes adds the plugin's HTTP routes
func (p *HardwarePlugin) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/hardware")

	// Device control endpoints
	api.Post("/init", p.handleInit)
	api.Get("/status", p.handleStatus)
	api.Get("/info", p.handleInfo)

	// Register access endpoints
	api.Get("/register/:name", p.handleReadRegister)
	api.Post("/register/:name", p.handleWriteRegister)
	api.Get("/registers", p.handleReadAllRegisters)

	// High-level control endpoints
	api.Post("/frequency", p.handleSetFrequency)
	api.Get("/frequency", p.handleGetFrequency)
	api.Post("/bitrate", p.handleSetBitrate)
	api.Post("/power-mode", p.handleSetPowerMode)
	api.Post("/modulation", p.handleSetModulation)
	api.Get("/modulation", p.handleGetModulation)
	api.Post("/framing", p.handleSetFraming)
	api.Post("/encoding", p.handleSetEncoding)
	api.Post("/tx-power", p.handleSetTxPower)
	api.Post("/pll-loop", p.handleSetPLLLoop)
	api.Post("/autorange", p.handleAutoRange)
	api.Post("/led", p.handleSetLED)

	// FIFO transmit
	api.Post("/transmit", p.handleTransmit)
	p.registerSocket(api)

	slog.Info("Hardware plugin routes registered")
}

// Shutdown performs cleanup
func (p *HardwarePlugin) Shutdown() error {
	p.closeSessions()
	return nil
}

// openDevice opens the SPI bus and chip-select line and hands both to a new
// driver handle.
func (p *HardwarePlugin) openDevice() (*ax5031.Dev, error) {
	cfg := p.config.AX5031

	spi, err := NewSPIDevice(cfg.SPIDevice, cfg.SPISpeed)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SPI: %w", err)
	}

	var cs ax5031.Line
	switch cfg.CSBackend {
	case "periph":
		cs, err = NewPinLine(cfg.CSPinName)
	default:
		cs, err = NewGPIOLine(cfg.GPIOChip, cfg.CSPin)
	}
	if err != nil {
		spi.Close()
		return nil, fmt.Errorf("failed to initialize chip-select: %w", err)
	}

	return ax5031.New(spi, cs, ax5031.WithLogger(slog.Default())), nil
}

// probeHardware reports whether the SPI device and chip-select pin are
// accessible, without opening a driver handle.
func (p *HardwarePlugin) probeHardware() fiber.Map {
	cfg := p.config.AX5031
	result := fiber.Map{"spi": "ok", "chip_select": "ok"}

	if err := ValidateSPIDevice(cfg.SPIDevice); err != nil {
		result["spi"] = err.Error()
	}

	var err error
	if cfg.CSBackend == "periph" {
		err = ValidatePin(cfg.CSPinName)
	} else {
		err = ValidateGPIOPin(cfg.GPIOChip, cfg.CSPin)
	}
	if err != nil {
		result["chip_select"] = err.Error()
	}
	return result
}

// withDevice executes a function with a temporary driver handle
func (p *HardwarePlugin) withDevice(fn func(*ax5031.Dev) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	dev, err := p.open()
	if err != nil {
		return err
	}
	slog.Debug("Hardware opened", "device", dev)
	defer func() {
		if err := dev.Close(); err != nil {
			slog.Warn("Failed to release hardware", "error", err)
		}
	}()

	return fn(dev)
}

// Apply runs the bring-up sequence with cfg and returns the number of
// auto-ranging polls it took.
func (p *HardwarePlugin) Apply(cfg ax5031.Config) (int, error) {
	var polls int
	err := p.withDevice(func(dev *ax5031.Dev) error {
		var err error
		polls, err = dev.Setup(cfg)
		return err
	})
	return polls, err
}

// Device control handlers

func (p *HardwarePlugin) handleInit(c *fiber.Ctx) error {
	polls, err := p.Apply(p.config.AX5031.Profile)
	if err != nil {
		slog.Error("Failed to initialize hardware", "error", err)
		return sendDeviceError(c, err)
	}

	slog.Info("Hardware initialized", "ranging_polls", polls)
	return SendSuccess(c, fiber.Map{
		"ranging_polls": polls,
		"profile":       p.config.AX5031.Profile,
	}, "Hardware initialized")
}

func (p *HardwarePlugin) handleStatus(c *fiber.Ctx) error {
	result := fiber.Map{}

	err := p.withDevice(func(dev *ax5031.Dev) error {
		rev, err := dev.Revision()
		if err != nil {
			return err
		}
		st, scratch, err := dev.Scratch()
		if err != nil {
			return err
		}
		word, err := dev.Frequency()
		if err != nil {
			return err
		}
		_, pin1, err := dev.PinConfig1()
		if err != nil {
			return err
		}
		_, pin2, err := dev.PinConfig2()
		if err != nil {
			return err
		}

		result["revision"] = rev
		result["status"] = st
		result["scratch"] = scratch
		result["frequency_word"] = word
		result["frequency"] = ax5031.FrequencyHz(word)
		result["pincfg1"] = pin1
		result["pincfg2"] = pin2

		_, mod, err := dev.Modulation()
		switch {
		case err == nil:
			result["modulation"] = mod.String()
		case errors.Is(err, ax5031.ErrUnknownState):
			result["modulation"] = "unknown"
		default:
			return err
		}
		return nil
	})

	if err != nil {
		return sendDeviceError(c, err)
	}
	return SendSuccess(c, result, "")
}

func (p *HardwarePlugin) handleInfo(c *fiber.Ctx) error {
	cfg := p.config.AX5031
	cs := fmt.Sprintf("%s:%d", cfg.GPIOChip, cfg.CSPin)
	if cfg.CSBackend == "periph" {
		cs = cfg.CSPinName
	}
	return SendSuccess(c, fiber.Map{
		"spi_device":  cfg.SPIDevice,
		"spi_speed":   cfg.SPISpeed,
		"chip_select": cs,
		"cs_backend":  cfg.CSBackend,
		"crystal":     ax5031.CrystalHz,
		"probe":       p.probe(),
	}, "")
}

// Register access handlers

func registerParam(c *fiber.Ctx) (ax5031.Register, error) {
	return ax5031.ParseRegister(strings.ToUpper(c.Params("name")))
}

func (p *HardwarePlugin) handleReadRegister(c *fiber.Ctx) error {
	reg, err := registerParam(c)
	if err != nil {
		return SendError(c, 400, err)
	}

	var st ax5031.Status
	var value byte
	err = p.withDevice(func(dev *ax5031.Dev) error {
		var err error
		st, value, err = dev.ReadRegister(reg)
		return err
	})
	if err != nil {
		return sendDeviceError(c, err)
	}

	return SendSuccess(c, fiber.Map{
		"register":    reg.String(),
		"address":     fmt.Sprintf("0x%02X", reg.Address()),
		"value":       value,
		"status":      st,
		"description": RegisterDescriptions[reg],
	}, "")
}

func (p *HardwarePlugin) handleWriteRegister(c *fiber.Ctx) error {
	reg, err := registerParam(c)
	if err != nil {
		return SendError(c, 400, err)
	}

	var req struct {
		Value uint8 `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return SendErrorMessage(c, 400, "Invalid request body")
	}

	var st ax5031.Status
	var prev byte
	err = p.withDevice(func(dev *ax5031.Dev) error {
		var err error
		st, prev, err = dev.WriteRegister(reg, req.Value)
		return err
	})
	if err != nil {
		return sendDeviceError(c, err)
	}

	slog.Info("Register write", "register", reg.String(), "value", fmt.Sprintf("0x%02X", req.Value))
	return SendSuccess(c, fiber.Map{
		"register": reg.String(),
		"previous": prev,
		"status":   st,
	}, "Register written")
}

func (p *HardwarePlugin) handleReadAllRegisters(c *fiber.Ctx) error {
	type entry struct {
		Name        string `json:"name"`
		Address     string `json:"address"`
		Value       uint8  `json:"value"`
		Description string `json:"description"`
	}
	var regs []entry

	err := p.withDevice(func(dev *ax5031.Dev) error {
		for _, reg := range ax5031.Registers {
			// Reading FIFODATA would consume FIFO content
			if reg == ax5031.FIFODATA {
				continue
			}
			_, v, err := dev.ReadRegister(reg)
			if err != nil {
				return fmt.Errorf("failed to read register %s: %w", reg, err)
			}
			regs = append(regs, entry{
				Name:        reg.String(),
				Address:     fmt.Sprintf("0x%02X", reg.Address()),
				Value:       v,
				Description: RegisterDescriptions[reg],
			})
		}
		return nil
	})
	if err != nil {
		return sendDeviceError(c, err)
	}

	return SendSuccess(c, regs, "")
}

// High-level control handlers

// setter runs fn on a fresh handle and replies with the returned status.
func (p *HardwarePlugin) setter(c *fiber.Ctx, what string, fn func(*ax5031.Dev) (ax5031.Status, error)) error {
	var st ax5031.Status
	err := p.withDevice(func(dev *ax5031.Dev) error {
		var err error
		st, err = fn(dev)
		return err
	})
	if err != nil {
		slog.Error("Hardware operation failed", "operation", what, "error", err)
		return sendDeviceError(c, err)
	}
	slog.Info("Hardware setting applied", "operation", what)
	return SendSuccess(c, fiber.Map{"status": st}, what+" set successfully")
}

func (p *HardwarePlugin) handleSetFrequency(c *fiber.Ctx) error {
	var req struct {
		Frequency uint32 `json:"frequency"`
	}
	if err := c.BodyParser(&req); err != nil || req.Frequency == 0 {
		return SendErrorMessage(c, 400, "Invalid request body")
	}
	return p.setter(c, "Frequency", func(dev *ax5031.Dev) (ax5031.Status, error) {
		return dev.SetFrequency(req.Frequency)
	})
}

func (p *HardwarePlugin) handleGetFrequency(c *fiber.Ctx) error {
	var word uint32
	err := p.withDevice(func(dev *ax5031.Dev) error {
		var err error
		word, err = dev.Frequency()
		return err
	})
	if err != nil {
		return sendDeviceError(c, err)
	}
	return SendSuccess(c, fiber.Map{
		"frequency":      ax5031.FrequencyHz(word),
		"frequency_word": word,
	}, "")
}

func (p *HardwarePlugin) handleSetBitrate(c *fiber.Ctx) error {
	var req struct {
		Bitrate uint32 `json:"bitrate"`
	}
	if err := c.BodyParser(&req); err != nil || req.Bitrate == 0 {
		return SendErrorMessage(c, 400, "Invalid request body")
	}
	return p.setter(c, "Bitrate", func(dev *ax5031.Dev) (ax5031.Status, error) {
		return dev.SetBitrate(req.Bitrate)
	})
}

func (p *HardwarePlugin) handleSetPowerMode(c *fiber.Ctx) error {
	var req struct {
		Mode ax5031.PowerMode `json:"mode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return SendError(c, 400, err)
	}
	return p.setter(c, "Power mode", func(dev *ax5031.Dev) (ax5031.Status, error) {
		return dev.SetPowerMode(req.Mode)
	})
}

func (p *HardwarePlugin) handleSetModulation(c *fiber.Ctx) error {
	var req struct {
		Modulation ax5031.Modulation `json:"modulation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return SendError(c, 400, err)
	}
	return p.setter(c, "Modulation", func(dev *ax5031.Dev) (ax5031.Status, error) {
		return dev.SetModulation(req.Modulation)
	})
}

func (p *HardwarePlugin) handleGetModulation(c *fiber.Ctx) error {
	var st ax5031.Status
	var mod ax5031.Modulation
	err := p.withDevice(func(dev *ax5031.Dev) error {
		var err error
		st, mod, err = dev.Modulation()
		return err
	})
	if err != nil {
		return sendDeviceError(c, err)
	}
	return SendSuccess(c, fiber.Map{"modulation": mod, "status": st}, "")
}

func (p *HardwarePlugin) handleSetFraming(c *fiber.Ctx) error {
	var req struct {
		Framing ax5031.FramingMode `json:"framing"`
	}
	if err := c.BodyParser(&req); err != nil {
		return SendError(c, 400, err)
	}
	return p.setter(c, "Framing", func(dev *ax5031.Dev) (ax5031.Status, error) {
		return dev.SetFraming(req.Framing)
	})
}

func (p *HardwarePlugin) handleSetEncoding(c *fiber.Ctx) error {
	var req struct {
		Encoding ax5031.Encoding `json:"encoding"`
	}
	if err := c.BodyParser(&req); err != nil {
		return SendError(c, 400, err)
	}
	return p.setter(c, "Encoding", func(dev *ax5031.Dev) (ax5031.Status, error) {
		return dev.SetEncoding(req.Encoding)
	})
}

func (p *HardwarePlugin) handleSetTxPower(c *fiber.Ctx) error {
	return p.setter(c, "TX power", (*ax5031.Dev).SetTransmitPower)
}

func (p *HardwarePlugin) handleSetPLLLoop(c *fiber.Ctx) error {
	var req ax5031.PLLLoop
	if err := c.BodyParser(&req); err != nil {
		return SendErrorMessage(c, 400, "Invalid request body")
	}
	return p.setter(c, "PLL loop", func(dev *ax5031.Dev) (ax5031.Status, error) {
		return dev.SetPLLLoop(req)
	})
}

func (p *HardwarePlugin) handleAutoRange(c *fiber.Ctx) error {
	var polls int
	err := p.withDevice(func(dev *ax5031.Dev) error {
		var err error
		polls, err = dev.AutoRange()
		return err
	})
	if err != nil {
		slog.Error("Auto-ranging failed", "error", err, "polls", polls)
		return sendDeviceError(c, err)
	}

	slog.Info("Auto-ranging complete", "polls", polls)
	return SendSuccess(c, fiber.Map{"polls": polls}, "Auto-ranging complete")
}

func (p *HardwarePlugin) handleSetLED(c *fiber.Ctx) error {
	var req struct {
		On bool `json:"on"`
	}
	if err := c.BodyParser(&req); err != nil {
		return SendErrorMessage(c, 400, "Invalid request body")
	}
	return p.setter(c, "LED", func(dev *ax5031.Dev) (ax5031.Status, error) {
		return dev.SetSysClkLED(req.On)
	})
}

// handleTransmit pushes hex-encoded bytes into the FIFO, one transaction per
// byte.
func (p *HardwarePlugin) handleTransmit(c *fiber.Ctx) error {
	var req struct {
		Data string `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return SendErrorMessage(c, 400, "Invalid request body")
	}
	data, err := hex.DecodeString(req.Data)
	if err != nil || len(data) == 0 {
		return SendErrorMessage(c, 400, "data must be a non-empty hex string")
	}

	var st ax5031.Status
	var sent int
	err = p.withDevice(func(dev *ax5031.Dev) error {
		for _, b := range data {
			var err error
			if st, err = dev.Transmit(b); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		slog.Error("Transmit failed", "error", err, "sent", sent)
		return sendDeviceError(c, err)
	}

	return SendSuccess(c, fiber.Map{"sent": sent, "status": st}, "")
}

// Register the plugin
func init() {
	Register("hardware", func(config interface{}) (Plugin, error) {
		cfg, ok := config.(HardwareConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config for hardware plugin")
		}
		return NewHardwarePlugin(cfg)
	})
}
