package plugins

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/linht/ax5031/ax5031"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// SendSuccess sends a successful response
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error response
func SendError(c *fiber.Ctx, status int, err error) error {
	return SendErrorMessage(c, status, err.Error())
}

// SendErrorMessage sends an error response with a custom message
func SendErrorMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// deviceErrorStatus maps driver errors to HTTP status codes. Unsupported or
// out-of-range settings are the caller's fault and calibration failures are
// reported as a bad upstream (the chip). Anything else is a server error.
func deviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, ax5031.ErrUnsupportedMode), errors.Is(err, ax5031.ErrOutOfRange),
		errors.Is(err, ax5031.ErrUnknownRegister):
		return fiber.StatusBadRequest
	case errors.Is(err, ax5031.ErrAutoRangingTimeout), errors.Is(err, ax5031.ErrAutoRangingError):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// sendDeviceError sends an error response for a failed driver operation
func sendDeviceError(c *fiber.Ctx, err error) error {
	return SendError(c, deviceErrorStatus(err), err)
}
