package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"voicegateway/internal/domain"
)

// ErrorHandler is a custom Fiber error handler that maps domain sentinel
// errors and domain.HTTPError implementations to status codes, falling back
// to 500 for anything unrecognized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return c.Status(httpErr.StatusCode()).JSON(fiber.Map{"error": httpErr.Error()})
	}

	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Error("unhandled request error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
