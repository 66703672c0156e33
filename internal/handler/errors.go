package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"voicegateway/internal/domain"
)

// ConflictDetail provides structured information about a resource conflict
type ConflictDetail struct {
	Type         string `json:"type"`          // Always "duplicate" for now
	ResourceType string `json:"resource_type"` // "order", "reservation", "tenant"
	ResourceID   string `json:"resource_id"`
	Location     string `json:"location"`
}

// ConflictResponse represents a 409 conflict response with structured details
type ConflictResponse struct {
	Error    string          `json:"error"`
	Conflict *ConflictDetail `json:"conflict,omitempty"`
}

// handleError maps domain errors to HTTP responses.
func handleError(c *fiber.Ctx, err error) error {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		return c.Status(fiber.StatusConflict).JSON(ConflictResponse{
			Error: conflictErr.Message,
			Conflict: &ConflictDetail{
				Type:         "duplicate",
				ResourceType: conflictErr.ResourceType,
				ResourceID:   conflictErr.ResourceID,
				Location:     fmt.Sprintf("/api/%ss/%s", conflictErr.ResourceType, conflictErr.ResourceID),
			},
		})
	}

	return mapErrorToHTTP(err)
}

func mapErrorToHTTP(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	default:
		slog.Error("unmapped error in mapErrorToHTTP",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
