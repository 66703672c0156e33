package handler

import (
	"github.com/gofiber/fiber/v2"

	"voicegateway/internal/capabilities"
)

// ModelsHandler exposes the capability registry to the admin dashboard, so
// an owner can see the Anthropic models and their capabilities. There is no
// per-tenant model setting; sessions use the configured default model.
type ModelsHandler struct {
	registry *capabilities.Registry
}

func NewModelsHandler(registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{registry: registry}
}

// List handles GET /admin/models.
func (h *ModelsHandler) List(c *fiber.Ctx) error {
	models, err := h.registry.ListProviderModels("anthropic")
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(models)
}
