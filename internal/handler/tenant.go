package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"voicegateway/internal/domain/models/voice"
	"voicegateway/internal/domain/repositories"
)

// TenantHandler serves the admin-facing store profile bootstrap/management
// surface behind middleware.AuthMiddleware, per SPEC_FULL.md §4 item 6.
type TenantHandler struct {
	tenants repositories.TenantsRepository
	logger  *slog.Logger
}

func NewTenantHandler(tenants repositories.TenantsRepository, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{tenants: tenants, logger: logger}
}

type upsertProfileRequest struct {
	Persona         string `json:"persona"`
	Hours           string `json:"hours"`
	LocationNotes   string `json:"location_notes"`
	CustomKnowledge string `json:"custom_knowledge"`
	MenuCache       string `json:"menu_cache"`
	Active          *bool  `json:"active"`
}

// GetProfile handles GET /admin/tenants/profile, scoped to the caller's own
// tenant via the JWT claims middleware.AuthMiddleware attaches.
func (h *TenantHandler) GetProfile(c *fiber.Ctx) error {
	tenantID, ok := c.Locals("tenantID").(string)
	if !ok || tenantID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing tenant claim")
	}

	profile, err := h.tenants.GetStoreProfile(c.Context(), tenantID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(profile)
}

// PutProfile handles PUT /admin/tenants/profile.
func (h *TenantHandler) PutProfile(c *fiber.Ctx) error {
	tenantID, ok := c.Locals("tenantID").(string)
	if !ok || tenantID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing tenant claim")
	}

	var req upsertProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	profile := &voice.StoreProfile{
		TenantID:        tenantID,
		Persona:         req.Persona,
		Hours:           req.Hours,
		LocationNotes:   req.LocationNotes,
		CustomKnowledge: req.CustomKnowledge,
		MenuCache:       req.MenuCache,
		Active:          req.Active,
	}

	if err := h.tenants.UpsertStoreProfile(c.Context(), profile); err != nil {
		return handleError(c, err)
	}
	return c.JSON(profile)
}

// WhoAmI handles GET /admin/session, the bootstrap call an admin
// dashboard makes right after login to learn which tenant/role its token
// grants it, so it can decide which of the above routes to show.
func (h *TenantHandler) WhoAmI(c *fiber.Ctx) error {
	tenantID, _ := c.Locals("tenantID").(string)
	role, _ := c.Locals("role").(string)
	return c.JSON(fiber.Map{"tenant_id": tenantID, "role": role})
}
