package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"voicegateway/internal/catalogsync"
)

// CatalogSyncHandler exposes a manual trigger for the scheduled catalog
// sync job, so an admin dashboard can refresh the scheduler's configured
// tenants' menu caches on demand instead of waiting for the next cron tick.
type CatalogSyncHandler struct {
	scheduler *catalogsync.Scheduler
	logger    *slog.Logger
}

func NewCatalogSyncHandler(scheduler *catalogsync.Scheduler, logger *slog.Logger) *CatalogSyncHandler {
	return &CatalogSyncHandler{scheduler: scheduler, logger: logger}
}

// Trigger handles POST /admin/catalog-sync/run. The sync pass runs
// synchronously; callers are admin tooling, not the call path, so a
// blocking response is acceptable.
func (h *CatalogSyncHandler) Trigger(c *fiber.Ctx) error {
	h.scheduler.RunNow()
	return c.SendStatus(fiber.StatusAccepted)
}
