package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"voicegateway/internal/domain/repositories"
	"voicegateway/internal/jobqueue"
	"voicegateway/internal/observability"
	"voicegateway/internal/webhook"
)

// webhookPayload is the minimal shape every supported provider delivery is
// normalized to before dedup and enqueue. Provider-specific parsing, if a
// real integration needed richer fields, would live ahead of this struct;
// spec.md's Non-goals exclude the POS integration itself, so this gateway
// only needs enough of the payload to key dedup and start the workflow.
type webhookPayload struct {
	EventID  string  `json:"event_id"`
	TenantID string  `json:"tenant_id"`
	OrderID  string  `json:"order_id"`
	Total    float64 `json:"total"`
}

func (p webhookPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.EventID, validation.Required),
		validation.Field(&p.TenantID, validation.Required),
		validation.Field(&p.OrderID, validation.Required),
		validation.Field(&p.Total, validation.Min(0.0)),
	)
}

// WebhookHandler receives point-of-sale delivery confirmations, per
// SPEC_FULL.md §4 item 3. It responds 200 synchronously regardless of
// downstream outcome once the delivery is durably recorded, since
// providers retry aggressively on anything else.
type WebhookHandler struct {
	dedup   *webhook.Deduplicator
	events  repositories.WebhookEventsRepository
	jobs    *jobqueue.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewWebhookHandler(dedup *webhook.Deduplicator, events repositories.WebhookEventsRepository, jobs *jobqueue.Client, metrics *observability.Metrics, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{dedup: dedup, events: events, jobs: jobs, metrics: metrics, logger: logger}
}

// Receive handles POST /webhooks/:provider.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	provider := c.Params("provider")
	body := c.Body()

	if h.metrics != nil {
		h.metrics.WebhookReceived.WithLabelValues(provider).Inc()
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed webhook payload")
	}
	if err := payload.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	firstSeen, err := h.dedup.Seen(c.Context(), provider, payload.EventID)
	if err != nil {
		h.logger.Error("webhook dedup check failed", "error", err, "provider", provider)
		return fiber.NewError(fiber.StatusInternalServerError, "dedup check failed")
	}
	if !firstSeen {
		if h.metrics != nil {
			h.metrics.WebhookDuplicates.Inc()
		}
		return c.SendStatus(fiber.StatusOK)
	}

	if err := h.events.RecordEvent(c.Context(), &repositories.WebhookEvent{
		Provider: provider,
		EventID:  payload.EventID,
		Payload:  body,
	}); err != nil {
		h.logger.Error("webhook audit record failed", "error", err, "provider", provider)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to record delivery")
	}

	if h.jobs != nil {
		if err := h.jobs.SubmitOrder(c.Context(), jobqueue.PosSubmissionInput{
			TenantID: payload.TenantID,
			OrderID:  payload.OrderID,
			Total:    payload.Total,
		}); err != nil {
			h.logger.Error("pos submission enqueue failed", "error", err, "order_id", payload.OrderID)
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
