package repositories

import (
	"context"
	"time"
)

// WebhookEvent is one accepted delivery, kept for audit and replay
// diagnosis independent of the Redis dedup window (SPEC_FULL.md §4 item
// 3): Redis answers "have we seen this", Postgres answers "what did we
// see and when".
type WebhookEvent struct {
	ID        string
	Provider  string
	EventID   string
	Payload   []byte
	ReceivedAt time.Time
}

// WebhookEventsRepository records accepted webhook deliveries.
type WebhookEventsRepository interface {
	RecordEvent(ctx context.Context, event *WebhookEvent) error
}
