// Package webhook guards the inbound telephony/POS webhook receiver
// against redelivery: most providers retry on anything but a fast 2xx, so
// the same event ID can arrive more than once. Deduplication is
// supplemented per SPEC_FULL.md §4 item 3 (spec.md itself doesn't
// describe a webhook surface), grounded on the Redis usage pattern in
// goadesign-goa-ai/registry/registry.go.
package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator records event IDs that have already been accepted, so a
// duplicate delivery can be dropped before it reaches the job queue.
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator builds a Deduplicator against an existing Redis client.
// ttl bounds how long an event ID is remembered; providers rarely retry
// past a few hours, so 24h comfortably covers real redelivery windows
// without growing the key space unbounded.
func NewDeduplicator(client *redis.Client, ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Deduplicator{client: client, ttl: ttl}
}

// Seen atomically claims eventID: it returns true the first time a given
// provider/eventID pair is seen, and false on every subsequent call within
// the TTL window. Uses SETNX so concurrent deliveries of the same event
// race safely — exactly one caller gets true.
func (d *Deduplicator) Seen(ctx context.Context, provider, eventID string) (firstSeen bool, err error) {
	key := fmt.Sprintf("webhook:seen:%s:%s", provider, eventID)
	ok, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return ok, nil
}
