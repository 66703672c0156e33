package webhook

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestDeduplicator(t *testing.T) *Deduplicator {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewDeduplicator(client, time.Minute)
}

func TestSeenReportsFirstDeliveryOnce(t *testing.T) {
	d := newTestDeduplicator(t)
	ctx := context.Background()

	first, err := d.Seen(ctx, "stripe", "evt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Fatal("first delivery of an event should report firstSeen=true")
	}

	second, err := d.Seen(ctx, "stripe", "evt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second {
		t.Fatal("a redelivered event should report firstSeen=false")
	}
}

func TestSeenIsScopedPerProvider(t *testing.T) {
	d := newTestDeduplicator(t)
	ctx := context.Background()

	if _, err := d.Seen(ctx, "stripe", "evt_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := d.Seen(ctx, "square", "evt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Fatal("the same event id from a different provider must not be deduplicated against it")
	}
}

func TestNewDeduplicatorDefaultsNonPositiveTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	d := NewDeduplicator(client, 0)
	if d.ttl != 24*time.Hour {
		t.Fatalf("ttl = %v, want the 24h default when given a non-positive value", d.ttl)
	}
}
