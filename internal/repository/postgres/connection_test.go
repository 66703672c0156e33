package postgres

import "testing"

func TestNewTableNamesAppliesPrefixConsistently(t *testing.T) {
	tables := NewTableNames("dev_")

	cases := map[string]string{
		tables.Tenants:      "dev_tenants",
		tables.Orders:       "dev_orders",
		tables.Reservations: "dev_reservations",
		tables.WebhookEvents: "dev_webhook_events",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestNewTableNamesEmptyPrefixLeavesNamesUnprefixed(t *testing.T) {
	tables := NewTableNames("")

	if tables.Tenants != "tenants" {
		t.Fatalf("tenants table = %q, want unprefixed \"tenants\"", tables.Tenants)
	}
	if tables.WebhookEvents != "webhook_events" {
		t.Fatalf("webhook_events table = %q, want unprefixed \"webhook_events\"", tables.WebhookEvents)
	}
}
