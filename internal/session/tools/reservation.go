package tools

import (
	"context"
	"log/slog"
	"time"

	"voicegateway/internal/domain/repositories"
)

// ReservationTool inserts a reservation row, per spec.md §4.3's
// make_reservation row.
type ReservationTool struct {
	Repo     repositories.ReservationsRepository
	TenantID string
	CallID   string
	Logger   *slog.Logger
}

func (t *ReservationTool) Execute(ctx context.Context, args map[string]interface{}) map[string]interface{} {
	partySize := 1
	if n, ok := args["party_size"].(float64); ok {
		partySize = int(n)
	}

	when := time.Now()
	if s, ok := args["when"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			when = parsed
		}
	}

	reservation := &repositories.Reservation{
		TenantID:    t.TenantID,
		CallID:      t.CallID,
		PartySize:   partySize,
		When:        when,
		ContactName: stringArg(args, "contact_name"),
		ContactInfo: stringArg(args, "contact_info"),
		CreatedAt:   time.Now(),
	}

	id, err := t.Repo.InsertReservation(ctx, reservation)
	if err != nil {
		t.Logger.Error("make_reservation insert failed", "error", err, "tenant_id", t.TenantID)
		return map[string]interface{}{
			"success": false,
			"error":   "We were unable to book your reservation right now.",
		}
	}

	return map[string]interface{}{
		"success":        true,
		"reservation_id": id,
		"message":        "Your reservation is booked.",
	}
}
